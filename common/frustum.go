package common

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space using the equation: n·x + d = 0
// where n is the unit normal and d is the signed distance constant.
// The positive half-space (n·x + d >= 0) is considered inside.
type Plane struct {
	Normal   mgl32.Vec3
	Constant float32
}

// NewPlane creates a plane from a normal and constant. The plane is not normalized.
//
// Parameters:
//   - normal: the plane normal
//   - constant: the signed distance constant
//
// Returns:
//   - Plane: the new plane
func NewPlane(normal mgl32.Vec3, constant float32) Plane {
	return Plane{Normal: normal, Constant: constant}
}

// PlaneFromNormalAndPoint creates a plane with the given normal passing through point.
//
// Parameters:
//   - normal: the plane normal (normalized before use)
//   - point: any point on the plane
//
// Returns:
//   - Plane: the new normalized plane
func PlaneFromNormalAndPoint(normal, point mgl32.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Constant: -n.Dot(point)}
}

// Normalize scales the plane so that its normal has unit length.
// A plane with a zero-length normal is left untouched.
func (p *Plane) Normalize() {
	length := p.Normal.Len()
	if length == 0 {
		return
	}
	invLen := 1.0 / length
	p.Normal = p.Normal.Mul(invLen)
	p.Constant *= invLen
}

// DistanceToPoint returns the signed distance from the plane to point.
// Positive values lie on the side the normal points toward.
//
// Parameters:
//   - point: the point to measure
//
// Returns:
//   - float32: the signed distance
func (p Plane) DistanceToPoint(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Constant
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that the positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Top, Bottom, Near, Far
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumTop
	FrustumBottom
	FrustumNear
	FrustumFar
)

// NewFrustum builds a frustum from an explicit plane list in the order
// left, right, top, bottom, near, far.
//
// Parameters:
//   - planes: exactly six planes
//
// Returns:
//   - Frustum: the frustum
//   - error: ErrPlaneCount if len(planes) != 6
func NewFrustum(planes []Plane) (Frustum, error) {
	var f Frustum
	if len(planes) != len(f.Planes) {
		return f, fmt.Errorf("got %d planes: %w", len(planes), ErrPlaneCount)
	}
	copy(f.Planes[:], planes)
	return f, nil
}

// FrustumFromMatrix extracts frustum planes from a view-projection matrix.
// The matrix should be the combined Projection * View matrix.
//
// Parameters:
//   - viewProj: the view-projection matrix
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func FrustumFromMatrix(viewProj mgl32.Mat4) Frustum {
	var f Frustum
	f.SetFromProjectionMatrix(viewProj)
	return f
}

// SetFromProjectionMatrix regenerates all six planes from a view-projection matrix
// using the Gribb/Hartmann method. Clip space is the OpenGL cube, z in [-1, 1].
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined Projection * View matrix
func (f *Frustum) SetFromProjectionMatrix(viewProj mgl32.Mat4) {
	r0 := viewProj.Row(0)
	r1 := viewProj.Row(1)
	r2 := viewProj.Row(2)
	r3 := viewProj.Row(3)

	f.Planes[FrustumLeft] = planeFromRow(r3.Add(r0))
	f.Planes[FrustumRight] = planeFromRow(r3.Sub(r0))
	f.Planes[FrustumTop] = planeFromRow(r3.Sub(r1))
	f.Planes[FrustumBottom] = planeFromRow(r3.Add(r1))
	f.Planes[FrustumNear] = planeFromRow(r3.Add(r2))
	f.Planes[FrustumFar] = planeFromRow(r3.Sub(r2))

	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
}

func planeFromRow(r mgl32.Vec4) Plane {
	return Plane{Normal: r.Vec3(), Constant: r[3]}
}

// IntersectsSphere reports whether a sphere is at least partially inside the frustum.
// The test is conservative: a sphere just outside a frustum corner may be reported as intersecting.
//
// Parameters:
//   - center: sphere center
//   - radius: sphere radius
//
// Returns:
//   - bool: false only if the sphere is fully outside one of the planes
func (f *Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}

// IntersectsSphereVolume is IntersectsSphere for a Sphere value.
func (f *Frustum) IntersectsSphereVolume(s Sphere) bool {
	return f.IntersectsSphere(s.Center, s.Radius)
}

// ContainsPoint reports whether p lies on the non-negative side of all six planes.
//
// Parameters:
//   - p: the point to test
//
// Returns:
//   - bool: true if the point is inside or on the boundary
func (f *Frustum) ContainsPoint(p mgl32.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsBox reports whether an axis-aligned box is at least partially inside the frustum.
// Per plane, the corner furthest along the normal (the positive vertex) is tested; if it lies
// behind the plane the whole box does.
//
// Parameters:
//   - min: minimum box corner
//   - max: maximum box corner
//
// Returns:
//   - bool: false only if the box is fully outside one of the planes
func (f *Frustum) IntersectsBox(min, max mgl32.Vec3) bool {
	for i := range f.Planes {
		p := &f.Planes[i]
		var v mgl32.Vec3
		for axis := 0; axis < 3; axis++ {
			if p.Normal[axis] >= 0 {
				v[axis] = max[axis]
			} else {
				v[axis] = min[axis]
			}
		}
		if p.DistanceToPoint(v) < 0 {
			return false
		}
	}
	return true
}

// IntersectsBox3 is IntersectsBox for a Box3 value. Empty boxes never intersect.
func (f *Frustum) IntersectsBox3(b Box3) bool {
	if b.IsEmpty() {
		return false
	}
	return f.IntersectsBox(b.Min, b.Max)
}
