package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Sphere is a bounding sphere described by a center and radius.
// A negative radius marks an empty sphere.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// NewSphere creates a sphere from center and radius.
func NewSphere(center mgl32.Vec3, radius float32) Sphere {
	return Sphere{Center: center, Radius: radius}
}

// IsEmpty reports whether the sphere has a negative radius.
func (s Sphere) IsEmpty() bool {
	return s.Radius < 0
}

// ContainsPoint reports whether p lies inside or on the sphere.
func (s Sphere) ContainsPoint(p mgl32.Vec3) bool {
	return p.Sub(s.Center).LenSqr() <= s.Radius*s.Radius
}

// ApplyMatrix4 transforms the sphere by m. The radius grows by the largest axis scale
// of m, so the result still bounds the transformed volume under non-uniform scale.
//
// Parameters:
//   - m: the transform
//
// Returns:
//   - Sphere: the transformed sphere
func (s Sphere) ApplyMatrix4(m mgl32.Mat4) Sphere {
	if s.IsEmpty() {
		return s
	}
	return Sphere{
		Center: TransformPoint(m, s.Center),
		Radius: s.Radius * MaxScaleOnAxis(m),
	}
}

// SphereFromPoints computes a bounding sphere centered on the bounding box of points.
// The radius is the largest distance from that center to any point.
//
// Parameters:
//   - points: positions to enclose
//
// Returns:
//   - Sphere: the bounding sphere, empty (radius -1) if points is empty
func SphereFromPoints(points []mgl32.Vec3) Sphere {
	if len(points) == 0 {
		return Sphere{Radius: -1}
	}
	center := Box3FromPoints(points).Center()

	var maxDistSq float32
	for _, p := range points {
		if d := p.Sub(center).LenSqr(); d > maxDistSq {
			maxDistSq = d
		}
	}
	return Sphere{Center: center, Radius: float32(math.Sqrt(float64(maxDistSq)))}
}

// Box3 is an axis-aligned bounding box. A box whose Min exceeds its Max on any axis is empty.
type Box3 struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewBox3 creates a box from its corners.
func NewBox3(min, max mgl32.Vec3) Box3 {
	return Box3{Min: min, Max: max}
}

// EmptyBox3 returns a box that contains nothing and grows to fit the first expanded point.
func EmptyBox3() Box3 {
	inf := float32(math.Inf(1))
	return Box3{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// Box3FromPoints computes the tightest box containing points.
func Box3FromPoints(points []mgl32.Vec3) Box3 {
	b := EmptyBox3()
	for _, p := range points {
		b = b.ExpandByPoint(p)
	}
	return b
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// ExpandByPoint returns the smallest box containing b and p.
func (b Box3) ExpandByPoint(p mgl32.Vec3) Box3 {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
	return b
}

// Center returns the midpoint of the box. The center of an empty box is the origin.
func (b Box3) Center() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extents of the box along each axis.
func (b Box3) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// ContainsPoint reports whether p lies inside or on the box.
func (b Box3) ContainsPoint(p mgl32.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// BoundingSphere returns the sphere circumscribing the box.
func (b Box3) BoundingSphere() Sphere {
	if b.IsEmpty() {
		return Sphere{Radius: -1}
	}
	return Sphere{Center: b.Center(), Radius: b.Size().Len() * 0.5}
}

// ApplyMatrix4 returns the axis-aligned box bounding all eight corners of b transformed by m.
//
// Parameters:
//   - m: the transform
//
// Returns:
//   - Box3: the transformed bounds
func (b Box3) ApplyMatrix4(m mgl32.Mat4) Box3 {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox3()
	for i := 0; i < 8; i++ {
		corner := b.Min
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		out = out.ExpandByPoint(TransformPoint(m, corner))
	}
	return out
}
