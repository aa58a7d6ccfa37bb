package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line with an origin and a normalized direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// NewRay creates a ray, normalizing direction.
//
// Parameters:
//   - origin: ray origin
//   - direction: ray direction (any non-zero length)
//
// Returns:
//   - Ray: the new ray
func NewRay(origin, direction mgl32.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ApplyMatrix4 moves the ray into another frame. The origin is transformed as a point,
// the direction as a vector and then renormalized.
//
// Parameters:
//   - m: the transform
//
// Returns:
//   - Ray: the transformed ray
func (r Ray) ApplyMatrix4(m mgl32.Mat4) Ray {
	return Ray{
		Origin:    TransformPoint(m, r.Origin),
		Direction: TransformDirection(m, r.Direction).Normalize(),
	}
}

// DistanceSqToPoint returns the squared distance from p to the closest point on the ray.
func (r Ray) DistanceSqToPoint(p mgl32.Vec3) float32 {
	t := p.Sub(r.Origin).Dot(r.Direction)
	if t < 0 {
		return r.Origin.Sub(p).LenSqr()
	}
	return r.At(t).Sub(p).LenSqr()
}

// IntersectSphere returns the distance along the ray to the first point where it meets s.
// A ray that touches the sphere at exactly one point counts as a hit. When the origin is
// inside the sphere the exit point is returned.
//
// Parameters:
//   - s: the sphere to test
//
// Returns:
//   - float32: distance along the ray to the hit point
//   - bool: false if the ray misses or the sphere lies behind the origin
func (r Ray) IntersectSphere(s Sphere) (float32, bool) {
	if s.IsEmpty() {
		return 0, false
	}
	toCenter := s.Center.Sub(r.Origin)
	tca := toCenter.Dot(r.Direction)
	d2 := toCenter.LenSqr() - tca*tca
	r2 := s.Radius * s.Radius
	if d2 > r2 {
		return 0, false
	}

	thc := float32(math.Sqrt(float64(max(r2-d2, 0))))
	t0 := tca - thc
	t1 := tca + thc
	if t1 < 0 {
		return 0, false
	}
	if t0 < 0 {
		return t1, true
	}
	return t0, true
}

// IntersectsSphere reports whether the ray meets s.
func (r Ray) IntersectsSphere(s Sphere) bool {
	_, ok := r.IntersectSphere(s)
	return ok
}

// IntersectBox returns the distance along the ray to the first point where it meets b,
// using the slab method.
//
// Parameters:
//   - b: the box to test
//
// Returns:
//   - float32: distance along the ray to the hit point (0 if the origin is inside)
//   - bool: false if the ray misses or the box lies behind the origin
func (r Ray) IntersectBox(b Box3) (float32, bool) {
	if b.IsEmpty() {
		return 0, false
	}
	tMin := float32(math.Inf(-1))
	tMax := float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < b.Min[axis] || o > b.Max[axis] {
				return 0, false
			}
			continue
		}
		inv := 1 / d
		t0 := (b.Min[axis] - o) * inv
		t1 := (b.Max[axis] - o) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = max(tMin, t0)
		tMax = min(tMax, t1)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		return 0, true
	}
	return tMin, true
}
