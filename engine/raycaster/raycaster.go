package raycaster

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/Carmen-Shannon/oxy-scene/engine/object3d"
	"github.com/go-gl/mathgl/mgl32"
)

// Intersection is a single ray hit.
type Intersection struct {
	Object    object3d.Object3D // the node that was hit
	Distance  float32           // world-space distance from the ray origin
	Point     mgl32.Vec3        // world-space hit point
	Normal    mgl32.Vec3        // world-space surface normal, valid if HasNormal
	HasNormal bool
	UV        mgl32.Vec2 // spherical surface coordinate, valid if HasUV
	HasUV     bool
}

type raycaster struct {
	ray             common.Ray
	near            float32
	far             float32
	ignoreInvisible bool
}

// Raycaster picks scene graph nodes along a world-space ray.
// Only nodes implementing object3d.Bounded take part: the ray is moved into each node's
// local space and tested against its bounding sphere, or its bounding box when it has no
// sphere. A ray that only grazes a sphere counts as a hit.
// World matrices must be refreshed before intersecting.
type Raycaster interface {
	// Ray returns the current world-space ray.
	//
	// Returns:
	//   - common.Ray: the ray
	Ray() common.Ray

	// SetRay replaces the world-space ray.
	//
	// Parameters:
	//   - ray: the new ray
	SetRay(ray common.Ray)

	// SetFromCamera aims the ray through a screen point. The origin is the point on the
	// camera's near plane and the direction runs toward the matching far-plane point.
	//
	// Parameters:
	//   - ndc: normalized device coordinates, x and y in [-1, 1]
	//   - cam: the camera to cast from
	//
	// Returns:
	//   - error: common.ErrSingularMatrix if the camera's view-projection cannot be inverted,
	//     common.ErrDegenerateRay if the near and far points coincide
	SetFromCamera(ndc mgl32.Vec2, cam camera.Camera) error

	// IntersectObject tests a single node and, with recursive, all of its descendants.
	//
	// Parameters:
	//   - obj: the node to test
	//   - recursive: also test descendants
	//
	// Returns:
	//   - []Intersection: hits sorted by ascending distance (never nil)
	IntersectObject(obj object3d.Object3D, recursive bool) []Intersection

	// IntersectObjects tests every candidate and, with recursive, their descendants.
	// Callers that only want the nearest hit take the first element.
	//
	// Parameters:
	//   - objs: the candidate nodes
	//   - recursive: also test descendants
	//
	// Returns:
	//   - []Intersection: hits sorted by ascending distance (never nil)
	IntersectObjects(objs []object3d.Object3D, recursive bool) []Intersection
}

var _ Raycaster = &raycaster{}

// NewRaycaster creates a raycaster with a ray at the origin pointing down -Z.
//
// Parameters:
//   - options: functional options to configure the raycaster
//
// Returns:
//   - Raycaster: the newly created raycaster
func NewRaycaster(options ...RaycasterBuilderOption) Raycaster {
	r := &raycaster{
		ray:  common.NewRay(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}),
		near: 0,
		far:  float32(math.Inf(1)),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *raycaster) Ray() common.Ray {
	return r.ray
}

func (r *raycaster) SetRay(ray common.Ray) {
	r.ray = ray
}

func (r *raycaster) SetFromCamera(ndc mgl32.Vec2, cam camera.Camera) error {
	inv, err := cam.InverseViewProjectionMatrix()
	if err != nil {
		return fmt.Errorf("raycaster: %w", err)
	}
	near := common.TransformPoint(inv, mgl32.Vec3{ndc[0], ndc[1], -1})
	far := common.TransformPoint(inv, mgl32.Vec3{ndc[0], ndc[1], 1})
	dir := far.Sub(near)
	if dir.LenSqr() == 0 || !finite(near) || !finite(dir) {
		return fmt.Errorf("raycaster: camera %d: %w", cam.ID(), common.ErrDegenerateRay)
	}
	r.ray = common.NewRay(near, dir)
	return nil
}

func (r *raycaster) IntersectObject(obj object3d.Object3D, recursive bool) []Intersection {
	return r.IntersectObjects([]object3d.Object3D{obj}, recursive)
}

func (r *raycaster) IntersectObjects(objs []object3d.Object3D, recursive bool) []Intersection {
	hits := make([]Intersection, 0)
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		r.intersect(obj, recursive, &hits)
	}
	slices.SortStableFunc(hits, func(a, b Intersection) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return hits
}

func (r *raycaster) intersect(obj object3d.Object3D, recursive bool, hits *[]Intersection) {
	if r.ignoreInvisible && !obj.Visible() {
		return
	}
	if b, ok := obj.(object3d.Bounded); ok {
		if hit, ok := r.intersectBounded(b); ok {
			*hits = append(*hits, hit)
		}
	}
	if recursive {
		for _, child := range obj.Children() {
			r.intersect(child, true, hits)
		}
	}
}

func (r *raycaster) intersectBounded(b object3d.Bounded) (Intersection, bool) {
	world := b.WorldMatrix()
	inv, ok := common.Invert4(world)
	if !ok {
		common.Logger().Debug("raycaster: skipping node with singular world matrix", "id", b.ID(), "name", b.Name())
		return Intersection{}, false
	}
	local := r.ray.ApplyMatrix4(inv)

	if sphere, ok := b.BoundingSphere(); ok {
		t, ok := local.IntersectSphere(sphere)
		if !ok {
			return Intersection{}, false
		}
		localPoint := local.At(t)
		hit, ok := r.worldHit(b, world, localPoint)
		if !ok {
			return Intersection{}, false
		}
		if n := localPoint.Sub(sphere.Center); n.LenSqr() > 0 {
			n = n.Normalize()
			if nm, ok := common.NormalMatrix(world); ok {
				hit.Normal = nm.Mul3x1(n).Normalize()
				hit.HasNormal = true
			}
			hit.UV = sphericalUV(n)
			hit.HasUV = true
		}
		return hit, true
	}

	if box, ok := b.BoundingBox(); ok {
		t, ok := local.IntersectBox(box)
		if !ok {
			return Intersection{}, false
		}
		return r.worldHit(b, world, local.At(t))
	}
	return Intersection{}, false
}

// worldHit maps a local-space hit point back to world space and applies the distance range.
func (r *raycaster) worldHit(obj object3d.Object3D, world mgl32.Mat4, localPoint mgl32.Vec3) (Intersection, bool) {
	point := common.TransformPoint(world, localPoint)
	dist := point.Sub(r.ray.Origin).Len()
	if dist < r.near || dist > r.far {
		return Intersection{}, false
	}
	return Intersection{Object: obj, Distance: dist, Point: point}, true
}

// sphericalUV maps a unit direction from the sphere center to equirectangular coordinates.
func sphericalUV(n mgl32.Vec3) mgl32.Vec2 {
	u := 0.5 + math.Atan2(float64(n.Z()), float64(n.X()))/(2*math.Pi)
	v := 0.5 + math.Asin(float64(mgl32.Clamp(n.Y(), -1, 1)))/math.Pi
	return mgl32.Vec2{float32(u), float32(v)}
}

func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
			return false
		}
	}
	return true
}
