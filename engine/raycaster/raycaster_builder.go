package raycaster

import "github.com/Carmen-Shannon/oxy-scene/common"

// RaycasterBuilderOption is a functional option for configuring a Raycaster.
type RaycasterBuilderOption func(*raycaster)

// WithRay sets the initial world-space ray.
//
// Parameters:
//   - ray: the ray
//
// Returns:
//   - RaycasterBuilderOption: a function that sets the ray
func WithRay(ray common.Ray) RaycasterBuilderOption {
	return func(r *raycaster) {
		r.ray = ray
	}
}

// WithNear drops hits closer to the ray origin than near. Defaults to 0.
//
// Parameters:
//   - near: the minimum hit distance
//
// Returns:
//   - RaycasterBuilderOption: a function that sets the near distance
func WithNear(near float32) RaycasterBuilderOption {
	return func(r *raycaster) {
		r.near = near
	}
}

// WithFar drops hits farther from the ray origin than far. Defaults to +Inf.
//
// Parameters:
//   - far: the maximum hit distance
//
// Returns:
//   - RaycasterBuilderOption: a function that sets the far distance
func WithFar(far float32) RaycasterBuilderOption {
	return func(r *raycaster) {
		r.far = far
	}
}

// WithIgnoreInvisible skips invisible nodes and their subtrees.
//
// Parameters:
//   - ignore: true to skip invisible nodes
//
// Returns:
//   - RaycasterBuilderOption: a function that sets the visibility filter
func WithIgnoreInvisible(ignore bool) RaycasterBuilderOption {
	return func(r *raycaster) {
		r.ignoreInvisible = ignore
	}
}
