package scene

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/object3d"
	"github.com/Carmen-Shannon/oxy-scene/engine/profiler"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithObjects attaches initial nodes to the scene root.
// Nodes that cannot be attached are skipped and logged.
//
// Parameters:
//   - objects: the nodes to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...object3d.Object3D) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			if err := s.Add(obj); err != nil {
				common.Logger().Warn("scene: skipping initial object", "scene", s.name, "error", err)
			}
		}
	}
}

// WithComputeWorkers sets the number of worker goroutines used by parallel culling.
// Defaults to runtime.NumCPU()-1. A value of 1 keeps culling on the calling goroutine.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.computeWorkers = n
	}
}

// WithParallelCullThreshold sets the candidate count at which Cull switches to the worker
// pool. Default is DefaultParallelCullThreshold. Zero or less disables parallel culling.
//
// Parameters:
//   - threshold: the minimum number of candidates for a parallel pass
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithParallelCullThreshold(threshold int) SceneBuilderOption {
	return func(s *scene) {
		s.parallelThreshold = threshold
	}
}

// WithCullingDisabled disables frustum culling for the scene. When set to true, Cull
// returns every visible bounded node.
// By default culling is enabled (disabled = false).
//
// Parameters:
//   - disabled: true to disable frustum culling, false to enable it (default)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullingDisabled(disabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.cullingDisabled = disabled
	}
}

// WithAmbientColor sets the ambient light color packed into the light buffer.
//
// Parameters:
//   - color: the ambient RGB color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAmbientColor(color mgl32.Vec3) SceneBuilderOption {
	return func(s *scene) {
		s.ambientColor = color
	}
}

// WithProfiler records every Cull and Pick pass in p.
//
// Parameters:
//   - p: the profiler to feed
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) SceneBuilderOption {
	return func(s *scene) {
		s.prof = p
	}
}
