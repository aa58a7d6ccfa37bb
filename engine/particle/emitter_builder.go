package particle

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/light"
	"github.com/Carmen-Shannon/oxy-scene/engine/object3d"
)

// EmitterBuilderOption is a functional option for configuring an Emitter during construction.
type EmitterBuilderOption func(*emitter)

// WithObjectOptions forwards node options (name, transform, visibility) to the underlying Object3D.
//
// Parameters:
//   - options: the node options
//
// Returns:
//   - EmitterBuilderOption: a function that records the node options
func WithObjectOptions(options ...object3d.Object3DBuilderOption) EmitterBuilderOption {
	return func(e *emitter) {
		e.objectOptions = append(e.objectOptions, options...)
	}
}

// WithRunning sets whether the emitter starts emitting immediately. Emitters run by default.
//
// Parameters:
//   - running: false to create a stopped emitter
//
// Returns:
//   - EmitterBuilderOption: a function that sets the running state
func WithRunning(running bool) EmitterBuilderOption {
	return func(e *emitter) {
		e.running = running
	}
}

// WithLight attaches a light as a child of the emitter. The light is marked ephemeral and
// is enabled only while the emitter has live particles.
//
// Parameters:
//   - l: the light to attach
//
// Returns:
//   - EmitterBuilderOption: a function that attaches the light
func WithLight(l light.Light) EmitterBuilderOption {
	return func(e *emitter) {
		e.light = l
	}
}
