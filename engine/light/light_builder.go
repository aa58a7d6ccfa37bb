package light

import (
	"math"

	"github.com/Carmen-Shannon/oxy-scene/engine/object3d"
	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption is a function that configures a Light during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition sets the light's local position.
//
// Parameters:
//   - x, y, z: position in parent space
//
// Returns:
//   - LightBuilderOption: a function that applies the position to the light node
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.objectOptions = append(l.objectOptions, object3d.WithPosition(x, y, z))
	}
}

// WithName sets the light's node name.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - LightBuilderOption: a function that applies the name to the light node
func WithName(name string) LightBuilderOption {
	return func(l *lightImpl) {
		l.objectOptions = append(l.objectOptions, object3d.WithName(name))
	}
}

// WithObjectOptions forwards arbitrary node options to the underlying Object3D.
//
// Parameters:
//   - options: the node options
//
// Returns:
//   - LightBuilderOption: a function that records the node options
func WithObjectOptions(options ...object3d.Object3DBuilderOption) LightBuilderOption {
	return func(l *lightImpl) {
		l.objectOptions = append(l.objectOptions, options...)
	}
}

// WithDirection sets the light direction in local space. The direction is normalized before storing.
//
// Parameters:
//   - x, y, z: direction components
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = normalize3(x, y, z)
	}
}

// WithColor sets the RGB color of the light.
//
// Parameters:
//   - r, g, b: color components
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = mgl32.Vec3{r, g, b}
	}
}

// WithIntensity sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithRange sets how far point and spot lights reach.
//
// Parameters:
//   - lightRange: the range value
//
// Returns:
//   - LightBuilderOption: a function that applies the range option to a lightImpl
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = lightRange
	}
}

// WithSpotCone sets the cone half-angles of a spot light. Angles are given in degrees
// and stored as cosines.
//
// Parameters:
//   - innerDeg: inner cone half-angle in degrees
//   - outerDeg: outer cone half-angle in degrees
//
// Returns:
//   - LightBuilderOption: a function that applies the spot cone option to a lightImpl
func WithSpotCone(innerDeg, outerDeg float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.innerCone = cosDeg(innerDeg)
		l.outerCone = cosDeg(outerDeg)
	}
}

// WithEnabled sets whether the light takes part in rendering.
//
// Parameters:
//   - enabled: true to enable the light
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option to a lightImpl
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithEphemeral marks the light as short-lived and owned by a particle emitter.
//
// Parameters:
//   - ephemeral: true if the light is ephemeral
//
// Returns:
//   - LightBuilderOption: a function that applies the ephemeral option to a lightImpl
func WithEphemeral(ephemeral bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.ephemeral = ephemeral
	}
}

// WithCastsShadows sets whether the light is eligible for shadow map generation.
//
// Parameters:
//   - castsShadows: true to enable shadow casting
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow casting option to a lightImpl
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}

// normalize3 normalizes a vector, returning the zero vector for zero-length input.
func normalize3(x, y, z float32) mgl32.Vec3 {
	v := mgl32.Vec3{x, y, z}
	if v.LenSqr() == 0 {
		return mgl32.Vec3{}
	}
	return v.Normalize()
}

// cosDeg converts an angle in degrees to its cosine.
func cosDeg(deg float32) float32 {
	return float32(math.Cos(float64(mgl32.DegToRad(deg))))
}
