package light

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowMapResolution is the default width and height in texels of a shadow depth texture.
const ShadowMapResolution = 2048

// DefaultShadowHalfExtent is the default orthographic half-extent (in world units)
// of a directional light's shadow volume.
const DefaultShadowHalfExtent float32 = 40.0

// DefaultShadowNear is the default near plane of a directional light's shadow projection.
const DefaultShadowNear float32 = 0.1

// DefaultShadowFar is the default far plane of a directional light's shadow projection.
const DefaultShadowFar float32 = 200.0

// DefaultShadowBias is the constant depth bias applied to shadow comparisons.
const DefaultShadowBias float32 = 0.001

// DefaultShadowNormalBiasScale is the multiplier applied to the world size of one shadow
// map texel to get the normal-offset bias. Typical values are 2.0–4.0.
const DefaultShadowNormalBiasScale float32 = 3.0

var (
	// ErrNotDirectional is returned when a shadow camera is requested for a point or spot light.
	ErrNotDirectional = errors.New("light: shadow camera requires a directional light")

	// ErrNoDirection is returned when a light's world direction has zero length.
	ErrNoDirection = errors.New("light: direction has zero length")
)

// NewShadowCamera builds the orthographic camera a directional light renders its shadow
// map from. The camera sits far*0.5 behind center, opposite the light's world direction,
// and looks at center. The light's world matrix must be current.
//
// Parameters:
//   - l: a directional light
//   - center: world-space center of the shadow volume, typically the viewer position
//   - halfExtent: half-size of the square shadow volume in world units
//   - near, far: clip plane distances
//
// Returns:
//   - camera.Camera: a detached orthographic camera
//   - error: ErrNotDirectional or ErrNoDirection
func NewShadowCamera(l Light, center mgl32.Vec3, halfExtent, near, far float32) (camera.Camera, error) {
	if l.Kind() != LightTypeDirectional {
		return nil, fmt.Errorf("light %d is %s: %w", l.ID(), l.Kind(), ErrNotDirectional)
	}
	dir := l.WorldDirection()
	if dir.LenSqr() == 0 {
		return nil, fmt.Errorf("light %d: %w", l.ID(), ErrNoDirection)
	}

	eye := center.Sub(dir.Mul(far * 0.5))
	return camera.NewOrthographicCamera(
		-halfExtent, halfExtent, halfExtent, -halfExtent, near, far,
		camera.WithName(fmt.Sprintf("shadow_%d", l.ID())),
		camera.WithPosition(eye[0], eye[1], eye[2]),
		camera.WithLookAt(center),
	), nil
}

// ComputeShadowData builds the shadow uniform of a directional light using the default
// shadow volume and bias settings.
//
// Parameters:
//   - l: a directional light
//   - center: world-space center of the shadow volume
//   - resolution: shadow map resolution in texels
//
// Returns:
//   - GPUShadowData: the packed shadow data
//   - error: ErrNotDirectional, ErrNoDirection or common.ErrSingularMatrix
func ComputeShadowData(l Light, center mgl32.Vec3, resolution int) (GPUShadowData, error) {
	cam, err := NewShadowCamera(l, center, DefaultShadowHalfExtent, DefaultShadowNear, DefaultShadowFar)
	if err != nil {
		return GPUShadowData{}, err
	}
	vp, err := cam.ViewProjectionMatrix()
	if err != nil {
		return GPUShadowData{}, err
	}

	data := GPUShadowData{
		LightVP:   vp,
		TexelSize: mgl32.Vec2{1 / float32(resolution), 1 / float32(resolution)},
		Bias:      DefaultShadowBias,
	}
	data.ComputeNormalBias(DefaultShadowHalfExtent, DefaultShadowNormalBiasScale, resolution)
	return data, nil
}
