package light

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/object3d"
	"github.com/go-gl/mathgl/mgl32"
)

// TypeLight is the node type tag reported by light nodes.
const TypeLight = "Light"

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional is a light with no falloff, only a direction, like the sun.
	LightTypeDirectional LightType = iota

	// LightTypePoint emits in all directions from the node's origin and fades out at its range.
	LightTypePoint

	// LightTypeSpot emits in a cone along the node's direction, fading with distance
	// and with the angle from the cone axis.
	LightTypeSpot
)

// String returns the name of the light type.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "Directional"
	case LightTypePoint:
		return "Point"
	case LightTypeSpot:
		return "Spot"
	default:
		return "Unknown"
	}
}

type lightImpl struct {
	object3d.Object3D

	lightType    LightType
	direction    mgl32.Vec3 // local space
	color        mgl32.Vec3
	intensity    float32
	lightRange   float32
	innerCone    float32 // stored as cos(angle in radians)
	outerCone    float32 // stored as cos(angle in radians)
	enabled      bool
	ephemeral    bool
	castsShadows bool

	objectOptions []object3d.Object3DBuilderOption
}

// Light is a scene graph node that illuminates the scene. Its position and direction
// follow the node's world matrix, so a lamp parented to a moving object moves with it.
// Type-specific properties (cone angles for spot lights, range for point and spot lights)
// are carried by every light and ignored where they do not apply.
type Light interface {
	object3d.Object3D

	// Kind returns the kind of light source.
	//
	// Returns:
	//   - LightType: directional, point, or spot
	Kind() LightType

	// Direction returns the normalized light direction in the node's local space.
	//
	// Returns:
	//   - mgl32.Vec3: the local direction
	Direction() mgl32.Vec3

	// WorldDirection returns the light direction rotated into world space by the cached world matrix.
	//
	// Returns:
	//   - mgl32.Vec3: the normalized world direction, zero if the direction is degenerate
	WorldDirection() mgl32.Vec3

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Color() mgl32.Vec3

	// Intensity returns the scalar intensity multiplier.
	//
	// Returns:
	//   - float32: the intensity
	Intensity() float32

	// Range returns the distance beyond which point and spot lights contribute nothing.
	//
	// Returns:
	//   - float32: the range
	Range() float32

	// InnerCone returns the cosine of the spot cone's inner half-angle.
	//
	// Returns:
	//   - float32: cos(inner half-angle)
	InnerCone() float32

	// OuterCone returns the cosine of the spot cone's outer half-angle.
	//
	// Returns:
	//   - float32: cos(outer half-angle)
	OuterCone() float32

	// Enabled reports whether the light takes part in rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Ephemeral reports whether the light is short-lived and owned by a particle emitter.
	//
	// Returns:
	//   - bool: true if ephemeral
	Ephemeral() bool

	// CastsShadows reports whether the light is eligible for shadow map generation.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// RangeSphere returns the world-space sphere a point or spot light can reach.
	//
	// Returns:
	//   - common.Sphere: the sphere centered on the light's world position
	//   - bool: false for directional lights, which reach everywhere
	RangeSphere() (common.Sphere, bool)

	// SetDirection sets the local light direction, normalizing it.
	//
	// Parameters:
	//   - x, y, z: direction components
	SetDirection(x, y, z float32)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity
	SetIntensity(intensity float32)

	// SetRange sets the reach of point and spot lights.
	//
	// Parameters:
	//   - lightRange: the range
	SetRange(lightRange float32)

	// SetSpotCone sets the cone half-angles of a spot light.
	//
	// Parameters:
	//   - innerDeg: inner half-angle in degrees
	//   - outerDeg: outer half-angle in degrees
	SetSpotCone(innerDeg, outerDeg float32)

	// SetEnabled enables or disables the light.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetEphemeral marks the light as owned by a particle emitter.
	//
	// Parameters:
	//   - ephemeral: true if ephemeral
	SetEphemeral(ephemeral bool)

	// SetCastsShadows sets whether the light is eligible for shadow mapping.
	//
	// Parameters:
	//   - castsShadows: true to cast shadows
	SetCastsShadows(castsShadows bool)
}

var _ Light = &lightImpl{}

// NewLight creates a detached light node of the given kind.
//
// Parameters:
//   - lightType: directional, point, or spot
//   - opts: functional options to configure the light
//
// Returns:
//   - Light: the newly created light
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:  lightType,
		direction:  mgl32.Vec3{0, -1, 0},
		color:      mgl32.Vec3{1, 1, 1},
		intensity:  1.0,
		lightRange: 10.0,
		innerCone:  0.9063, // cos(25°)
		outerCone:  0.8192, // cos(35°)
		enabled:    true,
	}
	for _, opt := range opts {
		opt(l)
	}
	nodeOptions := append([]object3d.Object3DBuilderOption{
		object3d.WithEmbedder(l),
		object3d.WithType(TypeLight),
	}, l.objectOptions...)
	l.Object3D = object3d.NewObject3D(nodeOptions...)
	l.objectOptions = nil
	return l
}

func (l *lightImpl) Kind() LightType {
	return l.lightType
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.direction
}

func (l *lightImpl) WorldDirection() mgl32.Vec3 {
	d := common.TransformDirection(l.WorldMatrix(), l.direction)
	if d.LenSqr() == 0 {
		return mgl32.Vec3{}
	}
	return d.Normalize()
}

func (l *lightImpl) Color() mgl32.Vec3 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) InnerCone() float32 {
	return l.innerCone
}

func (l *lightImpl) OuterCone() float32 {
	return l.outerCone
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) Ephemeral() bool {
	return l.ephemeral
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) RangeSphere() (common.Sphere, bool) {
	if l.lightType == LightTypeDirectional {
		return common.Sphere{}, false
	}
	return common.NewSphere(l.WorldPosition(), l.lightRange), true
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.direction = normalize3(x, y, z)
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = mgl32.Vec3{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetRange(lightRange float32) {
	l.lightRange = lightRange
}

func (l *lightImpl) SetSpotCone(innerDeg, outerDeg float32) {
	l.innerCone = cosDeg(innerDeg)
	l.outerCone = cosDeg(outerDeg)
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) SetEphemeral(ephemeral bool) {
	l.ephemeral = ephemeral
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.castsShadows = castsShadows
}
