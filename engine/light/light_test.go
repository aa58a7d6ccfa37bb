package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/Carmen-Shannon/oxy-scene/engine/object3d"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-4

func TestNewLightDefaults(t *testing.T) {
	l := NewLight(LightTypePoint)
	assert.Equal(t, LightTypePoint, l.Kind())
	assert.Equal(t, TypeLight, l.Type())
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, l.Direction())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.Color())
	assert.Equal(t, float32(1), l.Intensity())
	assert.Equal(t, float32(10), l.Range())
	assert.InDelta(t, 0.9063, l.InnerCone(), 1e-4)
	assert.InDelta(t, 0.8192, l.OuterCone(), 1e-4)
	assert.True(t, l.Enabled())
	assert.False(t, l.Ephemeral())
	assert.False(t, l.CastsShadows())
}

func TestLightOptionsAndSetters(t *testing.T) {
	l := NewLight(LightTypeSpot,
		WithName("lamp"),
		WithPosition(1, 2, 3),
		WithDirection(0, 0, -5),
		WithColor(1, 0.5, 0),
		WithIntensity(3),
		WithRange(20),
		WithSpotCone(10, 20),
		WithEnabled(false),
		WithEphemeral(true),
		WithCastsShadows(true),
		WithObjectOptions(object3d.WithVisible(false)),
	)
	assert.Equal(t, "lamp", l.Name())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, l.Position())
	dir := l.Direction()
	assert.InDeltaSlice(t, []float32{0, 0, -1}, dir[:], 1e-6)
	assert.Equal(t, mgl32.Vec3{1, 0.5, 0}, l.Color())
	assert.Equal(t, float32(3), l.Intensity())
	assert.Equal(t, float32(20), l.Range())
	assert.InDelta(t, math.Cos(10*math.Pi/180), l.InnerCone(), 1e-6)
	assert.InDelta(t, math.Cos(20*math.Pi/180), l.OuterCone(), 1e-6)
	assert.False(t, l.Enabled())
	assert.True(t, l.Ephemeral())
	assert.True(t, l.CastsShadows())
	assert.False(t, l.Visible())

	l.SetDirection(0, 0, 0)
	assert.Equal(t, mgl32.Vec3{}, l.Direction())
	l.SetColor(0, 0, 1)
	l.SetIntensity(0.5)
	l.SetRange(4)
	l.SetSpotCone(0, 90)
	l.SetEnabled(true)
	l.SetEphemeral(false)
	l.SetCastsShadows(false)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, l.Color())
	assert.Equal(t, float32(0.5), l.Intensity())
	assert.Equal(t, float32(4), l.Range())
	assert.InDelta(t, 1, l.InnerCone(), 1e-6)
	assert.InDelta(t, 0, l.OuterCone(), 1e-6)
	assert.True(t, l.Enabled())
	assert.False(t, l.Ephemeral())
	assert.False(t, l.CastsShadows())
}

func TestWorldDirectionFollowsParent(t *testing.T) {
	rig := object3d.NewObject3D(object3d.WithRotationEuler(0, 0, mgl32.DegToRad(90)))
	l := NewLight(LightTypeDirectional)
	require.NoError(t, rig.AddChild(l))
	rig.UpdateWorldMatrix(false, true)

	d := l.WorldDirection()
	assert.InDeltaSlice(t, []float32{1, 0, 0}, d[:], tol)

	l.SetDirection(0, 0, 0)
	assert.Equal(t, mgl32.Vec3{}, l.WorldDirection())
}

func TestRangeSphere(t *testing.T) {
	p := NewLight(LightTypePoint, WithPosition(0, 0, -5), WithRange(2))
	p.UpdateWorldMatrix(false, false)
	s, ok := p.RangeSphere()
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, 0, -5}, s.Center)
	assert.Equal(t, float32(2), s.Radius)

	_, ok = NewLight(LightTypeDirectional).RangeSphere()
	assert.False(t, ok)
}

func TestCullLights(t *testing.T) {
	cam := camera.NewPerspectiveCamera(90, 1, 0.1, 100)
	f, err := cam.Frustum()
	require.NoError(t, err)

	front := NewLight(LightTypePoint, WithName("front"), WithPosition(0, 0, -5), WithRange(2))
	behind := NewLight(LightTypePoint, WithName("behind"), WithPosition(0, 0, 50), WithRange(2))
	reaching := NewLight(LightTypeSpot, WithName("reaching"), WithPosition(0, 0, 5), WithRange(10))
	off := NewLight(LightTypePoint, WithName("off"), WithPosition(0, 0, -5), WithEnabled(false))
	sun := NewLight(LightTypeDirectional, WithName("sun"), WithPosition(0, 0, 500))

	lights := []Light{front, behind, reaching, off, sun}
	for _, l := range lights {
		l.UpdateWorldMatrix(false, false)
	}

	var names []string
	for _, l := range CullLights(lights, &f) {
		names = append(names, l.Name())
	}
	assert.Equal(t, []string{"front", "reaching", "sun"}, names)
	assert.NotNil(t, CullLights(nil, &f))
}

func TestShadowCamera(t *testing.T) {
	sun := NewLight(LightTypeDirectional, WithDirection(0, -1, 0))
	sun.UpdateWorldMatrix(false, false)

	cam, err := NewShadowCamera(sun, mgl32.Vec3{}, 10, 0.1, 200)
	require.NoError(t, err)
	assert.Equal(t, camera.ProjectionOrthographic, cam.Projection().Kind())
	wp := cam.WorldPosition()
	assert.InDeltaSlice(t, []float32{0, 100, 0}, wp[:], tol)

	ndc, err := cam.Project(mgl32.Vec3{})
	require.NoError(t, err)
	assert.InDelta(t, 0, ndc.X(), tol)
	assert.InDelta(t, 0, ndc.Y(), tol)
	assert.Less(t, ndc.Z(), float32(1))
	assert.Greater(t, ndc.Z(), float32(-1))

	// a point on the edge of the shadow volume maps to the edge of clip space
	edge, err := cam.Project(mgl32.Vec3{10, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1, math.Abs(float64(edge.X())+float64(edge.Y())), tol)
}

func TestShadowCameraErrors(t *testing.T) {
	_, err := NewShadowCamera(NewLight(LightTypePoint), mgl32.Vec3{}, 10, 0.1, 100)
	assert.ErrorIs(t, err, ErrNotDirectional)

	dark := NewLight(LightTypeDirectional, WithDirection(0, 0, 0))
	_, err = NewShadowCamera(dark, mgl32.Vec3{}, 10, 0.1, 100)
	assert.ErrorIs(t, err, ErrNoDirection)

	_, err = ComputeShadowData(dark, mgl32.Vec3{}, ShadowMapResolution)
	assert.ErrorIs(t, err, ErrNoDirection)
}

func TestComputeShadowData(t *testing.T) {
	sun := NewLight(LightTypeDirectional, WithDirection(1, -1, 0))
	sun.UpdateWorldMatrix(false, false)

	data, err := ComputeShadowData(sun, mgl32.Vec3{5, 0, 5}, ShadowMapResolution)
	require.NoError(t, err)
	assert.Equal(t, float32(1)/2048, data.TexelSize[0])
	assert.Equal(t, DefaultShadowBias, data.Bias)
	assert.InDelta(t, 2*40.0/2048*3, data.NormalBias, 1e-6)

	// the volume center projects onto the middle of the shadow map
	center := data.LightVP.Mul4x1(mgl32.Vec4{5, 0, 5, 1})
	assert.InDelta(t, 0, center.X(), tol)
	assert.InDelta(t, 0, center.Y(), tol)

	assert.Equal(t, 80, data.Size())
	buf := data.Marshal()
	require.Len(t, buf, 80)
	assert.Equal(t, math.Float32bits(DefaultShadowBias), binary.LittleEndian.Uint32(buf[72:]))
}

func TestMarshalLightBuffer(t *testing.T) {
	lit := NewLight(LightTypePoint, WithPosition(1, 2, 3), WithCastsShadows(true))
	lit.UpdateWorldMatrix(false, false)
	off := NewLight(LightTypePoint, WithEnabled(false))

	buf := MarshalLightBuffer([]Light{off, lit}, mgl32.Vec3{0.1, 0.2, 0.3})
	require.Len(t, buf, 16+64)
	assert.Equal(t, math.Float32bits(0.1), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[12:]))

	body := buf[16:]
	assert.Equal(t, math.Float32bits(1), binary.LittleEndian.Uint32(body[0:]))
	assert.Equal(t, math.Float32bits(3), binary.LittleEndian.Uint32(body[8:]))
	assert.Equal(t, uint32(LightTypePoint), binary.LittleEndian.Uint32(body[12:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(body[56:]))

	g := ToGPULight(lit)
	assert.Equal(t, 64, g.Size())
	assert.Equal(t, body, g.Marshal())

	h := GPULightHeader{}
	assert.Equal(t, 16, h.Size())
}

func TestLightTypeString(t *testing.T) {
	assert.Equal(t, "Directional", LightTypeDirectional.String())
	assert.Equal(t, "Point", LightTypePoint.String())
	assert.Equal(t, "Spot", LightTypeSpot.String())
	assert.Equal(t, "Unknown", LightType(9).String())
}
