package light

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxGPULights is the maximum number of lights marshaled into a light buffer.
// The scene's light list is unbounded; this caps only what a renderer evaluates.
const MaxGPULights = 1024

// GPULight is the GPU-aligned representation of a single light source in world space.
// Size: 64 bytes (std430 / WGSL aligned).
type GPULight struct {
	Position     mgl32.Vec3 // offset  0: world-space position (point/spot) or unused (directional)
	LightType    uint32     // offset 12: 0 = directional, 1 = point, 2 = spot
	Color        mgl32.Vec3 // offset 16: RGB color
	Intensity    float32    // offset 28: scalar multiplier
	Direction    mgl32.Vec3 // offset 32: normalized world direction (directional/spot) or unused (point)
	LightRange   float32    // offset 44: attenuation cutoff distance
	InnerCone    float32    // offset 48: cos(inner half-angle) for spot
	OuterCone    float32    // offset 52: cos(outer half-angle) for spot
	CastsShadows uint32     // offset 56: 1 = casts shadows, 0 = does not
	_pad         uint32     // offset 60: padding to 64-byte alignment
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a little-endian byte buffer.
//
// Returns:
//   - []byte: 64-byte buffer
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, 64)
	putVec3(buf[0:12], g.Position)
	binary.LittleEndian.PutUint32(buf[12:16], g.LightType)
	putVec3(buf[16:28], g.Color)
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Intensity))
	putVec3(buf[32:44], g.Direction)
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(g.LightRange))
	binary.LittleEndian.PutUint32(buf[48:52], math.Float32bits(g.InnerCone))
	binary.LittleEndian.PutUint32(buf[52:56], math.Float32bits(g.OuterCone))
	binary.LittleEndian.PutUint32(buf[56:60], g.CastsShadows)
	binary.LittleEndian.PutUint32(buf[60:64], 0) // padding
	return buf
}

// GPULightHeader is the header prepended to a light buffer.
// Size: 16 bytes (vec3 + u32, std430 aligned).
type GPULightHeader struct {
	AmbientColor mgl32.Vec3 // offset 0: scene ambient RGB
	LightCount   uint32     // offset 12: number of lights following the header
}

// Size returns the size of the GPULightHeader struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (h *GPULightHeader) Size() int {
	return int(unsafe.Sizeof(*h))
}

// Marshal serializes the GPULightHeader struct into a little-endian byte buffer.
//
// Returns:
//   - []byte: 16-byte buffer
func (h *GPULightHeader) Marshal() []byte {
	buf := make([]byte, 16)
	putVec3(buf[0:12], h.AmbientColor)
	binary.LittleEndian.PutUint32(buf[12:16], h.LightCount)
	return buf
}

// GPUShadowData is the GPU-aligned representation of directional shadow data.
// Size: 80 bytes (std430 / WGSL aligned).
//
// Layout:
//
//	mat4x4<f32> light_vp       (64 bytes, offset 0)
//	vec2<f32>   texel_size     ( 8 bytes, offset 64)
//	f32         bias           ( 4 bytes, offset 72)
//	f32         normal_bias    ( 4 bytes, offset 76)
type GPUShadowData struct {
	LightVP    mgl32.Mat4 // orthographic view-projection from the light's point of view
	TexelSize  mgl32.Vec2 // 1 / shadow map resolution
	Bias       float32    // depth comparison bias
	NormalBias float32    // world-space normal-offset distance
}

// Size returns the size of the GPUShadowData struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (s *GPUShadowData) Size() int {
	return int(unsafe.Sizeof(*s))
}

// ComputeNormalBias derives the world-space normal-offset bias from the shadow map parameters:
// the world size of one texel times scale.
//
// Parameters:
//   - halfExtent: orthographic half-size in world units
//   - scale: multiplier on the texel world size (typically 2.0–4.0)
//   - resolution: shadow map resolution in texels
func (s *GPUShadowData) ComputeNormalBias(halfExtent, scale float32, resolution int) {
	texelWorldSize := 2.0 * halfExtent / float32(resolution)
	s.NormalBias = texelWorldSize * scale
}

// Marshal serializes the GPUShadowData struct into a little-endian byte buffer.
//
// Returns:
//   - []byte: 80-byte buffer
func (s *GPUShadowData) Marshal() []byte {
	buf := make([]byte, 80)
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(s.LightVP[i]))
	}
	binary.LittleEndian.PutUint32(buf[64:68], math.Float32bits(s.TexelSize[0]))
	binary.LittleEndian.PutUint32(buf[68:72], math.Float32bits(s.TexelSize[1]))
	binary.LittleEndian.PutUint32(buf[72:76], math.Float32bits(s.Bias))
	binary.LittleEndian.PutUint32(buf[76:80], math.Float32bits(s.NormalBias))
	return buf
}

// ToGPULight converts a light node into its world-space GPU representation.
// The light's world matrix must be current.
//
// Parameters:
//   - l: the light to convert
//
// Returns:
//   - GPULight: the GPU-aligned representation
func ToGPULight(l Light) GPULight {
	shadowVal := uint32(0)
	if l.CastsShadows() {
		shadowVal = 1
	}
	return GPULight{
		Position:     l.WorldPosition(),
		LightType:    uint32(l.Kind()),
		Color:        l.Color(),
		Intensity:    l.Intensity(),
		Direction:    l.WorldDirection(),
		LightRange:   l.Range(),
		InnerCone:    l.InnerCone(),
		OuterCone:    l.OuterCone(),
		CastsShadows: shadowVal,
	}
}

// MarshalLightBuffer packs enabled lights into a byte buffer laid out as
//
//	[GPULightHeader (16 bytes)] [GPULight × count (64 bytes each)]
//
// At most MaxGPULights lights are written; callers pre-sort by priority if truncation
// is expected.
//
// Parameters:
//   - lights: the lights to pack (disabled lights are skipped)
//   - ambient: the scene ambient color as RGB
//
// Returns:
//   - []byte: the packed buffer
func MarshalLightBuffer(lights []Light, ambient mgl32.Vec3) []byte {
	enabled := make([]Light, 0, min(len(lights), MaxGPULights))
	for _, l := range lights {
		if len(enabled) == MaxGPULights {
			break
		}
		if l.Enabled() {
			enabled = append(enabled, l)
		}
	}

	header := GPULightHeader{AmbientColor: ambient, LightCount: uint32(len(enabled))}
	headerSize := header.Size()
	lightSize := (&GPULight{}).Size()

	buf := make([]byte, headerSize+len(enabled)*lightSize)
	copy(buf, header.Marshal())
	for i, l := range enabled {
		gpu := ToGPULight(l)
		offset := headerSize + i*lightSize
		copy(buf[offset:offset+lightSize], gpu.Marshal())
	}
	return buf
}

func putVec3(buf []byte, v mgl32.Vec3) {
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v[i]))
	}
}
