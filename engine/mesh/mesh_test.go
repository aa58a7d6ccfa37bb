package mesh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/engine/object3d"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cube(half float32) []mgl32.Vec3 {
	var pts []mgl32.Vec3
	for _, x := range []float32{-half, half} {
		for _, y := range []float32{-half, half} {
			for _, z := range []float32{-half, half} {
				pts = append(pts, mgl32.Vec3{x, y, z})
			}
		}
	}
	return pts
}

func TestGeometryBounds(t *testing.T) {
	geo := NewGeometry(WithPositions(
		mgl32.Vec3{1, 0, 0},
		mgl32.Vec3{3, 2, 0},
		mgl32.Vec3{2, 1, 4},
	), WithIndices(0, 1, 2))

	box := geo.BoundingBox()
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, box.Min)
	assert.Equal(t, mgl32.Vec3{3, 2, 4}, box.Max)

	s := geo.BoundingSphere()
	assert.Equal(t, mgl32.Vec3{2, 1, 2}, s.Center)
	assert.InDelta(t, math.Sqrt(6), s.Radius, 1e-6)
	assert.Equal(t, []uint32{0, 1, 2}, geo.Indices())
}

func TestGeometryRadiusOverride(t *testing.T) {
	geo := NewGeometry(WithPositions(cube(1)...), WithBoundingRadius(10))
	assert.Equal(t, float32(10), geo.BoundingSphere().Radius)

	geo.SetPositions(cube(2))
	assert.Equal(t, float32(10), geo.BoundingSphere().Radius)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, geo.BoundingBox().Max)
}

func TestEmptyGeometry(t *testing.T) {
	geo := NewGeometry()
	assert.True(t, geo.BoundingBox().IsEmpty())
	assert.True(t, geo.BoundingSphere().IsEmpty())

	m := NewMesh(WithGeometry(geo))
	_, ok := m.BoundingSphere()
	assert.False(t, ok)
	_, ok = m.BoundingBox()
	assert.False(t, ok)
}

func TestComputeBoundingRadius(t *testing.T) {
	assert.Equal(t, float32(0), ComputeBoundingRadius(nil))
	assert.InDelta(t, math.Sqrt(3), ComputeBoundingRadius(cube(1)), 1e-6)
	assert.Equal(t, float32(5), ComputeBoundingRadius([]mgl32.Vec3{{3, 4, 0}, {1, 0, 0}}))
}

func TestMeshIsBoundedNode(t *testing.T) {
	m := NewMesh(
		WithGeometry(NewGeometry(WithPositions(cube(1)...))),
		WithObjectOptions(object3d.WithName("crate"), object3d.WithPosition(0, 0, -5)),
	)
	assert.Equal(t, TypeMesh, m.Type())
	assert.Equal(t, "crate", m.Name())
	assert.True(t, m.FrustumCulled())

	var b object3d.Bounded = m
	s, ok := b.BoundingSphere()
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt(3), s.Radius, 1e-6)

	root := object3d.NewObject3D()
	require.NoError(t, root.AddChild(m))
	root.UpdateWorldMatrix(false, true)

	found, ok := root.FindByName("crate").(Mesh)
	require.True(t, ok)
	ws, ok := object3d.WorldBoundingSphere(found.(object3d.Bounded))
	require.True(t, ok)
	assert.InDeltaSlice(t, []float32{0, 0, -5}, ws.Center[:], 1e-6)

	wb, ok := object3d.WorldBoundingBox(m)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float32{-1, -1, -6}, wb.Min[:], 1e-6)
	assert.InDeltaSlice(t, []float32{1, 1, -4}, wb.Max[:], 1e-6)
}

func TestMeshWithoutGeometry(t *testing.T) {
	m := NewMesh(WithFrustumCulled(false))
	assert.Nil(t, m.Geometry())
	assert.False(t, m.FrustumCulled())
	_, ok := m.BoundingSphere()
	assert.False(t, ok)

	m.SetGeometry(NewGeometry(WithPositions(cube(1)...)))
	_, ok = m.BoundingSphere()
	assert.True(t, ok)

	m.SetFrustumCulled(true)
	assert.True(t, m.FrustumCulled())
}

func TestInstanceData(t *testing.T) {
	m := NewMesh(WithObjectOptions(object3d.WithPosition(1, 2, 3)))
	m.UpdateWorldMatrix(false, false)

	data := m.InstanceData()
	assert.Equal(t, 64, data.Size())
	buf := data.Marshal()
	require.Len(t, buf, 64)
	assert.Equal(t, math.Float32bits(1), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, math.Float32bits(1), binary.LittleEndian.Uint32(buf[48:]))
	assert.Equal(t, math.Float32bits(2), binary.LittleEndian.Uint32(buf[52:]))
	assert.Equal(t, math.Float32bits(3), binary.LittleEndian.Uint32(buf[56:]))
}
