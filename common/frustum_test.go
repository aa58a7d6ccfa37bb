package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-4

// testFrustum is a 90 degree square frustum at the origin looking down -Z, near 1, far 10.
func testFrustum() Frustum {
	return FrustumFromMatrix(mgl32.Perspective(mgl32.DegToRad(90), 1, 1, 10))
}

func TestFrustumPlanesAreUnitAndOrdered(t *testing.T) {
	f := testFrustum()
	require.Len(t, f.Planes, 6)
	for i, p := range f.Planes {
		assert.InDelta(t, 1, p.Normal.Len(), tol, "plane %d", i)
	}

	s := float32(1 / math.Sqrt2)
	want := [6]mgl32.Vec3{
		FrustumLeft:   {s, 0, -s},
		FrustumRight:  {-s, 0, -s},
		FrustumTop:    {0, -s, -s},
		FrustumBottom: {0, s, -s},
		FrustumNear:   {0, 0, -1},
		FrustumFar:    {0, 0, 1},
	}
	for i := range want {
		assert.InDeltaSlice(t, want[i][:], f.Planes[i].Normal[:], tol, "plane %d", i)
	}
	assert.InDelta(t, -1, f.Planes[FrustumNear].Constant, tol)
	assert.InDelta(t, 10, f.Planes[FrustumFar].Constant, tol)
}

func TestFrustumFollowsView(t *testing.T) {
	view := mgl32.Translate3D(0, 0, -20)
	f := FrustumFromMatrix(mgl32.Perspective(mgl32.DegToRad(90), 1, 1, 10).Mul4(view))

	// the world moved 20 units away from the camera, so the camera now sees z in [10, 19]
	assert.True(t, f.ContainsPoint(mgl32.Vec3{0, 0, 15}))
	assert.False(t, f.ContainsPoint(mgl32.Vec3{0, 0, -5}))
}

func TestFrustumContainsPoint(t *testing.T) {
	f := testFrustum()
	assert.True(t, f.ContainsPoint(mgl32.Vec3{0, 0, -5}))
	assert.True(t, f.ContainsPoint(mgl32.Vec3{4, 4, -5}))
	assert.False(t, f.ContainsPoint(mgl32.Vec3{0, 0, -0.5}))
	assert.False(t, f.ContainsPoint(mgl32.Vec3{0, 0, -11}))
	assert.False(t, f.ContainsPoint(mgl32.Vec3{6, 0, -5}))
	assert.False(t, f.ContainsPoint(mgl32.Vec3{0, 0, 5}))
}

func TestFrustumSphereBoundary(t *testing.T) {
	f := testFrustum()
	// (6, 0, -5) lies 1/sqrt(2) outside the right plane
	center := mgl32.Vec3{6, 0, -5}
	assert.True(t, f.IntersectsSphere(center, 0.75))
	assert.False(t, f.IntersectsSphere(center, 0.65))

	assert.True(t, f.IntersectsSphereVolume(NewSphere(mgl32.Vec3{0, 0, -5}, 0.1)))
	assert.False(t, f.IntersectsSphereVolume(NewSphere(mgl32.Vec3{0, 0, 5}, 1)))
	assert.True(t, f.IntersectsSphereVolume(NewSphere(mgl32.Vec3{0, 0, 5}, 100)))
}

func TestFrustumBox(t *testing.T) {
	f := testFrustum()
	assert.True(t, f.IntersectsBox(mgl32.Vec3{-1, -1, -6}, mgl32.Vec3{1, 1, -4}))
	assert.True(t, f.IntersectsBox(mgl32.Vec3{5.5, 0, -6}, mgl32.Vec3{7, 1, -5}))
	assert.False(t, f.IntersectsBox(mgl32.Vec3{6.5, 0, -6}, mgl32.Vec3{7, 1, -5}))
	assert.False(t, f.IntersectsBox(mgl32.Vec3{-1, -1, 1}, mgl32.Vec3{1, 1, 2}))
	assert.True(t, f.IntersectsBox(mgl32.Vec3{-100, -100, -100}, mgl32.Vec3{100, 100, 100}))

	assert.True(t, f.IntersectsBox3(NewBox3(mgl32.Vec3{-1, -1, -6}, mgl32.Vec3{1, 1, -4})))
	assert.False(t, f.IntersectsBox3(EmptyBox3()))
}

func TestNewFrustum(t *testing.T) {
	_, err := NewFrustum(make([]Plane, 5))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlaneCount)

	planes := testFrustum().Planes
	f, err := NewFrustum(planes[:])
	require.NoError(t, err)
	assert.Equal(t, planes, f.Planes)
}

func TestPlane(t *testing.T) {
	p := NewPlane(mgl32.Vec3{0, 2, 0}, -4)
	p.Normalize()
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, p.Normal)
	assert.Equal(t, float32(-2), p.Constant)
	assert.Equal(t, float32(3), p.DistanceToPoint(mgl32.Vec3{7, 5, 1}))

	q := PlaneFromNormalAndPoint(mgl32.Vec3{0, 0, -3}, mgl32.Vec3{0, 0, -1})
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, q.Normal)
	assert.Equal(t, float32(0), q.DistanceToPoint(mgl32.Vec3{4, 4, -1}))
	assert.Equal(t, float32(2), q.DistanceToPoint(mgl32.Vec3{0, 0, -3}))

	zero := NewPlane(mgl32.Vec3{}, 5)
	zero.Normalize()
	assert.Equal(t, float32(5), zero.Constant)
}
