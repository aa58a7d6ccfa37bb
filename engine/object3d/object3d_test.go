package object3d

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

type marker struct {
	Object3D
	tag string
}

func newMarker(tag string) *marker {
	m := &marker{tag: tag}
	m.Object3D = NewObject3D(WithEmbedder(m), WithType("Marker"), WithName(tag))
	return m
}

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], tol)
}

func assertMat4(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], tol)
}

func TestNewObject3DDefaults(t *testing.T) {
	o := NewObject3D()
	assert.Equal(t, TypeObject3D, o.Type())
	assert.True(t, o.Visible())
	assert.Nil(t, o.Parent())
	assert.Empty(t, o.Children())
	assertMat4(t, mgl32.Ident4(), o.LocalMatrix())
	assertMat4(t, mgl32.Ident4(), o.WorldMatrix())
	assert.Equal(t, o, o.Root())

	other := NewObject3D()
	assert.NotEqual(t, o.ID(), other.ID())
}

func TestBuilderOptions(t *testing.T) {
	child := NewObject3D(WithName("child"))
	o := NewObject3D(
		WithName("node"),
		WithType("Custom"),
		WithVisible(false),
		WithPosition(1, 2, 3),
		WithScale(2, 2, 2),
		WithChildren(child, nil),
	)
	assert.Equal(t, "node", o.Name())
	assert.Equal(t, "Custom", o.Type())
	assert.False(t, o.Visible())
	assertVec3(t, mgl32.Vec3{1, 2, 3}, o.Position())
	require.Len(t, o.Children(), 1)
	assert.Equal(t, o, child.Parent())

	// constructor options produce the local matrix immediately
	want := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 2, 2))
	assertMat4(t, want, o.LocalMatrix())
}

func TestWithChildrenLogsRejectedChild(t *testing.T) {
	prev := common.Logger()
	t.Cleanup(func() { common.SetLogger(prev) })
	var buf bytes.Buffer
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	var missing *object3D
	child := NewObject3D(WithName("child"))
	o := NewObject3D(WithChildren(missing, child))

	require.Len(t, o.Children(), 1)
	assert.Equal(t, child, o.Children()[0])
	assert.Contains(t, buf.String(), "object3d: could not attach child")
	assert.Contains(t, buf.String(), common.ErrNilNode.Error())
}

func TestWorldMatrixIsProductOfAncestorLocals(t *testing.T) {
	root := NewObject3D(WithPosition(1, 0, 0), WithRotationEuler(0, mgl32.DegToRad(90), 0))
	mid := NewObject3D(WithPosition(0, 2, 0), WithScale(2, 2, 2))
	leaf := NewObject3D(WithPosition(0, 0, -3))
	require.NoError(t, root.AddChild(mid))
	require.NoError(t, mid.AddChild(leaf))

	root.UpdateWorldMatrix(false, true)

	want := root.LocalMatrix().Mul4(mid.LocalMatrix()).Mul4(leaf.LocalMatrix())
	assertMat4(t, want, leaf.WorldMatrix())
	assertMat4(t, root.WorldMatrix().Mul4(mid.LocalMatrix()), mid.WorldMatrix())

	// (0,0,-3) scaled by 2 -> (0,0,-6), lifted by 2, rotated 90 deg about Y, shifted by 1 on X
	assertVec3(t, mgl32.Vec3{-5, 2, 0}, leaf.WorldPosition())
}

func TestUpdateWorldMatrixIsIdempotent(t *testing.T) {
	root := NewObject3D(WithPosition(0, 1, 0))
	child := NewObject3D(WithRotationEuler(0.2, 0.4, 0.6), WithPosition(3, 0, 0))
	require.NoError(t, root.AddChild(child))

	root.UpdateWorldMatrix(false, true)
	first := child.WorldMatrix()
	root.UpdateWorldMatrix(false, true)
	assert.Equal(t, first, child.WorldMatrix())
	assert.False(t, child.NeedsUpdate())
}

func TestWorldMatrixIsStaleUntilRefresh(t *testing.T) {
	o := NewObject3D()
	o.UpdateWorldMatrix(false, false)
	o.SetPosition(5, 0, 0)

	assert.True(t, o.NeedsUpdate())
	assertVec3(t, mgl32.Vec3{}, o.WorldPosition())

	o.UpdateWorldMatrix(false, false)
	assertVec3(t, mgl32.Vec3{5, 0, 0}, o.WorldPosition())
}

func TestUpdateWorldMatrixWithParents(t *testing.T) {
	root := NewObject3D()
	child := NewObject3D(WithPosition(0, 0, 1))
	require.NoError(t, root.AddChild(child))

	root.SetPosition(4, 0, 0)
	child.UpdateWorldMatrix(true, false)
	assertVec3(t, mgl32.Vec3{4, 0, 1}, child.WorldPosition())
}

func TestAddChildRejectsInvalidAttachments(t *testing.T) {
	a := NewObject3D(WithName("a"))
	b := NewObject3D(WithName("b"))
	c := NewObject3D(WithName("c"))
	require.NoError(t, a.AddChild(b))
	require.NoError(t, b.AddChild(c))

	assert.ErrorIs(t, a.AddChild(nil), common.ErrNilNode)
	assert.ErrorIs(t, a.AddChild(a), common.ErrSelfAttach)
	assert.ErrorIs(t, c.AddChild(a), common.ErrCycle)
	assert.ErrorIs(t, b.AddChild(a), common.ErrCycle)

	assert.Nil(t, a.Parent())
	assert.Empty(t, c.Children())
	require.Len(t, a.Children(), 1)
	require.Len(t, b.Children(), 1)
	assert.Equal(t, a, b.Parent())
	assert.Equal(t, b, c.Parent())
}

func TestAddChildReparents(t *testing.T) {
	p1 := NewObject3D()
	p2 := NewObject3D(WithPosition(10, 0, 0))
	child := NewObject3D()
	require.NoError(t, p1.AddChild(child))
	require.NoError(t, p2.AddChild(child))

	assert.Empty(t, p1.Children())
	require.Len(t, p2.Children(), 1)
	assert.Equal(t, p2, child.Parent())
	assert.True(t, child.NeedsUpdate())

	p2.UpdateWorldMatrix(false, true)
	assertVec3(t, mgl32.Vec3{10, 0, 0}, child.WorldPosition())
}

func TestAddChildTwiceIsNoop(t *testing.T) {
	p := NewObject3D()
	child := NewObject3D()
	require.NoError(t, p.AddChild(child))
	require.NoError(t, p.AddChild(child))
	assert.Len(t, p.Children(), 1)
}

func TestRemoveChild(t *testing.T) {
	p := NewObject3D()
	a := NewObject3D()
	b := NewObject3D()
	stranger := NewObject3D()
	require.NoError(t, p.AddChild(a))
	require.NoError(t, p.AddChild(b))

	p.RemoveChild(stranger)
	p.RemoveChild(nil)
	assert.Len(t, p.Children(), 2)

	p.RemoveChild(a)
	assert.Equal(t, []Object3D{b}, p.Children())
	assert.Nil(t, a.Parent())

	b.RemoveFromParent()
	assert.Empty(t, p.Children())
	assert.Nil(t, b.Parent())
}

func TestChildrenReturnsCopy(t *testing.T) {
	p := NewObject3D()
	require.NoError(t, p.AddChild(NewObject3D()))
	children := p.Children()
	children[0] = nil
	assert.NotNil(t, p.Children()[0])
}

func TestTraversePreOrder(t *testing.T) {
	root := NewObject3D(WithName("root"))
	a := NewObject3D(WithName("a"))
	a1 := NewObject3D(WithName("a1"))
	b := NewObject3D(WithName("b"))
	require.NoError(t, root.AddChild(a))
	require.NoError(t, a.AddChild(a1))
	require.NoError(t, root.AddChild(b))

	var names []string
	root.Traverse(func(o Object3D) { names = append(names, o.Name()) })
	assert.Equal(t, []string{"root", "a", "a1", "b"}, names)

	a.SetVisible(false)
	names = names[:0]
	root.TraverseVisible(func(o Object3D) { names = append(names, o.Name()) })
	assert.Equal(t, []string{"root", "b"}, names)
}

func TestFindByName(t *testing.T) {
	root := NewObject3D(WithName("root"))
	first := NewObject3D(WithName("dup"))
	second := NewObject3D(WithName("dup"))
	require.NoError(t, root.AddChild(first))
	require.NoError(t, root.AddChild(second))

	assert.Equal(t, first, root.FindByName("dup"))
	assert.Nil(t, root.FindByName("missing"))
}

func TestEmbeddedNodesComeBackAsThemselves(t *testing.T) {
	root := NewObject3D()
	m := newMarker("m")
	leaf := newMarker("leaf")
	require.NoError(t, root.AddChild(m))
	require.NoError(t, m.AddChild(leaf))

	got, ok := root.Children()[0].(*marker)
	require.True(t, ok)
	assert.Equal(t, "m", got.tag)
	assert.Equal(t, "Marker", got.Type())

	parent, ok := leaf.Parent().(*marker)
	require.True(t, ok)
	assert.Same(t, m, parent)
	assert.Same(t, leaf, root.FindByName("leaf"))

	var tags []string
	root.Traverse(func(o Object3D) {
		if mk, ok := o.(*marker); ok {
			tags = append(tags, mk.tag)
		}
	})
	assert.Equal(t, []string{"m", "leaf"}, tags)

	m.RemoveChild(leaf)
	assert.Empty(t, m.Children())
}

func TestLookAtPointsNegativeZ(t *testing.T) {
	o := NewObject3D(WithPosition(0, 0, 0))
	o.LookAt(mgl32.Vec3{5, 0, 0})
	forward := o.Rotation().Rotate(mgl32.Vec3{0, 0, -1})
	assertVec3(t, mgl32.Vec3{1, 0, 0}, forward)

	o.SetPosition(0, 0, 10)
	o.LookAt(mgl32.Vec3{0, 0, 0})
	forward = o.Rotation().Rotate(mgl32.Vec3{0, 0, -1})
	assertVec3(t, mgl32.Vec3{0, 0, -1}, forward)

	// straight down, parallel to the up hint
	o.SetPosition(0, 10, 0)
	o.LookAt(mgl32.Vec3{0, 0, 0})
	forward = o.Rotation().Rotate(mgl32.Vec3{0, 0, -1})
	assertVec3(t, mgl32.Vec3{0, -1, 0}, forward)

	before := o.Rotation()
	o.LookAt(o.Position())
	assert.Equal(t, before, o.Rotation())
}

func TestEulerRoundTrip(t *testing.T) {
	o := NewObject3D()
	o.SetRotationEuler(0.3, -0.4, 0.5)
	x, y, z := o.RotationEuler()
	assert.InDelta(t, 0.3, x, tol)
	assert.InDelta(t, -0.4, y, tol)
	assert.InDelta(t, 0.5, z, tol)
}

func TestRotateOnAxis(t *testing.T) {
	o := NewObject3D()
	o.RotateOnAxis(mgl32.Vec3{0, 2, 0}, mgl32.DegToRad(90))
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, o.Rotation().Rotate(mgl32.Vec3{0, 0, -1}))
}

func TestTranslate(t *testing.T) {
	o := NewObject3D(WithPosition(1, 1, 1))
	o.Translate(1, -1, 2)
	assertVec3(t, mgl32.Vec3{2, 0, 3}, o.Position())
	assert.True(t, o.NeedsUpdate())
}

type boundedMarker struct {
	Object3D
	sphere common.Sphere
}

func (b *boundedMarker) BoundingSphere() (common.Sphere, bool) { return b.sphere, true }
func (b *boundedMarker) BoundingBox() (common.Box3, bool)      { return common.Box3{}, false }

func TestWorldBoundingSphere(t *testing.T) {
	b := &boundedMarker{sphere: common.NewSphere(mgl32.Vec3{}, 1)}
	b.Object3D = NewObject3D(WithEmbedder(b), WithPosition(0, 0, -5), WithScale(1, 3, 1))
	b.UpdateWorldMatrix(false, false)

	s, ok := WorldBoundingSphere(b)
	require.True(t, ok)
	assertVec3(t, mgl32.Vec3{0, 0, -5}, s.Center)
	assert.InDelta(t, 3, s.Radius, tol)

	_, ok = WorldBoundingBox(b)
	assert.False(t, ok)
}

func TestCycleErrorWraps(t *testing.T) {
	a := NewObject3D()
	b := NewObject3D()
	require.NoError(t, a.AddChild(b))
	err := b.AddChild(a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrCycle))
}
