package object3d

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/go-gl/mathgl/mgl32"
)

// objectCount is an atomic counter used to hand out unique node IDs.
var objectCount atomic.Uint64

// TypeObject3D is the type tag of a plain node.
const TypeObject3D = "Object3D"

type object3D struct {
	id      uint64
	name    string
	typeTag string
	visible bool

	// outer is the concrete node that embeds this transform. Tree edges and
	// traversal always hand out outer so callers can type-switch on node kinds.
	outer Object3D

	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3

	localMatrix mgl32.Mat4
	worldMatrix mgl32.Mat4
	needsUpdate bool

	parent   Object3D
	children []Object3D
}

// Object3D defines the interface for a node in the scene graph.
// Every node owns a local transform (position, rotation, scale), a list of child
// nodes, and a non-owning reference to its parent. The world matrix is cached and
// only refreshed by UpdateWorldMatrix; reading it after a local mutation without
// a refresh returns the stale value.
//
// Node kinds such as cameras, meshes and lights embed an Object3D built with
// WithEmbedder so they carry the transform capability without inheriting from it.
//
// Object3D is not safe for concurrent mutation; callers serialize access.
type Object3D interface {
	// ID returns the node's unique identifier.
	//
	// Returns:
	//   - uint64: the node ID
	ID() uint64

	// Name returns the node's name.
	//
	// Returns:
	//   - string: the name, empty if unset
	Name() string

	// SetName sets the node's name.
	//
	// Parameters:
	//   - name: the new name
	SetName(name string)

	// Type returns the node's type tag, e.g. "Object3D", "Camera", "Mesh".
	//
	// Returns:
	//   - string: the type tag
	Type() string

	// Visible returns whether the node is visible for rendering.
	//
	// Returns:
	//   - bool: true if visible
	Visible() bool

	// SetVisible sets whether the node is visible for rendering.
	//
	// Parameters:
	//   - visible: true to make the node visible
	SetVisible(visible bool)

	// Position returns the local position.
	//
	// Returns:
	//   - mgl32.Vec3: position in parent space
	Position() mgl32.Vec3

	// SetPosition sets the local position and marks the node stale.
	//
	// Parameters:
	//   - x, y, z: position components in parent space
	SetPosition(x, y, z float32)

	// Translate offsets the local position and marks the node stale.
	//
	// Parameters:
	//   - x, y, z: offset in parent space
	Translate(x, y, z float32)

	// Rotation returns the local rotation quaternion.
	//
	// Returns:
	//   - mgl32.Quat: the rotation
	Rotation() mgl32.Quat

	// SetRotation sets the local rotation and marks the node stale.
	//
	// Parameters:
	//   - q: the rotation (normalized before storing)
	SetRotation(q mgl32.Quat)

	// RotationEuler returns the local rotation as XYZ-ordered Euler angles.
	// Derived from the quaternion, which is the canonical representation.
	//
	// Returns:
	//   - x, y, z: rotation angles in radians
	RotationEuler() (x, y, z float32)

	// SetRotationEuler sets the local rotation from XYZ-ordered Euler angles.
	//
	// Parameters:
	//   - x, y, z: rotation angles in radians
	SetRotationEuler(x, y, z float32)

	// RotateOnAxis applies an additional rotation around a local-space axis.
	//
	// Parameters:
	//   - axis: rotation axis in local space (normalized before use)
	//   - angle: rotation angle in radians
	RotateOnAxis(axis mgl32.Vec3, angle float32)

	// Scale returns the local scale.
	//
	// Returns:
	//   - mgl32.Vec3: per-axis scale factors
	Scale() mgl32.Vec3

	// SetScale sets the local scale and marks the node stale.
	//
	// Parameters:
	//   - x, y, z: per-axis scale factors
	SetScale(x, y, z float32)

	// LocalMatrix returns the cached local matrix (T * R * S).
	//
	// Returns:
	//   - mgl32.Mat4: the local matrix as of the last refresh
	LocalMatrix() mgl32.Mat4

	// WorldMatrix returns the cached world matrix (parentWorld * local).
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix as of the last refresh
	WorldMatrix() mgl32.Mat4

	// WorldPosition returns the translation column of the cached world matrix.
	//
	// Returns:
	//   - mgl32.Vec3: the node's origin in world space
	WorldPosition() mgl32.Vec3

	// NeedsUpdate reports whether the local transform or parent changed since the last refresh.
	//
	// Returns:
	//   - bool: true if the cached matrices are stale
	NeedsUpdate() bool

	// UpdateMatrix recomputes the local matrix from position, rotation and scale
	// without touching the world matrix.
	UpdateMatrix()

	// UpdateWorldMatrix recomputes the local and world matrices. With updateParents
	// the ancestors are refreshed first, root down; with updateChildren every
	// descendant is refreshed after this node.
	//
	// Parameters:
	//   - updateParents: refresh ancestors before this node
	//   - updateChildren: refresh all descendants after this node
	UpdateWorldMatrix(updateParents, updateChildren bool)

	// LookAt rotates the node so its local -Z axis points at target, keeping its position.
	// target is expressed in the parent's space. Does nothing if target equals the position.
	//
	// Parameters:
	//   - target: point to face, in parent space
	LookAt(target mgl32.Vec3)

	// Parent returns the parent node, or nil for a root.
	//
	// Returns:
	//   - Object3D: the parent or nil
	Parent() Object3D

	// Children returns a copy of the child list.
	//
	// Returns:
	//   - []Object3D: the children in insertion order
	Children() []Object3D

	// Root returns the topmost ancestor, or the node itself when detached.
	//
	// Returns:
	//   - Object3D: the root of the node's tree
	Root() Object3D

	// AddChild attaches child to this node. A child attached elsewhere is detached from
	// its old parent first. Adding a current child is a no-op. On error the graph is unchanged.
	//
	// Parameters:
	//   - child: the node to attach
	//
	// Returns:
	//   - error: common.ErrNilNode, common.ErrSelfAttach or common.ErrCycle
	AddChild(child Object3D) error

	// RemoveChild detaches child from this node. Does nothing if child is not a current child.
	//
	// Parameters:
	//   - child: the node to detach
	RemoveChild(child Object3D)

	// RemoveFromParent detaches the node from its parent, if any.
	RemoveFromParent()

	// Traverse visits the node and all descendants depth-first, parents before children.
	//
	// Parameters:
	//   - visitor: called once per node
	Traverse(visitor func(Object3D))

	// TraverseVisible is Traverse restricted to visible nodes; an invisible node hides its subtree.
	//
	// Parameters:
	//   - visitor: called once per visible node
	TraverseVisible(visitor func(Object3D))

	// FindByName returns the first node in pre-order whose name matches, or nil.
	//
	// Parameters:
	//   - name: the name to search for
	//
	// Returns:
	//   - Object3D: the matching node or nil
	FindByName(name string) Object3D

	base() *object3D
}

// Bounded is implemented by renderable node kinds that carry a local-space bounding volume.
// Culling and picking only consider nodes with this capability.
type Bounded interface {
	Object3D

	// BoundingSphere returns the local-space bounding sphere.
	//
	// Returns:
	//   - common.Sphere: the sphere
	//   - bool: false if the node has no sphere
	BoundingSphere() (common.Sphere, bool)

	// BoundingBox returns the local-space axis-aligned bounding box.
	//
	// Returns:
	//   - common.Box3: the box
	//   - bool: false if the node has no box
	BoundingBox() (common.Box3, bool)
}

var _ Object3D = &object3D{}

// NewObject3D creates a detached node with an identity transform.
//
// Parameters:
//   - options: functional options to configure the node
//
// Returns:
//   - Object3D: the newly created node
func NewObject3D(options ...Object3DBuilderOption) Object3D {
	o := &object3D{
		id:          objectCount.Add(1),
		visible:     true,
		rotation:    mgl32.QuatIdent(),
		scale:       mgl32.Vec3{1, 1, 1},
		localMatrix: mgl32.Ident4(),
		worldMatrix: mgl32.Ident4(),
	}
	o.outer = o
	for _, option := range options {
		option(o)
	}
	o.UpdateMatrix()
	return o
}

// WorldBoundingSphere returns b's bounding sphere moved into world space by its cached world matrix.
//
// Parameters:
//   - b: the bounded node
//
// Returns:
//   - common.Sphere: the world-space sphere
//   - bool: false if b has no sphere
func WorldBoundingSphere(b Bounded) (common.Sphere, bool) {
	s, ok := b.BoundingSphere()
	if !ok {
		return common.Sphere{}, false
	}
	return s.ApplyMatrix4(b.WorldMatrix()), true
}

// WorldBoundingBox returns b's bounding box moved into world space by its cached world matrix.
//
// Parameters:
//   - b: the bounded node
//
// Returns:
//   - common.Box3: the world-space box
//   - bool: false if b has no box
func WorldBoundingBox(b Bounded) (common.Box3, bool) {
	box, ok := b.BoundingBox()
	if !ok {
		return common.Box3{}, false
	}
	return box.ApplyMatrix4(b.WorldMatrix()), true
}

func (o *object3D) base() *object3D {
	return o
}

func (o *object3D) ID() uint64 {
	return o.id
}

func (o *object3D) Name() string {
	return o.name
}

func (o *object3D) SetName(name string) {
	o.name = name
}

func (o *object3D) Type() string {
	return common.Coalesce(o.typeTag, TypeObject3D)
}

func (o *object3D) Visible() bool {
	return o.visible
}

func (o *object3D) SetVisible(visible bool) {
	o.visible = visible
}

func (o *object3D) Position() mgl32.Vec3 {
	return o.position
}

func (o *object3D) SetPosition(x, y, z float32) {
	o.position = mgl32.Vec3{x, y, z}
	o.needsUpdate = true
}

func (o *object3D) Translate(x, y, z float32) {
	o.position = o.position.Add(mgl32.Vec3{x, y, z})
	o.needsUpdate = true
}

func (o *object3D) Rotation() mgl32.Quat {
	return o.rotation
}

func (o *object3D) SetRotation(q mgl32.Quat) {
	o.rotation = q.Normalize()
	o.needsUpdate = true
}

func (o *object3D) RotationEuler() (x, y, z float32) {
	return common.QuatToEuler(o.rotation)
}

func (o *object3D) SetRotationEuler(x, y, z float32) {
	o.SetRotation(common.EulerToQuat(x, y, z))
}

func (o *object3D) RotateOnAxis(axis mgl32.Vec3, angle float32) {
	o.SetRotation(o.rotation.Mul(mgl32.QuatRotate(angle, axis.Normalize())))
}

func (o *object3D) Scale() mgl32.Vec3 {
	return o.scale
}

func (o *object3D) SetScale(x, y, z float32) {
	o.scale = mgl32.Vec3{x, y, z}
	o.needsUpdate = true
}

func (o *object3D) LocalMatrix() mgl32.Mat4 {
	return o.localMatrix
}

func (o *object3D) WorldMatrix() mgl32.Mat4 {
	return o.worldMatrix
}

func (o *object3D) WorldPosition() mgl32.Vec3 {
	return o.worldMatrix.Col(3).Vec3()
}

func (o *object3D) NeedsUpdate() bool {
	return o.needsUpdate
}

func (o *object3D) UpdateMatrix() {
	o.localMatrix = common.ComposeMatrix(o.position, o.rotation, o.scale)
}

func (o *object3D) UpdateWorldMatrix(updateParents, updateChildren bool) {
	if updateParents && o.parent != nil {
		o.parent.base().UpdateWorldMatrix(true, false)
	}

	o.UpdateMatrix()
	if o.parent == nil {
		o.worldMatrix = o.localMatrix
	} else {
		o.worldMatrix = o.parent.base().worldMatrix.Mul4(o.localMatrix)
	}
	o.needsUpdate = false

	if updateChildren {
		for _, child := range o.children {
			child.base().UpdateWorldMatrix(false, true)
		}
	}
}

func (o *object3D) LookAt(target mgl32.Vec3) {
	q, ok := common.LookRotation(o.position, target, common.AxisY)
	if !ok {
		return
	}
	o.SetRotation(q)
}

func (o *object3D) Parent() Object3D {
	return o.parent
}

func (o *object3D) Children() []Object3D {
	return slices.Clone(o.children)
}

func (o *object3D) Root() Object3D {
	root := o.outer
	for p := o.parent; p != nil; p = p.base().parent {
		root = p
	}
	return root
}

func (o *object3D) AddChild(child Object3D) error {
	if child == nil {
		return common.ErrNilNode
	}
	c := child.base()
	if c == nil {
		return common.ErrNilNode
	}
	if c == o {
		return fmt.Errorf("add child %d: %w", o.id, common.ErrSelfAttach)
	}
	for p := o.parent; p != nil; p = p.base().parent {
		if p.base() == c {
			return fmt.Errorf("add child %d to %d: %w", c.id, o.id, common.ErrCycle)
		}
	}

	if c.parent != nil {
		if c.parent.base() == o {
			return nil
		}
		c.parent.base().RemoveChild(c.outer)
	}

	c.parent = o.outer
	c.needsUpdate = true
	o.children = append(o.children, c.outer)
	common.Logger().Debug("object3d: child attached", "parent", o.id, "child", c.id)
	return nil
}

func (o *object3D) RemoveChild(child Object3D) {
	if child == nil {
		return
	}
	c := child.base()
	idx := slices.IndexFunc(o.children, func(n Object3D) bool { return n.base() == c })
	if idx < 0 {
		return
	}
	o.children = slices.Delete(o.children, idx, idx+1)
	c.parent = nil
	c.needsUpdate = true
	common.Logger().Debug("object3d: child detached", "parent", o.id, "child", c.id)
}

func (o *object3D) RemoveFromParent() {
	if o.parent != nil {
		o.parent.base().RemoveChild(o.outer)
	}
}

func (o *object3D) Traverse(visitor func(Object3D)) {
	visitor(o.outer)
	for _, child := range o.children {
		child.base().Traverse(visitor)
	}
}

func (o *object3D) TraverseVisible(visitor func(Object3D)) {
	if !o.visible {
		return
	}
	visitor(o.outer)
	for _, child := range o.children {
		child.base().TraverseVisible(visitor)
	}
}

func (o *object3D) FindByName(name string) Object3D {
	if o.name == name {
		return o.outer
	}
	for _, child := range o.children {
		if found := child.base().FindByName(name); found != nil {
			return found
		}
	}
	return nil
}
