package mesh

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/object3d"
)

// TypeMesh is the type tag reported by mesh nodes.
const TypeMesh = "Mesh"

type mesh struct {
	object3d.Object3D

	geometry      Geometry
	frustumCulled bool

	objectOptions []object3d.Object3DBuilderOption
}

// Mesh is a renderable scene graph node. Its bounding volumes come from its geometry
// and are what culling and picking test against.
type Mesh interface {
	object3d.Object3D

	// Geometry returns the mesh geometry, or nil if none is set.
	//
	// Returns:
	//   - Geometry: the geometry or nil
	Geometry() Geometry

	// SetGeometry replaces the mesh geometry.
	//
	// Parameters:
	//   - geo: the new geometry, nil to clear
	SetGeometry(geo Geometry)

	// FrustumCulled reports whether culling may drop this mesh.
	//
	// Returns:
	//   - bool: false if the mesh is always treated as visible
	FrustumCulled() bool

	// SetFrustumCulled sets whether culling may drop this mesh.
	//
	// Parameters:
	//   - culled: false to always treat the mesh as visible
	SetFrustumCulled(culled bool)

	// BoundingSphere returns the model-space bounding sphere of the geometry.
	//
	// Returns:
	//   - common.Sphere: the sphere
	//   - bool: false if there is no geometry or it is empty
	BoundingSphere() (common.Sphere, bool)

	// BoundingBox returns the model-space bounding box of the geometry.
	//
	// Returns:
	//   - common.Box3: the box
	//   - bool: false if there is no geometry or it is empty
	BoundingBox() (common.Box3, bool)

	// InstanceData packs the cached world matrix for upload by a renderer.
	//
	// Returns:
	//   - GPUModelData: the per-instance data
	InstanceData() GPUModelData
}

var (
	_ Mesh             = &mesh{}
	_ object3d.Bounded = &mesh{}
)

// NewMesh creates a detached mesh node.
//
// Parameters:
//   - options: functional options to configure the mesh
//
// Returns:
//   - Mesh: the newly created mesh
func NewMesh(options ...MeshBuilderOption) Mesh {
	m := &mesh{frustumCulled: true}
	for _, option := range options {
		option(m)
	}
	nodeOptions := append([]object3d.Object3DBuilderOption{
		object3d.WithEmbedder(m),
		object3d.WithType(TypeMesh),
	}, m.objectOptions...)
	m.Object3D = object3d.NewObject3D(nodeOptions...)
	m.objectOptions = nil
	return m
}

func (m *mesh) Geometry() Geometry {
	return m.geometry
}

func (m *mesh) SetGeometry(geo Geometry) {
	m.geometry = geo
}

func (m *mesh) FrustumCulled() bool {
	return m.frustumCulled
}

func (m *mesh) SetFrustumCulled(culled bool) {
	m.frustumCulled = culled
}

func (m *mesh) BoundingSphere() (common.Sphere, bool) {
	if m.geometry == nil {
		return common.Sphere{}, false
	}
	s := m.geometry.BoundingSphere()
	return s, !s.IsEmpty()
}

func (m *mesh) BoundingBox() (common.Box3, bool) {
	if m.geometry == nil {
		return common.Box3{}, false
	}
	b := m.geometry.BoundingBox()
	return b, !b.IsEmpty()
}

func (m *mesh) InstanceData() GPUModelData {
	return GPUModelData{Model: m.WorldMatrix()}
}
