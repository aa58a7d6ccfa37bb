package mesh

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/object3d"
	"github.com/go-gl/mathgl/mgl32"
)

// GeometryBuilderOption is a functional option for configuring a Geometry.
type GeometryBuilderOption func(*geometry)

// WithPositions sets the vertex positions the bounds are computed from.
//
// Parameters:
//   - positions: vertex positions in model space
//
// Returns:
//   - GeometryBuilderOption: a function that applies the positions to a geometry
func WithPositions(positions ...mgl32.Vec3) GeometryBuilderOption {
	return func(g *geometry) {
		g.positions = positions
	}
}

// WithIndices sets the triangle indices.
//
// Parameters:
//   - indices: the triangle indices
//
// Returns:
//   - GeometryBuilderOption: a function that applies the indices to a geometry
func WithIndices(indices ...uint32) GeometryBuilderOption {
	return func(g *geometry) {
		g.indices = indices
	}
}

// WithBoundingRadius manually sets the bounding sphere radius.
// Use this to override the computed value when a tighter or looser sphere is wanted,
// e.g. for geometry displaced in a vertex shader. The sphere stays centered on the box center.
//
// Parameters:
//   - radius: the bounding radius to set
//
// Returns:
//   - GeometryBuilderOption: a function that applies the bounding radius option to a geometry
func WithBoundingRadius(radius float32) GeometryBuilderOption {
	return func(g *geometry) {
		g.radiusOverride = radius
	}
}

// MeshBuilderOption is a functional option for configuring a Mesh.
type MeshBuilderOption func(*mesh)

// WithGeometry sets the mesh geometry.
//
// Parameters:
//   - geo: the geometry
//
// Returns:
//   - MeshBuilderOption: a function that applies the geometry to a mesh
func WithGeometry(geo Geometry) MeshBuilderOption {
	return func(m *mesh) {
		m.geometry = geo
	}
}

// WithFrustumCulled sets whether culling may drop the mesh. Meshes are culled by default.
//
// Parameters:
//   - culled: false to always treat the mesh as visible
//
// Returns:
//   - MeshBuilderOption: a function that applies the culling flag to a mesh
func WithFrustumCulled(culled bool) MeshBuilderOption {
	return func(m *mesh) {
		m.frustumCulled = culled
	}
}

// WithObjectOptions forwards node options (name, transform, visibility) to the underlying Object3D.
//
// Parameters:
//   - options: the node options
//
// Returns:
//   - MeshBuilderOption: a function that records the node options
func WithObjectOptions(options ...object3d.Object3DBuilderOption) MeshBuilderOption {
	return func(m *mesh) {
		m.objectOptions = append(m.objectOptions, options...)
	}
}
