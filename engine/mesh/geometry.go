package mesh

import (
	"math"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/go-gl/mathgl/mgl32"
)

type geometry struct {
	positions []mgl32.Vec3
	indices   []uint32

	boundingSphere common.Sphere
	boundingBox    common.Box3

	// radiusOverride replaces the computed sphere radius when >= 0.
	radiusOverride float32
}

// Geometry holds the vertex positions of a mesh and the bounding volumes derived from them.
// Only positions are kept: culling and picking never look past the bounds.
type Geometry interface {
	// Positions returns the vertex positions in model space.
	//
	// Returns:
	//   - []mgl32.Vec3: the positions (shared, do not modify)
	Positions() []mgl32.Vec3

	// Indices returns the triangle indices, or nil for non-indexed geometry.
	//
	// Returns:
	//   - []uint32: the indices (shared, do not modify)
	Indices() []uint32

	// SetPositions replaces the vertex positions and recomputes the bounds.
	//
	// Parameters:
	//   - positions: the new positions
	SetPositions(positions []mgl32.Vec3)

	// BoundingSphere returns the model-space bounding sphere. Empty geometry has an empty sphere.
	//
	// Returns:
	//   - common.Sphere: the sphere
	BoundingSphere() common.Sphere

	// BoundingBox returns the model-space bounding box. Empty geometry has an empty box.
	//
	// Returns:
	//   - common.Box3: the box
	BoundingBox() common.Box3

	// ComputeBounds recomputes both bounding volumes from the current positions.
	ComputeBounds()
}

var _ Geometry = &geometry{}

// NewGeometry creates a geometry and computes its bounds.
//
// Parameters:
//   - options: functional options to configure the geometry
//
// Returns:
//   - Geometry: the newly created geometry
func NewGeometry(options ...GeometryBuilderOption) Geometry {
	g := &geometry{radiusOverride: -1}
	for _, option := range options {
		option(g)
	}
	g.ComputeBounds()
	return g
}

// ComputeBoundingRadius calculates the radius of the smallest origin-centered sphere that
// encloses every position, matching how imported models are usually authored around their pivot.
//
// Parameters:
//   - positions: the vertex positions
//
// Returns:
//   - float32: the radius, 0 for no positions
func ComputeBoundingRadius(positions []mgl32.Vec3) float32 {
	var maxDistSq float32
	for _, p := range positions {
		if distSq := p.LenSqr(); distSq > maxDistSq {
			maxDistSq = distSq
		}
	}
	return float32(math.Sqrt(float64(maxDistSq)))
}

func (g *geometry) Positions() []mgl32.Vec3 {
	return g.positions
}

func (g *geometry) Indices() []uint32 {
	return g.indices
}

func (g *geometry) SetPositions(positions []mgl32.Vec3) {
	g.positions = positions
	g.ComputeBounds()
}

func (g *geometry) BoundingSphere() common.Sphere {
	return g.boundingSphere
}

func (g *geometry) BoundingBox() common.Box3 {
	return g.boundingBox
}

func (g *geometry) ComputeBounds() {
	g.boundingBox = common.Box3FromPoints(g.positions)
	g.boundingSphere = common.SphereFromPoints(g.positions)
	if g.radiusOverride >= 0 {
		g.boundingSphere.Radius = g.radiusOverride
	}
}
