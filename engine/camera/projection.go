package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionKind identifies a projection variant.
type ProjectionKind int

const (
	// ProjectionPerspective is a field-of-view projection.
	ProjectionPerspective ProjectionKind = iota
	// ProjectionOrthographic is a parallel projection.
	ProjectionOrthographic
)

// String returns the name of the projection kind.
func (k ProjectionKind) String() string {
	switch k {
	case ProjectionPerspective:
		return "Perspective"
	case ProjectionOrthographic:
		return "Orthographic"
	default:
		return "Unknown"
	}
}

// Projection turns camera-space coordinates into OpenGL clip space (z in [-1, 1]).
// A Camera holds exactly one Projection and asks it for a matrix whenever its
// parameters have changed.
type Projection interface {
	// Kind returns the projection variant.
	//
	// Returns:
	//   - ProjectionKind: the variant
	Kind() ProjectionKind

	// ProjectionMatrix builds the projection matrix from the current parameters.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// NearFar returns the clip plane distances.
	//
	// Returns:
	//   - near, far: clip plane distances
	NearFar() (near, far float32)
}

// Perspective is a right-handed field-of-view projection.
type Perspective struct {
	Fov    float32 // vertical field of view in degrees
	Aspect float32 // width / height
	Near   float32
	Far    float32
}

var _ Projection = Perspective{}

func (p Perspective) Kind() ProjectionKind {
	return ProjectionPerspective
}

func (p Perspective) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(p.Fov), p.Aspect, p.Near, p.Far)
}

func (p Perspective) NearFar() (near, far float32) {
	return p.Near, p.Far
}

// Orthographic is a parallel projection. Left/Right/Top/Bottom only contribute their
// extents (Right-Left and Top-Bottom): the view volume is always centered on the
// camera's -Z axis.
type Orthographic struct {
	Left   float32
	Right  float32
	Top    float32
	Bottom float32
	Near   float32
	Far    float32
}

var _ Projection = Orthographic{}

func (o Orthographic) Kind() ProjectionKind {
	return ProjectionOrthographic
}

func (o Orthographic) ProjectionMatrix() mgl32.Mat4 {
	halfW := (o.Right - o.Left) * 0.5
	halfH := (o.Top - o.Bottom) * 0.5
	return mgl32.Ortho(-halfW, halfW, -halfH, halfH, o.Near, o.Far)
}

func (o Orthographic) NearFar() (near, far float32) {
	return o.Near, o.Far
}

// Width returns the horizontal extent of the view volume.
func (o Orthographic) Width() float32 {
	return o.Right - o.Left
}

// Height returns the vertical extent of the view volume.
func (o Orthographic) Height() float32 {
	return o.Top - o.Bottom
}
