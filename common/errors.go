package common

import "errors"

var (
	// ErrNilNode is returned when a nil node is passed where a scene graph node is required.
	ErrNilNode = errors.New("node is nil")

	// ErrSelfAttach is returned when a node is added as its own child.
	ErrSelfAttach = errors.New("node cannot be attached to itself")

	// ErrCycle is returned when attaching a node would make it a descendant of itself.
	ErrCycle = errors.New("attachment would create a cycle in the scene graph")

	// ErrSingularMatrix is returned when a matrix that must be inverted has a zero determinant.
	ErrSingularMatrix = errors.New("matrix is singular")

	// ErrPlaneCount is returned when a frustum is built from anything other than six planes.
	ErrPlaneCount = errors.New("frustum requires exactly 6 planes")

	// ErrDegenerateRay is returned when a ray's near and far points coincide.
	ErrDegenerateRay = errors.New("ray has no direction")
)
