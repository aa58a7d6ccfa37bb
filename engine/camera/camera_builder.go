package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraBuilderOption is a functional option applied to a camera after its node is created.
// Options run in the order given, so WithPosition must precede WithLookAt.
type CameraBuilderOption func(*cameraImpl)

// WithName sets the camera's node name.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's name
func WithName(name string) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetName(name)
	}
}

// WithPosition sets the camera's local position.
//
// Parameters:
//   - x, y, z: position in parent space
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetPosition(x, y, z)
	}
}

// WithRotation sets the camera's local rotation.
//
// Parameters:
//   - q: the rotation quaternion
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's rotation
func WithRotation(q mgl32.Quat) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetRotation(q)
	}
}

// WithLookAt turns the camera toward target.
//
// Parameters:
//   - target: the point to face, in parent space
//
// Returns:
//   - CameraBuilderOption: a function that orients the camera
func WithLookAt(target mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.LookAt(target)
	}
}

// WithVisible sets whether the camera node is visible to traversals that skip hidden subtrees.
//
// Parameters:
//   - visible: the visibility flag
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's visibility
func WithVisible(visible bool) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetVisible(visible)
	}
}
