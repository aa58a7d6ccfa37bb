package camera

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/object3d"
	"github.com/go-gl/mathgl/mgl32"
)

// TypeCamera is the type tag reported by camera nodes.
const TypeCamera = "Camera"

type cameraImpl struct {
	object3d.Object3D

	projection        Projection
	projectionMatrix  mgl32.Mat4
	projectionStale   bool
	// projectionUpdates counts rebuilds so lazy recomputation is observable.
	projectionUpdates uint64
}

// Camera is a scene graph node that derives view and projection state from its place in the tree.
// The projection matrix is cached and rebuilt only after a parameter setter marks it stale.
// The view matrix is the inverse of the cached world matrix and is recomputed on every read,
// so the camera's world matrix must be refreshed before any view-dependent query.
type Camera interface {
	object3d.Object3D

	// Projection returns the camera's projection parameters.
	//
	// Returns:
	//   - Projection: a Perspective or Orthographic value
	Projection() Projection

	// SetProjection replaces the projection and marks the projection matrix stale.
	// A nil projection is ignored.
	//
	// Parameters:
	//   - p: the new projection
	SetProjection(p Projection)

	// SetFov sets the vertical field of view of a perspective camera. Ignored by orthographic cameras.
	//
	// Parameters:
	//   - fov: field of view in degrees
	SetFov(fov float32)

	// SetAspect sets the aspect ratio of a perspective camera. Ignored by orthographic cameras.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetExtents sets the view volume bounds of an orthographic camera. Ignored by perspective cameras.
	//
	// Parameters:
	//   - left, right, top, bottom: view volume bounds; only their extents are used
	SetExtents(left, right, top, bottom float32)

	// ProjectionMatrix returns the cached projection matrix, rebuilding it first if stale.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// UpdateProjectionMatrix rebuilds the projection matrix from the current parameters.
	UpdateProjectionMatrix()

	// ViewMatrix returns the inverse of the camera's world matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	//   - error: common.ErrSingularMatrix if the world matrix cannot be inverted
	ViewMatrix() (mgl32.Mat4, error)

	// ViewProjectionMatrix returns Projection * View.
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix
	//   - error: common.ErrSingularMatrix if the world matrix cannot be inverted
	ViewProjectionMatrix() (mgl32.Mat4, error)

	// InverseViewProjectionMatrix returns the inverse of Projection * View, mapping NDC back to world space.
	//
	// Returns:
	//   - mgl32.Mat4: the inverse view-projection matrix
	//   - error: common.ErrSingularMatrix if either matrix cannot be inverted
	InverseViewProjectionMatrix() (mgl32.Mat4, error)

	// Frustum extracts the six culling planes from the current view-projection matrix.
	//
	// Returns:
	//   - common.Frustum: the frustum in world space
	//   - error: common.ErrSingularMatrix if the world matrix cannot be inverted
	Frustum() (common.Frustum, error)

	// Project maps a world-space point into normalized device coordinates.
	//
	// Parameters:
	//   - world: the point in world space
	//
	// Returns:
	//   - mgl32.Vec3: the point in NDC
	//   - error: common.ErrSingularMatrix if the world matrix cannot be inverted
	Project(world mgl32.Vec3) (mgl32.Vec3, error)

	// Unproject maps a point in normalized device coordinates back into world space.
	// z = -1 lies on the near plane and z = 1 on the far plane.
	//
	// Parameters:
	//   - ndc: the point in NDC
	//
	// Returns:
	//   - mgl32.Vec3: the point in world space
	//   - error: common.ErrSingularMatrix if the view-projection matrix cannot be inverted
	Unproject(ndc mgl32.Vec3) (mgl32.Vec3, error)

	// Uniform packs the view-projection matrix and world position for upload by a renderer.
	//
	// Returns:
	//   - GPUCameraUniform: the packed uniform
	//   - error: common.ErrSingularMatrix if the world matrix cannot be inverted
	Uniform() (GPUCameraUniform, error)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a detached camera using the given projection.
// Options are applied in order after the underlying node exists, then the camera's
// matrices are refreshed once so a standalone camera is usable immediately.
//
// Parameters:
//   - projection: the projection parameters (must not be nil)
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(projection Projection, options ...CameraBuilderOption) Camera {
	if projection == nil {
		panic("camera: projection must not be nil")
	}
	c := &cameraImpl{
		projection:      projection,
		projectionStale: true,
	}
	c.Object3D = object3d.NewObject3D(object3d.WithEmbedder(c), object3d.WithType(TypeCamera))
	for _, option := range options {
		option(c)
	}
	c.UpdateWorldMatrix(true, false)
	c.UpdateProjectionMatrix()
	return c
}

// NewPerspectiveCamera creates a detached perspective camera.
//
// Parameters:
//   - fov: vertical field of view in degrees
//   - aspect: width / height
//   - near, far: clip plane distances
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewPerspectiveCamera(fov, aspect, near, far float32, options ...CameraBuilderOption) Camera {
	return NewCamera(Perspective{Fov: fov, Aspect: aspect, Near: near, Far: far}, options...)
}

// NewOrthographicCamera creates a detached orthographic camera.
//
// Parameters:
//   - left, right, top, bottom: view volume bounds; only their extents are used
//   - near, far: clip plane distances
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewOrthographicCamera(left, right, top, bottom, near, far float32, options ...CameraBuilderOption) Camera {
	return NewCamera(Orthographic{Left: left, Right: right, Top: top, Bottom: bottom, Near: near, Far: far}, options...)
}

func (c *cameraImpl) Projection() Projection {
	return c.projection
}

func (c *cameraImpl) SetProjection(p Projection) {
	if p == nil {
		return
	}
	c.projection = p
	c.projectionStale = true
}

func (c *cameraImpl) SetFov(fov float32) {
	p, ok := c.projection.(Perspective)
	if !ok {
		common.Logger().Debug("camera: SetFov ignored", "id", c.ID(), "kind", c.projection.Kind())
		return
	}
	p.Fov = fov
	c.SetProjection(p)
}

func (c *cameraImpl) SetAspect(aspect float32) {
	p, ok := c.projection.(Perspective)
	if !ok {
		common.Logger().Debug("camera: SetAspect ignored", "id", c.ID(), "kind", c.projection.Kind())
		return
	}
	p.Aspect = aspect
	c.SetProjection(p)
}

func (c *cameraImpl) SetNear(near float32) {
	switch p := c.projection.(type) {
	case Perspective:
		p.Near = near
		c.SetProjection(p)
	case Orthographic:
		p.Near = near
		c.SetProjection(p)
	}
}

func (c *cameraImpl) SetFar(far float32) {
	switch p := c.projection.(type) {
	case Perspective:
		p.Far = far
		c.SetProjection(p)
	case Orthographic:
		p.Far = far
		c.SetProjection(p)
	}
}

func (c *cameraImpl) SetExtents(left, right, top, bottom float32) {
	p, ok := c.projection.(Orthographic)
	if !ok {
		common.Logger().Debug("camera: SetExtents ignored", "id", c.ID(), "kind", c.projection.Kind())
		return
	}
	p.Left, p.Right, p.Top, p.Bottom = left, right, top, bottom
	c.SetProjection(p)
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	if c.projectionStale {
		c.UpdateProjectionMatrix()
	}
	return c.projectionMatrix
}

func (c *cameraImpl) UpdateProjectionMatrix() {
	c.projectionMatrix = c.projection.ProjectionMatrix()
	c.projectionStale = false
	c.projectionUpdates++
}

func (c *cameraImpl) ViewMatrix() (mgl32.Mat4, error) {
	view, ok := common.Invert4(c.WorldMatrix())
	if !ok {
		common.Logger().Warn("camera: world matrix is singular", "id", c.ID(), "name", c.Name())
		return mgl32.Mat4{}, fmt.Errorf("camera %d view matrix: %w", c.ID(), common.ErrSingularMatrix)
	}
	return view, nil
}

func (c *cameraImpl) ViewProjectionMatrix() (mgl32.Mat4, error) {
	view, err := c.ViewMatrix()
	if err != nil {
		return mgl32.Mat4{}, err
	}
	return c.ProjectionMatrix().Mul4(view), nil
}

func (c *cameraImpl) InverseViewProjectionMatrix() (mgl32.Mat4, error) {
	vp, err := c.ViewProjectionMatrix()
	if err != nil {
		return mgl32.Mat4{}, err
	}
	inv, ok := common.Invert4(vp)
	if !ok {
		common.Logger().Warn("camera: view-projection matrix is singular", "id", c.ID(), "name", c.Name())
		return mgl32.Mat4{}, fmt.Errorf("camera %d inverse view-projection: %w", c.ID(), common.ErrSingularMatrix)
	}
	return inv, nil
}

func (c *cameraImpl) Frustum() (common.Frustum, error) {
	vp, err := c.ViewProjectionMatrix()
	if err != nil {
		return common.Frustum{}, err
	}
	return common.FrustumFromMatrix(vp), nil
}

func (c *cameraImpl) Project(world mgl32.Vec3) (mgl32.Vec3, error) {
	vp, err := c.ViewProjectionMatrix()
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return common.TransformPoint(vp, world), nil
}

func (c *cameraImpl) Unproject(ndc mgl32.Vec3) (mgl32.Vec3, error) {
	inv, err := c.InverseViewProjectionMatrix()
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return common.TransformPoint(inv, ndc), nil
}

func (c *cameraImpl) Uniform() (GPUCameraUniform, error) {
	vp, err := c.ViewProjectionMatrix()
	if err != nil {
		return GPUCameraUniform{}, err
	}
	return GPUCameraUniform{
		ViewProj:       vp,
		CameraPosition: c.WorldPosition(),
	}, nil
}
