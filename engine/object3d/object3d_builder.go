package object3d

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Object3DBuilderOption is a functional option for configuring an Object3D during construction.
type Object3DBuilderOption func(*object3D)

// WithName sets the name of the node.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - Object3DBuilderOption: functional option to set the name
func WithName(name string) Object3DBuilderOption {
	return func(o *object3D) {
		o.name = name
	}
}

// WithType sets the type tag reported by Type. Node kinds that embed an Object3D
// use this to identify themselves ("Camera", "Mesh", ...).
//
// Parameters:
//   - typeTag: the type tag
//
// Returns:
//   - Object3DBuilderOption: functional option to set the type tag
func WithType(typeTag string) Object3DBuilderOption {
	return func(o *object3D) {
		o.typeTag = typeTag
	}
}

// WithVisible sets whether the node starts visible. Nodes are visible by default.
//
// Parameters:
//   - visible: true to render the node, false to skip it
//
// Returns:
//   - Object3DBuilderOption: functional option to set the visibility
func WithVisible(visible bool) Object3DBuilderOption {
	return func(o *object3D) {
		o.visible = visible
	}
}

// WithPosition sets the initial local position.
//
// Parameters:
//   - x, y, z: position components in parent space
//
// Returns:
//   - Object3DBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) Object3DBuilderOption {
	return func(o *object3D) {
		o.position = mgl32.Vec3{x, y, z}
	}
}

// WithRotation sets the initial local rotation.
//
// Parameters:
//   - q: the rotation quaternion (normalized before storing)
//
// Returns:
//   - Object3DBuilderOption: functional option to set the rotation
func WithRotation(q mgl32.Quat) Object3DBuilderOption {
	return func(o *object3D) {
		o.rotation = q.Normalize()
	}
}

// WithRotationEuler sets the initial local rotation from XYZ-ordered Euler angles.
//
// Parameters:
//   - x, y, z: rotation angles in radians
//
// Returns:
//   - Object3DBuilderOption: functional option to set the rotation
func WithRotationEuler(x, y, z float32) Object3DBuilderOption {
	return func(o *object3D) {
		o.rotation = common.EulerToQuat(x, y, z)
	}
}

// WithScale sets the initial local scale.
//
// Parameters:
//   - sx, sy, sz: per-axis scale factors
//
// Returns:
//   - Object3DBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) Object3DBuilderOption {
	return func(o *object3D) {
		o.scale = mgl32.Vec3{sx, sy, sz}
	}
}

// WithEmbedder registers the concrete node type that embeds this Object3D. Parent links,
// child lists and traversal then hand out outer instead of the bare transform, so a
// camera added to a tree comes back out as a camera.
//
// Parameters:
//   - outer: the embedding node
//
// Returns:
//   - Object3DBuilderOption: functional option to set the embedding node
func WithEmbedder(outer Object3D) Object3DBuilderOption {
	return func(o *object3D) {
		if outer != nil {
			o.outer = outer
		}
	}
}

// WithChildren attaches the given nodes as children at construction. Nil entries are skipped
// and rejected attachments are logged.
//
// Parameters:
//   - children: the nodes to attach
//
// Returns:
//   - Object3DBuilderOption: functional option to attach children
func WithChildren(children ...Object3D) Object3DBuilderOption {
	return func(o *object3D) {
		for _, child := range children {
			if child == nil {
				continue
			}
			if err := o.AddChild(child); err != nil {
				common.Logger().Warn("object3d: could not attach child", "parent", o.id, "error", err)
			}
		}
	}
}
