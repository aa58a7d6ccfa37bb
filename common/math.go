package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Axis unit vectors used throughout the scene graph. The engine is right-handed
// with +Y up and objects looking down their local -Z axis.
var (
	AxisX = mgl32.Vec3{1, 0, 0}
	AxisY = mgl32.Vec3{0, 1, 0}
	AxisZ = mgl32.Vec3{0, 0, 1}
)

// ComposeMatrix builds a local transform matrix from position, rotation and scale.
// All matrices are column-major and act on column vectors, so the result is T * R * S.
//
// Parameters:
//   - position: translation
//   - rotation: orientation quaternion (normalized before use)
//   - scale: per-axis scale factors
//
// Returns:
//   - mgl32.Mat4: the composed transform
func ComposeMatrix(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	r := rotation.Normalize().Mat4()

	// Scale the rotation basis columns in place instead of multiplying by a scale matrix.
	for i := 0; i < 3; i++ {
		r[i] *= scale[0]
		r[4+i] *= scale[1]
		r[8+i] *= scale[2]
	}
	r[12], r[13], r[14] = position[0], position[1], position[2]
	return r
}

// Invert4 computes the inverse of a 4x4 matrix. If the matrix is singular
// (determinant exactly zero) the zero matrix is returned together with false.
//
// Parameters:
//   - m: source matrix
//
// Returns:
//   - mgl32.Mat4: the inverse, or the zero matrix if m is singular
//   - bool: true if the matrix was successfully inverted
func Invert4(m mgl32.Mat4) (mgl32.Mat4, bool) {
	det := m.Det()
	if det == 0 || math.IsNaN(float64(det)) || math.IsInf(float64(det), 0) {
		return mgl32.Mat4{}, false
	}
	return m.Inv(), true
}

// TransformPoint applies m to the point p (w = 1) and performs the perspective divide.
//
// Parameters:
//   - m: transform matrix
//   - p: point to transform
//
// Returns:
//   - mgl32.Vec3: the transformed point
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	v := m.Mul4x1(p.Vec4(1))
	if v[3] != 0 && v[3] != 1 {
		inv := 1 / v[3]
		return mgl32.Vec3{v[0] * inv, v[1] * inv, v[2] * inv}
	}
	return v.Vec3()
}

// TransformDirection applies the upper 3x3 of m to the vector d (w = 0). The result is not normalized.
//
// Parameters:
//   - m: transform matrix
//   - d: direction to transform
//
// Returns:
//   - mgl32.Vec3: the transformed direction
func TransformDirection(m mgl32.Mat4, d mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}

// MaxScaleOnAxis returns the largest length among the three basis columns of m.
// Used to grow a bounding sphere radius under non-uniform scale.
//
// Parameters:
//   - m: transform matrix
//
// Returns:
//   - float32: the largest axis scale
func MaxScaleOnAxis(m mgl32.Mat4) float32 {
	sx := m.Col(0).Vec3().LenSqr()
	sy := m.Col(1).Vec3().LenSqr()
	sz := m.Col(2).Vec3().LenSqr()
	return float32(math.Sqrt(float64(max(sx, sy, sz))))
}

// NormalMatrix returns the inverse-transpose of the upper 3x3 of m, used to move
// surface normals between frames.
//
// Parameters:
//   - m: transform matrix
//
// Returns:
//   - mgl32.Mat3: the normal matrix
//   - bool: false if m is singular
func NormalMatrix(m mgl32.Mat4) (mgl32.Mat3, bool) {
	m3 := m.Mat3()
	if m3.Det() == 0 {
		return mgl32.Mat3{}, false
	}
	return m3.Inv().Transpose(), true
}

// EulerToQuat converts Euler angles in radians to a quaternion.
// The order is XYZ: the combined rotation is Rx * Ry * Rz.
//
// Parameters:
//   - x, y, z: rotation angles in radians around each axis
//
// Returns:
//   - mgl32.Quat: the equivalent rotation
func EulerToQuat(x, y, z float32) mgl32.Quat {
	qx := mgl32.QuatRotate(x, AxisX)
	qy := mgl32.QuatRotate(y, AxisY)
	qz := mgl32.QuatRotate(z, AxisZ)
	return qx.Mul(qy).Mul(qz).Normalize()
}

// QuatToEuler converts a quaternion to XYZ-ordered Euler angles in radians.
// Inverse of EulerToQuat; near the Y = ±90° singularity Z is reported as 0.
//
// Parameters:
//   - q: rotation quaternion
//
// Returns:
//   - x, y, z: rotation angles in radians around each axis
func QuatToEuler(q mgl32.Quat) (x, y, z float32) {
	m := q.Normalize().Mat4()
	m13 := mgl32.Clamp(m.At(0, 2), -1, 1)

	y = float32(math.Asin(float64(m13)))
	if mgl32.Abs(m13) < 0.9999999 {
		x = float32(math.Atan2(float64(-m.At(1, 2)), float64(m.At(2, 2))))
		z = float32(math.Atan2(float64(-m.At(0, 1)), float64(m.At(0, 0))))
	} else {
		x = float32(math.Atan2(float64(m.At(2, 1)), float64(m.At(1, 1))))
		z = 0
	}
	return x, y, z
}

// LookRotation returns the rotation that points the local -Z axis from eye toward target,
// keeping the local +Y axis as close to up as possible. When the view direction is
// parallel to up, +Z is used as the up hint instead.
//
// Parameters:
//   - eye: viewer position
//   - target: point to look at
//   - up: preferred up direction
//
// Returns:
//   - mgl32.Quat: the look rotation
//   - bool: false if eye and target coincide
func LookRotation(eye, target, up mgl32.Vec3) (mgl32.Quat, bool) {
	back := eye.Sub(target)
	if back.LenSqr() < 1e-12 {
		return mgl32.QuatIdent(), false
	}
	back = back.Normalize()

	right := up.Cross(back)
	if right.LenSqr() < 1e-12 {
		// up and view direction are parallel; nudge the hint
		right = AxisZ.Cross(back)
		if right.LenSqr() < 1e-12 {
			right = AxisX.Cross(back)
		}
	}
	right = right.Normalize()
	newUp := back.Cross(right)

	basis := mgl32.Mat4FromCols(right.Vec4(0), newUp.Vec4(0), back.Vec4(0), mgl32.Vec4{0, 0, 0, 1})
	return mgl32.Mat4ToQuat(basis).Normalize(), true
}
