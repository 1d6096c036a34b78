package types

import "github.com/go-gl/mathgl/mgl32"

// Quaternion wrapper around mgl32.Quat for building model rotations.
type Quat mgl32.Quat

// Create identity quaternion.
func QuatIdent() Quat {
	return Quat(mgl32.QuatIdent())
}

// Create a quaternion from an axis vector and an angle in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	return Quat(mgl32.QuatRotate(angle, mgl32.Vec3(axis).Normalize()))
}

// Create a quaternion from yaw, pitch and roll angles (in degrees) that
// rotate around the X, Y and Z axis respectively. Rotations are applied in
// X, Y, Z order.
func QuatFromEuler(yaw, pitch, roll float32) Quat {
	yawQuat := QuatFromAxisAngle(Vec3{1, 0, 0}, mgl32.DegToRad(yaw))
	pitchQuat := QuatFromAxisAngle(Vec3{0, 1, 0}, mgl32.DegToRad(pitch))
	rollQuat := QuatFromAxisAngle(Vec3{0, 0, 1}, mgl32.DegToRad(roll))
	return rollQuat.Mul(pitchQuat.Mul(yawQuat)).Normalize()
}

// Multiplies two quaternions. Multiplication is not commutative; q1.Mul(q2)
// applies q2 first.
func (q1 Quat) Mul(q2 Quat) Quat {
	return Quat(mgl32.Quat(q1).Mul(mgl32.Quat(q2)))
}

// Normalizes the quaternion, returning its versor (unit quaternion).
func (q1 Quat) Normalize() Quat {
	return Quat(mgl32.Quat(q1).Normalize())
}

// Rotates a vector by the rotation this quaternion represents.
func (q1 Quat) Rotate(v Vec3) Vec3 {
	return Vec3(mgl32.Quat(q1).Rotate(mgl32.Vec3(v)))
}

// Returns the homogeneous 3D rotation matrix corresponding to the quaternion.
func (q1 Quat) Mat4() Mat4 {
	return Mat4(mgl32.Quat(q1).Mat4())
}
