package types

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mat3 and Mat4 are column-major matrices; element (row, col) lives at
// index col*N+row. All heavy lifting is delegated to mgl32.
type Mat3 mgl32.Mat3
type Mat4 mgl32.Mat4

// Create a 4x4 identity matrix.
func Ident4() Mat4 {
	return Mat4(mgl32.Ident4())
}

// Create a 3x3 identity matrix.
func Ident3() Mat3 {
	return Mat3(mgl32.Ident3())
}

// Create a 4x4 translation matrix.
func Translate4(v Vec3) Mat4 {
	return Mat4(mgl32.Translate3D(v[0], v[1], v[2]))
}

// Create a 4x4 scale matrix.
func Scale4(v Vec3) Mat4 {
	return Mat4(mgl32.Scale3D(v[0], v[1], v[2]))
}

// Create a perspective projection matrix. The fov argument is the vertical
// field of view in degrees.
func Perspective4(fov, aspect, near, far float32) Mat4 {
	return Mat4(mgl32.Perspective(mgl32.DegToRad(fov), aspect, near, far))
}

// Create an orthographic projection matrix.
func Ortho4(left, right, bottom, top, near, far float32) Mat4 {
	return Mat4(mgl32.Ortho(left, right, bottom, top, near, far))
}

// Create a view matrix for an eye looking at center.
func LookAtV(eye, center, up Vec3) Mat4 {
	return Mat4(mgl32.LookAtV(mgl32.Vec3(eye), mgl32.Vec3(center), mgl32.Vec3(up)))
}

// Create the matrix that maps normalized device x/y in [-1, 1] to pixel
// space [0, width] x [0, height]. Z passes through unchanged.
func Viewport4(width, height int) Mat4 {
	m := Ident4()
	m[0] = float32(width) / 2.0
	m[12] = float32(width) / 2.0
	m[5] = float32(height) / 2.0
	m[13] = float32(height) / 2.0
	return m
}

// Multiply two matrices.
func (m Mat4) Mul4(m2 Mat4) Mat4 {
	return Mat4(mgl32.Mat4(m).Mul4(mgl32.Mat4(m2)))
}

// Multiply matrix with a column vector.
func (m Mat4) Mul4x1(v Vec4) Vec4 {
	return Vec4(mgl32.Mat4(m).Mul4x1(mgl32.Vec4(v)))
}

// Invert matrix. Singular matrices yield a zero matrix.
func (m Mat4) Inv() Mat4 {
	return Mat4(mgl32.Mat4(m).Inv())
}

// Transpose matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4(mgl32.Mat4(m).Transpose())
}

// Extract the top-left 3x3 matrix from a 4x4 matrix.
func (m Mat4) Mat3() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Calculate the matrix for transforming normals: the inverse transpose of
// the upper 3x3 part. Results are not normalized.
func (m Mat4) NormalMatrix() Mat3 {
	return Mat3(mgl32.Mat3(m.Mat3()).Inv().Transpose())
}

func (m Mat4) String() string {
	return fmt.Sprintf(
		"[%3.3f %3.3f %3.3f %3.3f]\n[%3.3f %3.3f %3.3f %3.3f]\n[%3.3f %3.3f %3.3f %3.3f]\n[%3.3f %3.3f %3.3f %3.3f]",
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	)
}

// Multiply matrix with a column vector.
func (m Mat3) Mul3x1(v Vec3) Vec3 {
	return Vec3(mgl32.Mat3(m).Mul3x1(mgl32.Vec3(v)))
}

// Invert matrix.
func (m Mat3) Inv() Mat3 {
	return Mat3(mgl32.Mat3(m).Inv())
}

// Transpose matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3(mgl32.Mat3(m).Transpose())
}
