package types

import "github.com/go-gl/mathgl/mgl32"

// Column-major 4x4 matrix; the memory layout matches what opengl expects for
// uniform uploads so a &m[0] pointer can be passed directly to the driver.
type Mat4 mgl32.Mat4

// Column-major 3x3 matrix.
type Mat3 mgl32.Mat3

// Create a 4x4 identity matrix.
func Ident4() Mat4 {
	return Mat4(mgl32.Ident4())
}

// Create an orthographic projection matrix.
func Ortho4(left, right, bottom, top, near, far float32) Mat4 {
	return Mat4(mgl32.Ortho(left, right, bottom, top, near, far))
}

// Create a perspective projection matrix. The fovy angle is specified in radians.
func Perspective4(fovy, aspect, near, far float32) Mat4 {
	return Mat4(mgl32.Perspective(fovy, aspect, near, far))
}

// Create a view matrix for an eye looking at center.
func LookAtV(eye, center, up Vec3) Mat4 {
	return Mat4(mgl32.LookAtV(mgl32.Vec3(eye), mgl32.Vec3(center), mgl32.Vec3(up)))
}

// Create a translation matrix.
func Translate4(v Vec3) Mat4 {
	return Mat4(mgl32.Translate3D(v[0], v[1], v[2]))
}

// Create a scale matrix.
func Scale4(v Vec3) Mat4 {
	return Mat4(mgl32.Scale3D(v[0], v[1], v[2]))
}

// Create a rotation matrix around an arbitrary axis. The axis does not need
// to be normalized; a zero axis yields the identity matrix.
func Rotate4(angle float32, axis Vec3) Mat4 {
	axis = axis.Normalize()
	if axis == (Vec3{}) {
		return Ident4()
	}
	return Mat4(mgl32.HomogRotate3D(angle, mgl32.Vec3(axis)))
}

// Convert degrees to radians.
func DegToRad(angle float32) float32 {
	return mgl32.DegToRad(angle)
}

// Multiply two matrices.
func (m Mat4) Mul4(m2 Mat4) Mat4 {
	return Mat4(mgl32.Mat4(m).Mul4(mgl32.Mat4(m2)))
}

// Multiply matrix with a 4 component vector.
func (m Mat4) Mul4x1(v Vec4) Vec4 {
	return Vec4(mgl32.Mat4(m).Mul4x1(mgl32.Vec4(v)))
}

// Transform a point (w = 1) and apply the perspective division.
func (m Mat4) TransformPoint(v Vec3) Vec3 {
	return m.Mul4x1(v.Vec4(1)).Homogenize()
}

// Transform a direction vector (w = 0).
func (m Mat4) TransformDir(v Vec3) Vec3 {
	return m.Mul4x1(v.Vec4(0)).Vec3()
}

// Get matrix inverse. Singular matrices return the zero matrix.
func (m Mat4) Inv() Mat4 {
	return Mat4(mgl32.Mat4(m).Inv())
}

// Get matrix transpose.
func (m Mat4) Transpose() Mat4 {
	return Mat4(mgl32.Mat4(m).Transpose())
}

// Build the matrix for transforming normals (inverse transpose).
func (m Mat4) NormalMatrix() Mat4 {
	return m.Inv().Transpose()
}

// Extract the top-left 3x3 matrix from a 4x4 matrix.
func (m Mat4) Mat3() Mat3 {
	return Mat3(mgl32.Mat4(m).Mat3())
}

// Multiply 3x3 matrix with a 3 component vector.
func (m Mat3) Mul3x1(v Vec3) Vec3 {
	return Vec3(mgl32.Mat3(m).Mul3x1(mgl32.Vec3(v)))
}
