package scene

import "github.com/achilleasa/vao/types"

// The camera type controls the scene camera.
type Camera struct {
	Eye    types.Vec3
	Center types.Vec3
	Up     types.Vec3

	// Vertical field of view in radians.
	FOV float32

	// Clip plane distances.
	Near float32
	Far  float32
}

// Create a camera looking at the origin from (0, 0, 3).
func NewCamera() *Camera {
	return &Camera{
		Eye:    types.XYZ(0, 0, 3),
		Center: types.XYZ(0, 0, 0),
		Up:     types.XYZ(0, 1, 0),
		FOV:    types.DegToRad(60),
		Near:   0.1,
		Far:    10,
	}
}

// Get the camera view matrix.
func (c *Camera) View() types.Mat4 {
	return types.LookAtV(c.Eye, c.Center, c.Up)
}

// Get the camera projection matrix for the given frame aspect ratio.
func (c *Camera) Projection(aspect float32) types.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return types.Perspective4(c.FOV, aspect, c.Near, c.Far)
}

// Get the normalized viewing direction.
func (c *Camera) LookDir() types.Vec3 {
	return c.Center.Sub(c.Eye).Normalize()
}
