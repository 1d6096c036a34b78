package scene

import (
	"fmt"

	"github.com/achilleasa/softrast/types"
	"github.com/go-gl/mathgl/mgl32"
)

// The camera type controls the scene camera.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Vertical field of view in degrees.
	FOV float32

	// Clip plane distances.
	Near float32
	Far  float32

	// Use an orthographic projection that spans OrthoHeight world units
	// vertically.
	Orthographic bool
	OrthoHeight  float32

	ViewMat types.Mat4
	ProjMat types.Mat4
}

func NewCamera(fov float32) *Camera {
	return &Camera{
		ViewMat:     types.Ident4(),
		ProjMat:     types.Ident4(),
		Position:    types.Vec3{0, 0, 0},
		LookAt:      types.Vec3{0, 0, -1},
		Up:          types.Vec3{0, 1, 0},
		FOV:         fov,
		Near:        0.01,
		Far:         100,
		OrthoHeight: 2,
	}
}

// Setup camera projection matrix.
func (c *Camera) SetupProjection(aspect float32) {
	if c.Orthographic {
		halfH := c.OrthoHeight / 2.0
		halfW := halfH * aspect
		c.ProjMat = types.Ortho4(-halfW, halfW, -halfH, halfH, c.Near, c.Far)
	} else {
		c.ProjMat = types.Perspective4(c.FOV, aspect, c.Near, c.Far)
	}
	c.Update()
}

// Rotate the viewing direction around the camera position. Angles are
// specified in degrees.
func (c *Camera) Rotate(pitch, yaw float32) {
	toTarget := c.LookAt.Sub(c.Position)
	dist := toTarget.Len()
	dir := toTarget.Normalize()

	pitchAxis := dir.Cross(c.Up)
	pitchQuat := types.QuatFromAxisAngle(pitchAxis, mgl32.DegToRad(pitch))
	yawQuat := types.QuatFromAxisAngle(c.Up, mgl32.DegToRad(yaw))

	orientQuat := pitchQuat.Mul(yawQuat).Normalize()

	// Update direction
	dir = orientQuat.Rotate(dir)
	c.LookAt = c.Position.Add(dir.Mul(dist))
	c.Update()
}

// Update camera.
func (c *Camera) Update() {
	c.ViewMat = types.LookAtV(c.Position, c.LookAt, c.Up)
}

func (c *Camera) String() string {
	proj := fmt.Sprintf("perspective (fov: %.1f)", c.FOV)
	if c.Orthographic {
		proj = fmt.Sprintf("orthographic (height: %.1f)", c.OrthoHeight)
	}
	return fmt.Sprintf("eye: %v, look: %v, up: %v, %s, near: %.3f, far: %.1f", c.Position, c.LookAt, c.Up, proj, c.Near, c.Far)
}
