package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraState is a perspective camera placed by a world matrix.
type CameraState struct {
	FovY   float32 // degrees
	Near   float32
	Far    float32
	Aspect float32

	World mgl32.Mat4
}

func NewCameraState(fovY, near, far float32) *CameraState {
	return &CameraState{
		FovY:   fovY,
		Near:   near,
		Far:    far,
		Aspect: 1,
		World:  mgl32.Ident4(),
	}
}

// SetViewport updates the aspect ratio. A degenerate size keeps the old one.
func (c *CameraState) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

func (c *CameraState) Position() mgl32.Vec3 {
	return c.World.Col(3).Vec3()
}

func (c *CameraState) GetViewMatrix() mgl32.Mat4 {
	return c.World.Inv()
}

// GetProjectionMatrix maps view space to WebGPU clip space, depth in [0, 1].
func (c *CameraState) GetProjectionMatrix() mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
	return glToWebGPU.Mul4(proj)
}

// glToWebGPU remaps OpenGL depth [-1, 1] to [0, 1].
var glToWebGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

func (c *CameraState) ViewProjection() mgl32.Mat4 {
	return c.GetProjectionMatrix().Mul4(c.GetViewMatrix())
}
