package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Light is the GPU representation of the directional light.
type Light struct {
	Direction [4]float32 // xyz towards the light, w unused
	Color     [4]float32 // rgb, intensity
}

// MeshDraw is one toon-shaded mesh in a frame.
type MeshDraw struct {
	Geometry *Geometry
	Model    mgl32.Mat4
	Color    [4]float32
}

// PointsDraw is a cloud of same-sized, same-coloured points. Size is in world
// units when Attenuate is set and in pixels otherwise. ID names the cloud;
// renderers upload Positions once per ID.
type PointsDraw struct {
	ID        string
	Positions [][3]float32
	Model     mgl32.Mat4
	Color     [4]float32
	Size      float32
	Attenuate bool
}

// Frame is everything a renderer needs for one image. Renderers must not keep
// references to it after Render returns.
type Frame struct {
	Index      uint64
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Light      Light
	ClearColor [4]float64

	Meshes   []MeshDraw
	Points   []PointsDraw
	Gradient *GradientRamp
	Text     []TextItem
}

// ViewProjection returns Projection * View.
func (f *Frame) ViewProjection() mgl32.Mat4 {
	return f.Projection.Mul4(f.View)
}
