package toonscroll

import (
	"github.com/gekko3d/toonscroll/render/core"
	"github.com/go-gl/mathgl/mgl32"
)

type LightType uint32

const (
	LightTypeDirectional LightType = 1
)

// LightComponent lights the scene from its entity's position towards Target.
// Only directional lights are supported.
type LightComponent struct {
	Type      LightType
	Color     [3]float32
	Intensity float32
	Target    mgl32.Vec3
}

// gpuLight converts a directional light at position into the renderer's form.
// A light sitting on its target falls back to straight down the +Y axis.
func (l LightComponent) gpuLight(position mgl32.Vec3) core.Light {
	dir := position.Sub(l.Target)
	if dir.Len() < 1e-6 {
		dir = mgl32.Vec3{0, 1, 0}
	}
	dir = dir.Normalize()
	return core.Light{
		Direction: [4]float32{dir.X(), dir.Y(), dir.Z(), 0},
		Color:     [4]float32{l.Color[0], l.Color[1], l.Color[2], l.Intensity},
	}
}
