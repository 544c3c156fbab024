package toonscroll

import (
	"github.com/gekko3d/toonscroll/render/core"
	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent is an entity's transform relative to its parent, or to
// the world for roots. Rotation is Euler XYZ in radians.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

func NewTransformComponent(position mgl32.Vec3) TransformComponent {
	return TransformComponent{Position: position, Scale: mgl32.Vec3{1, 1, 1}}
}

func (tr TransformComponent) local() core.Transform {
	return core.Transform{Position: tr.Position, Rotation: tr.Rotation, Scale: tr.Scale}
}

// WorldTransform is written by the hierarchy system every frame.
type WorldTransform struct {
	Matrix mgl32.Mat4
}

func (w WorldTransform) Position() mgl32.Vec3 {
	return w.Matrix.Col(3).Vec3()
}

type Parent struct {
	Entity EntityId
}

type MeshComponent struct {
	Geometry AssetId
	Material AssetId
}

// SectionComponent ties a mesh to the page section that shows it.
type SectionComponent struct {
	Index int
}

// SpinComponent turns an entity continuously, in radians per second per axis.
type SpinComponent struct {
	Rate mgl32.Vec3
}

type CameraComponent struct {
	FovY float32 // degrees
	Near float32
	Far  float32
}

// ParallaxGroupComponent eases its entity's x/y towards the cursor. Smoothing
// is the fraction of the remaining distance covered per second.
type ParallaxGroupComponent struct {
	Smoothing float32
}

type ParticleFieldComponent struct {
	Cloud    AssetId
	Material AssetId
}
