package toonscroll

import (
	"fmt"

	"github.com/gekko3d/toonscroll/render/core"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneDef defines the initial state of the scene.
type SceneDef struct {
	// Gutter is the vertical distance between consecutive meshes, and the
	// camera travel per scrolled viewport.
	Gutter float32
	// Offset pushes even meshes right and odd meshes left.
	Offset float32

	Meshes     []MeshDef
	Particles  ParticleFieldDef
	Light      LightDef
	Camera     CameraDef
	Transition TransitionDef

	MaterialColor string
	GradientPath  string
	SpinRate      mgl32.Vec3
	ClearColor    string
}

type MeshShape string

const (
	ShapeTorus     MeshShape = "torus"
	ShapeCone      MeshShape = "cone"
	ShapeTorusKnot MeshShape = "torus-knot"
)

// MeshDef names a shape and its parameters, in generator argument order:
//
//	torus:      radius, tube, radial segments, tubular segments
//	cone:       radius, height, radial segments
//	torus-knot: radius, tube, tubular segments, radial segments, p, q
type MeshDef struct {
	Shape  MeshShape
	Params []float32
}

type ParticleFieldDef struct {
	Count  int
	Spread float32
	Size   float32
	Seed   uint64
}

type LightDef struct {
	Position  mgl32.Vec3
	Target    mgl32.Vec3
	Color     [3]float32
	Intensity float32
}

type CameraDef struct {
	FovY      float32
	Near      float32
	Far       float32
	Distance  float32
	Smoothing float32
}

// TransitionDef is the rotation played on the mesh of a newly reached section.
type TransitionDef struct {
	Duration float64
	Delta    mgl32.Vec3
	Ease     string
}

func DefaultSceneDef() SceneDef {
	return SceneDef{
		Gutter: 4,
		Offset: 2,
		Meshes: []MeshDef{
			{Shape: ShapeTorus, Params: []float32{1, 0.4, 16, 60}},
			{Shape: ShapeCone, Params: []float32{1, 2, 32}},
			{Shape: ShapeTorusKnot, Params: []float32{0.8, 0.35, 100, 16, 2, 3}},
		},
		Particles: ParticleFieldDef{
			Count:  200,
			Spread: 10,
			Size:   0.03,
		},
		Light: LightDef{
			Position:  mgl32.Vec3{1, 1, 0},
			Color:     [3]float32{1, 1, 1},
			Intensity: 1,
		},
		Camera: CameraDef{
			FovY:      35,
			Near:      0.1,
			Far:       100,
			Distance:  6,
			Smoothing: 5,
		},
		Transition: TransitionDef{
			Duration: 1.5,
			Delta:    mgl32.Vec3{6, 3, 1.5},
			Ease:     "power2.inOut",
		},
		MaterialColor: "#84cee1",
		GradientPath:  "textures/gradients/3.jpg",
		SpinRate:      mgl32.Vec3{0.1, 0.12, 0},
		ClearColor:    "#1e1a20",
	}
}

// MeshPosition is where the mesh of section idx sits.
func (def SceneDef) MeshPosition(idx int) mgl32.Vec3 {
	x := def.Offset
	if idx%2 == 1 {
		x = -def.Offset
	}
	return mgl32.Vec3{x, -def.Gutter * float32(idx), 0}
}

// Build turns a MeshDef into geometry. Missing trailing parameters take the
// generator defaults.
func (md MeshDef) Build() (*core.Geometry, error) {
	p := func(i int, fallback float32) float32 {
		if i < len(md.Params) {
			return md.Params[i]
		}
		return fallback
	}
	switch md.Shape {
	case ShapeTorus:
		return core.NewTorus(p(0, 1), p(1, 0.4), int(p(2, 12)), int(p(3, 48))), nil
	case ShapeCone:
		return core.NewCone(p(0, 1), p(1, 1), int(p(2, 32))), nil
	case ShapeTorusKnot:
		return core.NewTorusKnot(p(0, 1), p(1, 0.4), int(p(2, 64)), int(p(3, 8)), int(p(4, 2)), int(p(5, 3))), nil
	}
	return nil, fmt.Errorf("unknown mesh shape %q", md.Shape)
}
