package toonscroll

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// SceneLayout is the resource the frame systems read the scene's fixed
// parameters from.
type SceneLayout struct {
	Gutter   float32
	Offset   float32
	Sections int

	TransitionDelta    mgl32.Vec3
	TransitionDuration float64
	TransitionEase     Ease

	ToonMaterial   AssetId
	PointsMaterial AssetId
	ClearColor     [4]float64
}

// SceneModule spawns the meshes, particle field, light and camera rig. It
// needs the asset server and, when present, ties materials to Settings.
type SceneModule struct {
	Def SceneDef
}

func (mod SceneModule) Install(app *App, cmd *Commands) {
	def := mod.Def
	if len(def.Meshes) == 0 {
		def = DefaultSceneDef()
	}
	log := app.Logger()

	assets := Resource[AssetServer](app)
	if assets == nil {
		panic("SceneModule requires AssetServerModule to be installed first")
	}
	settings := Resource[Settings](app)

	var color colorful.Color
	if settings != nil {
		color = settings.MaterialColor()
	} else {
		c, err := parseHexColor(def.MaterialColor)
		if err != nil {
			panic(fmt.Sprintf("scene material color: %v", err))
		}
		color = c
	}

	var gradient AssetId
	if def.GradientPath != "" {
		id, err := assets.LoadGradient(def.GradientPath)
		if err != nil {
			log.Warnf("Continuing without toon gradient: %v", err)
		} else {
			gradient = id
		}
	}

	layout := &SceneLayout{
		Gutter:             def.Gutter,
		Offset:             def.Offset,
		Sections:           len(def.Meshes),
		TransitionDelta:    def.Transition.Delta,
		TransitionDuration: def.Transition.Duration,
		ToonMaterial: assets.AddMaterial(MaterialAsset{
			Kind:     MaterialToon,
			Color:    color,
			Gradient: gradient,
		}),
		PointsMaterial: assets.AddMaterial(MaterialAsset{
			Kind:      MaterialPoints,
			Color:     color,
			Size:      def.Particles.Size,
			Attenuate: true,
		}),
	}
	ease, err := EaseByName(def.Transition.Ease)
	if err != nil {
		log.Warnf("Transition: %v, using power2.inOut", err)
		ease = Power2InOut
	}
	layout.TransitionEase = ease
	if def.ClearColor != "" {
		if c, err := parseHexColor(def.ClearColor); err == nil {
			layout.ClearColor = [4]float64{c.R, c.G, c.B, 1}
		} else {
			log.Warnf("Clear color: %v", err)
		}
	}
	cmd.AddResources(layout)

	if input := Resource[Input](app); input != nil {
		input.Sections = layout.Sections
	}

	for idx, md := range def.Meshes {
		geometry, err := md.Build()
		if err != nil {
			panic(fmt.Sprintf("scene mesh %d: %v", idx, err))
		}
		cmd.AddEntity(
			NewTransformComponent(def.MeshPosition(idx)),
			WorldTransform{},
			MeshComponent{Geometry: assets.AddGeometry(geometry), Material: layout.ToonMaterial},
			SectionComponent{Index: idx},
			SpinComponent{Rate: def.SpinRate},
		)
	}

	cmd.AddEntity(
		NewTransformComponent(mgl32.Vec3{}),
		WorldTransform{},
		ParticleFieldComponent{
			Cloud:    assets.AddPointCloud(scatterParticles(def.Particles, def.Gutter, len(def.Meshes))),
			Material: layout.PointsMaterial,
		},
	)

	cmd.AddEntity(
		NewTransformComponent(def.Light.Position),
		WorldTransform{},
		LightComponent{
			Type:      LightTypeDirectional,
			Color:     def.Light.Color,
			Intensity: def.Light.Intensity,
			Target:    def.Light.Target,
		},
	)

	group := cmd.AddEntity(
		NewTransformComponent(mgl32.Vec3{}),
		WorldTransform{},
		ParallaxGroupComponent{Smoothing: def.Camera.Smoothing},
	)
	cmd.AddEntity(
		NewTransformComponent(mgl32.Vec3{0, 0, def.Camera.Distance}),
		WorldTransform{},
		Parent{Entity: group},
		CameraComponent{FovY: def.Camera.FovY, Near: def.Camera.Near, Far: def.Camera.Far},
	)

	if settings != nil {
		toon := assets.Material(layout.ToonMaterial)
		points := assets.Material(layout.PointsMaterial)
		settings.Subscribe(func(c colorful.Color) { toon.Color = c })
		settings.Subscribe(func(c colorful.Color) { points.Color = c })
	}

	log.Infof("Scene ready: %d sections, %d particles", layout.Sections, def.Particles.Count)
}

// scatterParticles spreads points over the x/z square of side Spread and over
// the whole scrolled height, starting half a gutter above the first mesh.
// Seed 0 picks a fresh field on every run.
func scatterParticles(pf ParticleFieldDef, gutter float32, sections int) [][3]float32 {
	var rng *rand.Rand
	if pf.Seed == 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		rng = rand.New(rand.NewPCG(pf.Seed, pf.Seed))
	}
	positions := make([][3]float32, max(pf.Count, 0))
	for i := range positions {
		positions[i] = [3]float32{
			(rng.Float32() - 0.5) * pf.Spread,
			gutter*0.5 - rng.Float32()*float32(sections)*gutter,
			(rng.Float32() - 0.5) * pf.Spread,
		}
	}
	return positions
}
