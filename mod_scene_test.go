package toonscroll

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testScene struct {
	app      *App
	cmd      *Commands
	clock    *ManualClock
	input    *Input
	renderer *HeadlessRenderer
	log      *bytes.Buffer
}

// newTestScene builds the full scene over a manual clock and a headless
// renderer. cfg defaults to DefaultConfig without a gradient file.
func newTestScene(t *testing.T, edit func(cfg *Config)) *testScene {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Scene.GradientPath = ""
	cfg.Scene.Seed = 42
	if edit != nil {
		edit(&cfg)
	}
	require.NoError(t, cfg.Validate())

	ts := &testScene{
		clock:    &ManualClock{},
		renderer: &HeadlessRenderer{},
		log:      &bytes.Buffer{},
	}
	ts.app = NewAppBuilder().
		UseModule(LoggingModule{Logger: NewLoggerTo(ts.log, ts.log, "test", true)}).
		UseModule(cfg.SceneModules(ts.clock)...).
		UseModule(cfg.RenderModules(RendererHeadless, ts.renderer)...).
		Build()
	ts.cmd = ts.app.Commands()
	ts.input = Resource[Input](ts.app)
	return ts
}

// step advances the clock by dt seconds and runs one frame.
func (ts *testScene) step(dt float64) {
	ts.clock.Advance(dt)
	ts.app.Step()
}

func (ts *testScene) meshes() map[int]EntityId {
	out := map[int]EntityId{}
	MakeQuery1[SectionComponent](ts.cmd).Map(func(eid EntityId, s *SectionComponent) bool {
		out[s.Index] = eid
		return true
	})
	return out
}

func (ts *testScene) camera() EntityId {
	var cam EntityId
	MakeQuery1[CameraComponent](ts.cmd).Map(func(eid EntityId, _ *CameraComponent) bool {
		cam = eid
		return false
	})
	return cam
}

func TestSceneModule_Layout(t *testing.T) {
	ts := newTestScene(t, nil)
	meshes := ts.meshes()
	require.Len(t, meshes, 3)

	want := []mgl32.Vec3{{2, 0, 0}, {-2, -4, 0}, {2, -8, 0}}
	for idx, pos := range want {
		tr := GetComponent[TransformComponent](ts.cmd, meshes[idx])
		assert.Equal(t, pos, tr.Position, "mesh %d", idx)
	}
	assert.Equal(t, 3, ts.input.Sections)
}

func TestSceneModule_SharedToonMaterial(t *testing.T) {
	ts := newTestScene(t, nil)
	layout := Resource[SceneLayout](ts.app)

	MakeQuery1[MeshComponent](ts.cmd).Map(func(eid EntityId, m *MeshComponent) bool {
		assert.Equal(t, layout.ToonMaterial, m.Material)
		return true
	})
}

func TestSceneModule_Particles(t *testing.T) {
	ts := newTestScene(t, nil)
	assets := Resource[AssetServer](ts.app)

	var cloud *PointCloudAsset
	MakeQuery1[ParticleFieldComponent](ts.cmd).Map(func(eid EntityId, pf *ParticleFieldComponent) bool {
		cloud = assets.PointCloud(pf.Cloud)
		return false
	})
	require.NotNil(t, cloud)
	require.Len(t, cloud.Positions, 200)

	for _, p := range cloud.Positions {
		assert.True(t, p[0] >= -5 && p[0] <= 5, "x %v", p[0])
		assert.True(t, p[2] >= -5 && p[2] <= 5, "z %v", p[2])
		assert.True(t, p[1] <= 2 && p[1] >= 2-12, "y %v", p[1])
	}
}

func TestScatterParticles_Seeded(t *testing.T) {
	pf := ParticleFieldDef{Count: 10, Spread: 10, Seed: 7}
	assert.Equal(t, scatterParticles(pf, 4, 3), scatterParticles(pf, 4, 3))
	assert.Empty(t, scatterParticles(ParticleFieldDef{Count: -1}, 4, 3))
}

func TestSceneModule_MissingGradientContinues(t *testing.T) {
	ts := newTestScene(t, func(cfg *Config) {
		cfg.Scene.GradientPath = "does/not/exist.jpg"
	})

	ts.step(0.016)

	assert.Contains(t, ts.log.String(), "Continuing without toon gradient")
	require.Equal(t, 1, ts.renderer.Frames)
	assert.Nil(t, ts.renderer.Last.Gradient)
}

func TestSceneModule_RequiresAssets(t *testing.T) {
	assert.PanicsWithValue(t, "SceneModule requires AssetServerModule to be installed first", func() {
		NewAppBuilder().UseModule(SceneModule{}).Build()
	})
}

func TestMeshDef_Build(t *testing.T) {
	for _, md := range DefaultSceneDef().Meshes {
		g, err := md.Build()
		require.NoError(t, err, md.Shape)
		assert.NotEmpty(t, g.Indices, md.Shape)
	}
	_, err := MeshDef{Shape: "teapot"}.Build()
	assert.Error(t, err)
}
