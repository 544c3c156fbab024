package toonscroll

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the on-disk configuration. Every field has a default, so a config
// file only needs the keys it changes.
type Config struct {
	Window WindowConfig `toml:"window"`
	Scene  SceneConfig  `toml:"scene"`
	Input  InputConfig  `toml:"input"`
	Debug  DebugConfig  `toml:"debug"`
}

type WindowConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Title      string `toml:"title"`
	Background string `toml:"background"`
}

type SceneConfig struct {
	GradientPath   string  `toml:"gradient_path"`
	ParticleCount  int     `toml:"particle_count"`
	ParticleSpread float32 `toml:"particle_spread"`
	ParticleSize   float32 `toml:"particle_size"`
	Seed           uint64  `toml:"seed"`
	Gutter         float32 `toml:"gutter"`
	Offset         float32 `toml:"offset"`
}

type InputConfig struct {
	WheelStep float64 `toml:"wheel_step"`
}

type DebugConfig struct {
	MaterialColor string `toml:"material_color"`
	Hud           bool   `toml:"hud"`
	SettingsPath  string `toml:"settings_path"`
	LogDebug      bool   `toml:"log_debug"`
}

func DefaultConfig() Config {
	def := DefaultSceneDef()
	return Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Title:      "toonscroll",
			Background: def.ClearColor,
		},
		Scene: SceneConfig{
			GradientPath:   def.GradientPath,
			ParticleCount:  def.Particles.Count,
			ParticleSpread: def.Particles.Spread,
			ParticleSize:   def.Particles.Size,
			Gutter:         def.Gutter,
			Offset:         def.Offset,
		},
		Input: InputConfig{
			WheelStep: 100,
		},
		Debug: DebugConfig{
			MaterialColor: def.MaterialColor,
		},
	}
}

// LoadConfig reads path over the defaults. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("config %s: %s", path, strict.String())
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Scene.ParticleCount < 0 {
		errs = append(errs, fmt.Errorf("particle_count %d is negative", c.Scene.ParticleCount))
	}
	if c.Scene.ParticleSize <= 0 {
		errs = append(errs, fmt.Errorf("particle_size %v must be positive", c.Scene.ParticleSize))
	}
	if c.Scene.Gutter <= 0 {
		errs = append(errs, fmt.Errorf("gutter %v must be positive", c.Scene.Gutter))
	}
	if c.Input.WheelStep <= 0 {
		errs = append(errs, fmt.Errorf("wheel_step %v must be positive", c.Input.WheelStep))
	}
	if _, err := parseHexColor(c.Debug.MaterialColor); err != nil {
		errs = append(errs, fmt.Errorf("material_color: %w", err))
	}
	if c.Window.Background != "" {
		if _, err := parseHexColor(c.Window.Background); err != nil {
			errs = append(errs, fmt.Errorf("background: %w", err))
		}
	}
	return errors.Join(errs...)
}

// SceneDef applies the scene settings over the default scene.
func (c Config) SceneDef() SceneDef {
	def := DefaultSceneDef()
	def.GradientPath = c.Scene.GradientPath
	def.Particles.Count = c.Scene.ParticleCount
	def.Particles.Spread = c.Scene.ParticleSpread
	def.Particles.Size = c.Scene.ParticleSize
	def.Particles.Seed = c.Scene.Seed
	def.Gutter = c.Scene.Gutter
	def.Offset = c.Scene.Offset
	def.MaterialColor = c.Debug.MaterialColor
	def.ClearColor = c.Window.Background
	return def
}

// SceneModules is the module set of the scene in install order, without a
// window or renderer. A nil clock means wall time.
func (c Config) SceneModules(clock Clock) []Module {
	def := c.SceneDef()
	return []Module{
		TimeModule{Clock: clock},
		InputModule{
			Width:     c.Window.Width,
			Height:    c.Window.Height,
			Sections:  len(def.Meshes),
			WheelStep: c.Input.WheelStep,
		},
		AssetServerModule{},
		SettingsModule{
			InitialColor: c.Debug.MaterialColor,
			WatchPath:    c.Debug.SettingsPath,
		},
		SceneModule{Def: def},
		SectionModule{},
		CameraRigModule{},
		SpinModule{},
		TweenModule{},
		HierarchyModule{},
	}
}

// RenderModules installs r and the HUD drawn through it. They go after
// SceneModules.
func (c Config) RenderModules(name RendererName, r SceneRenderer) []Module {
	return []Module{
		RenderModule{Name: name, Renderer: r},
		HudModule{Visible: c.Debug.Hud},
	}
}
