package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gekko3d/toonscroll"
	"github.com/gekko3d/toonscroll/render/core"
	"github.com/gekko3d/toonscroll/render/gpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// GLFW must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "toonscroll:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "TOML config file")
	color := flag.String("color", "", "initial material color, #rrggbb")
	debug := flag.Bool("debug", false, "debug logging and HUD")
	headless := flag.Bool("headless", false, "run without a window")
	frames := flag.Int("frames", 0, "stop after this many frames, 0 runs until closed")
	settingsPath := flag.String("settings", "", "TOML settings file to watch for material_color")
	flag.Parse()

	cfg := toonscroll.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = toonscroll.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	if *color != "" {
		cfg.Debug.MaterialColor = *color
	}
	if *settingsPath != "" {
		cfg.Debug.SettingsPath = *settingsPath
	}
	if *debug {
		cfg.Debug.LogDebug = true
		cfg.Debug.Hud = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	builder := toonscroll.NewAppBuilder().
		UseModule(toonscroll.LoggingModule{Prefix: "toonscroll", Debug: cfg.Debug.LogDebug}).
		UseModule(cfg.SceneModules(nil)...)

	if *headless {
		app := builder.
			UseModule(cfg.RenderModules(toonscroll.RendererHeadless, &toonscroll.HeadlessRenderer{})...).
			Build()
		return app.Run(ctx, toonscroll.LimitTicks(&toonscroll.IntervalTicks{Interval: time.Second / 60}, *frames))
	}

	var setup releaser
	defer setup.release()

	window, err := toonscroll.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	if err != nil {
		return err
	}
	setup.add(func() {
		window.Destroy()
		glfw.Terminate()
	})
	text, err := core.NewDefaultTextRenderer(16)
	if err != nil {
		return err
	}
	renderer, err := gpu.New(window, text)
	if err != nil {
		return fmt.Errorf("%w: %w", toonscroll.ErrRenderTarget, err)
	}
	setup.add(renderer.Release)

	app := builder.
		UseModule(toonscroll.WindowModule{Window: window}).
		UseModule(cfg.RenderModules(toonscroll.RendererWGPU, renderer)...).
		Build()
	// The app's shutdown hooks own the window and renderer from here.
	setup.keep()

	ticks := toonscroll.TickSource(toonscroll.WindowTicks{Window: window})
	err = app.Run(ctx, toonscroll.LimitTicks(ticks, *frames))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// releaser undoes setup steps in reverse order unless keep is called first.
type releaser struct {
	undo []func()
}

func (r *releaser) add(f func()) {
	r.undo = append(r.undo, f)
}

func (r *releaser) keep() {
	r.undo = nil
}

func (r *releaser) release() {
	for i := len(r.undo) - 1; i >= 0; i-- {
		r.undo[i]()
	}
	r.undo = nil
}
