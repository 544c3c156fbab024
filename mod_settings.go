package toonscroll

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

var ErrInvalidColor = errors.New("invalid color")

// Settings holds the values that can be tweaked while the scene runs. It is
// owned by the frame loop; other goroutines go through Queue.
type Settings struct {
	materialColor colorful.Color
	materialHex   string
	subscribers   []func(colorful.Color)

	pending chan string
}

func NewSettings(materialColor string) (*Settings, error) {
	s := &Settings{pending: make(chan string, 8)}
	c, err := parseHexColor(materialColor)
	if err != nil {
		return nil, err
	}
	s.materialColor = c
	s.materialHex = c.Hex()
	return s, nil
}

func (s *Settings) MaterialColor() colorful.Color {
	return s.materialColor
}

// MaterialColorHex is the committed colour as lowercase #rrggbb.
func (s *Settings) MaterialColorHex() string {
	return s.materialHex
}

// Subscribe registers fn to be called on every committed colour change.
// Subscribers run synchronously in registration order.
func (s *Settings) Subscribe(fn func(colorful.Color)) {
	s.subscribers = append(s.subscribers, fn)
}

// SetMaterialColor commits a new colour and notifies subscribers. Committing
// the current colour again does nothing.
func (s *Settings) SetMaterialColor(hex string) error {
	c, err := parseHexColor(hex)
	if err != nil {
		return err
	}
	if c.Hex() == s.materialHex {
		return nil
	}
	s.materialColor = c
	s.materialHex = c.Hex()
	for _, fn := range s.subscribers {
		fn(c)
	}
	return nil
}

// Queue hands a colour over from another goroutine. It is committed by the
// frame loop at the start of the next frame. Returns false if the queue is full.
func (s *Settings) Queue(hex string) bool {
	select {
	case s.pending <- hex:
		return true
	default:
		return false
	}
}

func parseHexColor(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w %q", ErrInvalidColor, hex)
	}
	return c, nil
}

type SettingsModule struct {
	InitialColor string
	// WatchPath is a TOML file whose material_color is applied whenever the
	// file is written. Empty disables watching.
	WatchPath string
}

func (mod SettingsModule) Install(app *App, cmd *Commands) {
	initial := mod.InitialColor
	if initial == "" {
		initial = DefaultSceneDef().MaterialColor
	}
	settings, err := NewSettings(initial)
	if err != nil {
		app.Logger().Warnf("Settings: %v, using %s", err, DefaultSceneDef().MaterialColor)
		settings, _ = NewSettings(DefaultSceneDef().MaterialColor)
	}
	cmd.AddResources(settings)

	if mod.WatchPath != "" {
		if err := watchSettingsFile(app, settings, mod.WatchPath); err != nil {
			app.Logger().Warnf("Settings file %s not watched: %v", mod.WatchPath, err)
		}
	}

	app.UseSystem(
		System(settingsDrainSystem).
			InStage(PreUpdate),
	)
}

func settingsDrainSystem(settings *Settings, cmd *Commands) {
	for {
		select {
		case hex := <-settings.pending:
			if err := settings.SetMaterialColor(hex); err != nil {
				cmd.Logger().Warnf("Settings: %v", err)
				continue
			}
			cmd.Logger().Debugf("Material color is now %s", settings.MaterialColorHex())
		default:
			return
		}
	}
}

type settingsFile struct {
	MaterialColor string `toml:"material_color"`
}

// readSettingsFile returns the material colour from a settings file, or "" if
// the file does not set one.
func readSettingsFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var f settingsFile
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return f.MaterialColor, nil
}

// watchSettingsFile applies the file once, then follows it. The directory is
// watched rather than the file so editors that replace the file on save are
// still seen.
func watchSettingsFile(app *App, settings *Settings, path string) error {
	path = filepath.Clean(path)
	if hex, err := readSettingsFile(path); err == nil && hex != "" {
		settings.Queue(hex)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}

	log := app.Logger()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				hex, err := readSettingsFile(path)
				if err != nil {
					log.Warnf("Settings file: %v", err)
					continue
				}
				if hex != "" && !settings.Queue(hex) {
					log.Warnf("Settings file: update dropped, queue full")
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("Settings watcher: %v", err)
			}
		}
	}()

	app.OnShutdown(func() {
		close(done)
		watcher.Close()
	})
	log.Infof("Watching %s for settings", path)
	return nil
}
