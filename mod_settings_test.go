package toonscroll

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_ColorReachesBothMaterials(t *testing.T) {
	ts := newTestScene(t, nil)
	settings := Resource[Settings](ts.app)
	assets := Resource[AssetServer](ts.app)
	layout := Resource[SceneLayout](ts.app)

	require.NoError(t, settings.SetMaterialColor("#ff8000"))

	toon := assets.Material(layout.ToonMaterial)
	points := assets.Material(layout.PointsMaterial)
	assert.Equal(t, "#ff8000", toon.Color.Hex())
	assert.Equal(t, toon.RGBA(), points.RGBA())

	ts.step(0.016)
	last := ts.renderer.Last
	require.NotEmpty(t, last.Meshes)
	require.NotEmpty(t, last.Points)
	for _, m := range last.Meshes {
		assert.Equal(t, last.Points[0].Color, m.Color)
	}
}

func TestSettings_SubscribersInOrder(t *testing.T) {
	settings, err := NewSettings("#84cee1")
	require.NoError(t, err)

	var calls []string
	settings.Subscribe(func(c colorful.Color) { calls = append(calls, "a "+c.Hex()) })
	settings.Subscribe(func(c colorful.Color) { calls = append(calls, "b "+c.Hex()) })

	require.NoError(t, settings.SetMaterialColor("#123456"))
	assert.Equal(t, []string{"a #123456", "b #123456"}, calls)
}

func TestSettings_SameValueIsNoop(t *testing.T) {
	settings, err := NewSettings("#84cee1")
	require.NoError(t, err)
	calls := 0
	settings.Subscribe(func(colorful.Color) { calls++ })

	require.NoError(t, settings.SetMaterialColor("#84CEE1"))
	assert.Zero(t, calls)
}

func TestSettings_ShortHex(t *testing.T) {
	settings, err := NewSettings("#84cee1")
	require.NoError(t, err)

	require.NoError(t, settings.SetMaterialColor("#fff"))
	assert.Equal(t, "#ffffff", settings.MaterialColorHex())
}

func TestSettings_InvalidColor(t *testing.T) {
	settings, err := NewSettings("#84cee1")
	require.NoError(t, err)
	calls := 0
	settings.Subscribe(func(colorful.Color) { calls++ })

	err = settings.SetMaterialColor("not-a-color")
	assert.ErrorIs(t, err, ErrInvalidColor)
	assert.Equal(t, "#84cee1", settings.MaterialColorHex())
	assert.Zero(t, calls)

	_, err = NewSettings("#12")
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestSettings_QueueDrainedOnFrame(t *testing.T) {
	ts := newTestScene(t, nil)
	settings := Resource[Settings](ts.app)

	require.True(t, settings.Queue("#00ff00"))
	require.True(t, settings.Queue("bogus"))
	assert.Equal(t, "#84cee1", settings.MaterialColorHex())

	ts.step(0.016)

	assert.Equal(t, "#00ff00", settings.MaterialColorHex())
	assert.Contains(t, ts.log.String(), "invalid color")
}

func TestReadSettingsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(`material_color = "#abcdef"`+"\n"), 0o644))

	hex, err := readSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#abcdef", hex)

	require.NoError(t, os.WriteFile(path, []byte("material_color = \n"), 0o644))
	_, err = readSettingsFile(path)
	assert.Error(t, err)
}

func TestSettings_WatchedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(`material_color = "#111111"`), 0o644))

	ts := newTestScene(t, func(cfg *Config) {
		cfg.Debug.SettingsPath = path
	})
	t.Cleanup(ts.app.shutdown)
	settings := Resource[Settings](ts.app)

	// The file is applied once at startup.
	ts.step(0.016)
	assert.Equal(t, "#111111", settings.MaterialColorHex())

	require.NoError(t, os.WriteFile(path, []byte(`material_color = "#222222"`), 0o644))
	assert.Eventually(t, func() bool {
		return len(settings.pending) > 0
	}, 5*time.Second, 10*time.Millisecond)

	ts.step(0.016)
	assert.Equal(t, "#222222", settings.MaterialColorHex())
}
