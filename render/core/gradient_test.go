package core

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeTone() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{40, 40, 40, 255})
	img.Set(1, 0, color.RGBA{128, 128, 128, 255})
	img.Set(2, 0, color.RGBA{255, 255, 255, 255})
	return img
}

func TestGradientKeepsHardBands(t *testing.T) {
	ramp := NewGradientRamp(threeTone())
	require.Len(t, ramp.Texels, RampWidth*4)

	assert.Equal(t, [4]uint8{40, 40, 40, 255}, ramp.At(0))
	assert.Equal(t, [4]uint8{40, 40, 40, 255}, ramp.At(0.3))
	assert.Equal(t, [4]uint8{128, 128, 128, 255}, ramp.At(0.5))
	assert.Equal(t, [4]uint8{255, 255, 255, 255}, ramp.At(0.7))
	assert.Equal(t, [4]uint8{255, 255, 255, 255}, ramp.At(1))
}

func TestGradientUsesFirstRow(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{10, 0, 0, 255})
	img.Set(1, 0, color.RGBA{20, 0, 0, 255})
	img.Set(0, 1, color.RGBA{99, 99, 99, 255})
	img.Set(1, 1, color.RGBA{99, 99, 99, 255})

	ramp := NewGradientRamp(img)
	assert.Equal(t, uint8(10), ramp.At(0.1)[0])
	assert.Equal(t, uint8(20), ramp.At(0.9)[0])
}

func TestLoadGradientPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, threeTone()))

	path := filepath.Join(t.TempDir(), "ramp.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	ramp, err := LoadGradient(path)
	require.NoError(t, err)
	assert.Equal(t, uint8(128), ramp.At(0.5)[0])
}

func TestLoadGradientMissingFile(t *testing.T) {
	_, err := LoadGradient(filepath.Join(t.TempDir(), "nope.jpg"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeGradientGarbage(t *testing.T) {
	_, err := DecodeGradient(bytes.NewReader([]byte("not an image")))
	assert.ErrorIs(t, err, image.ErrFormat)
}
