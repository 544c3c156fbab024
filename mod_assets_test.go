package toonscroll

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/toonscroll/render/core"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetServer_SharedMaterial(t *testing.T) {
	server := NewAssetServer()
	id := server.AddMaterial(MaterialAsset{Kind: MaterialToon, Color: colorful.Color{R: 1}})

	server.Material(id).Color = colorful.Color{B: 1}

	assert.Equal(t, [4]float32{0, 0, 1, 1}, server.Material(id).RGBA())
}

func TestAssetServer_IdsAreUnique(t *testing.T) {
	server := NewAssetServer()
	g := core.NewCone(1, 2, 8)
	a := server.AddGeometry(g)
	b := server.AddGeometry(g)

	assert.NotEqual(t, a, b)
	assert.Same(t, g, server.Geometry(a))
	assert.Nil(t, server.Geometry("missing"))
}

func TestAssetServer_PointCloud(t *testing.T) {
	server := NewAssetServer()
	id := server.AddPointCloud([][3]float32{{1, 2, 3}})

	require.NotNil(t, server.PointCloud(id))
	assert.Len(t, server.PointCloud(id).Positions, 1)
}

func TestAssetServer_LoadGradient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ramp.png")
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	for x := range 3 {
		img.SetGray(x, 0, color.Gray{Y: uint8(x * 100)})
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	server := NewAssetServer()
	id, err := server.LoadGradient(path)
	require.NoError(t, err)
	require.NotNil(t, server.Gradient(id))
	assert.Nil(t, server.Gradient(""))
}

func TestAssetServer_LoadGradientMissing(t *testing.T) {
	server := NewAssetServer()
	id, err := server.LoadGradient(filepath.Join(t.TempDir(), "nope.jpg"))

	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, id)
}
