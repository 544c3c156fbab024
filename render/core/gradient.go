package core

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// RampWidth is the texel count of every gradient ramp handed to the GPU.
const RampWidth = 256

// GradientRamp is a one-row lookup table indexed by diffuse irradiance.
// A 3-texel source image ends up as three flat bands, which is what gives
// toon shading its stepped look.
type GradientRamp struct {
	Texels []uint8 // RampWidth RGBA texels
}

// LoadGradient reads a gradient image from disk.
func LoadGradient(path string) (*GradientRamp, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gradient %q: %w", path, err)
	}
	defer f.Close()

	ramp, err := DecodeGradient(f)
	if err != nil {
		return nil, fmt.Errorf("gradient %q: %w", path, err)
	}
	return ramp, nil
}

// DecodeGradient decodes any registered image format and resamples its first
// row to RampWidth texels with nearest-neighbour filtering.
func DecodeGradient(r io.Reader) (*GradientRamp, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return NewGradientRamp(src), nil
}

func NewGradientRamp(src image.Image) *GradientRamp {
	b := src.Bounds()
	row := image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+1)

	dst := image.NewRGBA(image.Rect(0, 0, RampWidth, 1))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, row, draw.Src, nil)

	return &GradientRamp{Texels: dst.Pix}
}

// At returns the texel a shader would sample at u in [0, 1].
func (g *GradientRamp) At(u float32) [4]uint8 {
	i := int(u * RampWidth)
	i = min(max(i, 0), RampWidth-1)
	p := g.Texels[i*4 : i*4+4]
	return [4]uint8{p[0], p[1], p[2], p[3]}
}
