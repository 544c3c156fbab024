package core

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const atlasSize = 512

type TextVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

// TextItem is one block of HUD text. Position is the top-left corner in
// framebuffer pixels.
type TextItem struct {
	Text     string
	Position [2]float32
	Scale    float32
	Color    [4]float32
}

type glyphInfo struct {
	uvMin [2]float32
	uvMax [2]float32
	size  [2]float32
	off   [2]float32
	adv   float32
}

// TextRenderer rasterises printable ASCII into a single alpha atlas and
// turns text items into textured quads.
type TextRenderer struct {
	Atlas  *image.Alpha
	glyphs map[rune]glyphInfo
	face   font.Face
}

// NewDefaultTextRenderer uses the Go Mono font bundled with x/image, so
// padded text lines up in columns.
func NewDefaultTextRenderer(size float64) (*TextRenderer, error) {
	return NewTextRenderer(gomono.TTF, size)
}

func NewTextRenderer(ttf []byte, size float64) (*TextRenderer, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}

	tr := &TextRenderer{
		Atlas:  image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize)),
		glyphs: make(map[rune]glyphInfo),
		face:   face,
	}
	tr.packGlyphs()
	return tr, nil
}

func (tr *TextRenderer) packGlyphs() {
	x, y, rowHeight := 2, 2, 0

	for r := rune(32); r < 127; r++ {
		bounds, mask, maskp, adv, ok := tr.face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		w, h := bounds.Dx(), bounds.Dy()

		if x+w >= atlasSize {
			x = 2
			y += rowHeight + 4
			rowHeight = 0
		}
		if y+h >= atlasSize {
			return
		}

		draw.Draw(tr.Atlas, image.Rect(x, y, x+w, y+h), mask, maskp, draw.Src)

		tr.glyphs[r] = glyphInfo{
			uvMin: [2]float32{float32(x) / atlasSize, float32(y) / atlasSize},
			uvMax: [2]float32{float32(x+w) / atlasSize, float32(y+h) / atlasSize},
			size:  [2]float32{float32(w), float32(h)},
			off:   [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			adv:   float32(adv) / 64,
		}

		x += w + 4
		rowHeight = max(rowHeight, h)
	}
}

// HasGlyph reports whether r made it into the atlas.
func (tr *TextRenderer) HasGlyph(r rune) bool {
	_, ok := tr.glyphs[r]
	return ok
}

// BuildVertices lays out items as two triangles per glyph in clip space.
func (tr *TextRenderer) BuildVertices(items []TextItem, screenW, screenH int) []TextVertex {
	if screenW <= 0 || screenH <= 0 {
		return nil
	}
	sw, sh := float32(screenW), float32(screenH)
	metrics := tr.face.Metrics()
	ascent := float32(metrics.Ascent.Ceil())
	lineHeight := float32(metrics.Height.Ceil())

	vertices := make([]TextVertex, 0, len(items)*6*16)
	for _, item := range items {
		scale := item.Scale
		if scale == 0 {
			scale = 1
		}
		penX := item.Position[0]
		penY := item.Position[1] + ascent*scale

		for _, r := range item.Text {
			if r == '\n' {
				penX = item.Position[0]
				penY += lineHeight * scale
				continue
			}
			g, ok := tr.glyphs[r]
			if !ok {
				continue
			}

			x0 := (penX+g.off[0]*scale)/sw*2 - 1
			y0 := 1 - (penY+g.off[1]*scale)/sh*2
			x1 := (penX+(g.off[0]+g.size[0])*scale)/sw*2 - 1
			y1 := 1 - (penY+(g.off[1]+g.size[1])*scale)/sh*2

			tl := TextVertex{Pos: [2]float32{x0, y0}, UV: g.uvMin, Color: item.Color}
			tr_ := TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.uvMax[0], g.uvMin[1]}, Color: item.Color}
			bl := TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.uvMin[0], g.uvMax[1]}, Color: item.Color}
			br := TextVertex{Pos: [2]float32{x1, y1}, UV: g.uvMax, Color: item.Color}
			vertices = append(vertices, tl, tr_, bl, tr_, br, bl)

			penX += g.adv * scale
		}
	}
	return vertices
}

// MeasureText returns the width of the widest line and the total height.
func (tr *TextRenderer) MeasureText(text string, scale float32) (float32, float32) {
	lineHeight := float32(tr.face.Metrics().Height.Ceil())

	var widest, current float32
	lines := 1
	for _, r := range text {
		if r == '\n' {
			widest = max(widest, current)
			current = 0
			lines++
			continue
		}
		if g, ok := tr.glyphs[r]; ok {
			current += g.adv * scale
		}
	}
	return max(widest, current), lineHeight * scale * float32(lines)
}

func (tr *TextRenderer) LineHeight(scale float32) float32 {
	return float32(tr.face.Metrics().Height.Ceil()) * scale
}
