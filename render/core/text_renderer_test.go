package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextRendererAtlas(t *testing.T) {
	tr, err := NewDefaultTextRenderer(16)
	require.NoError(t, err)

	for _, r := range "#0123456789abcdef HUD:" {
		assert.True(t, tr.HasGlyph(r), "missing glyph %q", r)
	}
	assert.False(t, tr.HasGlyph('é'))
}

func TestTextRendererBuildVertices(t *testing.T) {
	tr, err := NewDefaultTextRenderer(16)
	require.NoError(t, err)

	verts := tr.BuildVertices([]TextItem{{Text: "ab\ncd", Position: [2]float32{10, 10}, Scale: 1, Color: [4]float32{1, 1, 1, 1}}}, 800, 600)
	// Four visible glyphs, the newline only moves the pen.
	require.Len(t, verts, 4*6)

	for _, v := range verts {
		assert.True(t, v.Pos[0] >= -1 && v.Pos[0] <= 1)
		assert.True(t, v.Pos[1] >= -1 && v.Pos[1] <= 1)
		assert.Equal(t, [4]float32{1, 1, 1, 1}, v.Color)
	}
	// Second line sits lower on screen.
	assert.Less(t, verts[12].Pos[1], verts[0].Pos[1])
}

func TestTextRendererZeroScreen(t *testing.T) {
	tr, err := NewDefaultTextRenderer(16)
	require.NoError(t, err)
	assert.Empty(t, tr.BuildVertices([]TextItem{{Text: "x"}}, 0, 0))
}

func TestMeasureText(t *testing.T) {
	tr, err := NewDefaultTextRenderer(16)
	require.NoError(t, err)

	w1, h1 := tr.MeasureText("abc", 1)
	w2, h2 := tr.MeasureText("abc\nabc", 1)
	assert.Greater(t, w1, float32(0))
	assert.InDelta(t, w1, w2, 1e-4)
	assert.InDelta(t, 2*h1, h2, 1e-4)
	assert.InDelta(t, h1, tr.LineHeight(1), 1e-4)
}

func TestNewTextRendererBadFont(t *testing.T) {
	_, err := NewTextRenderer([]byte("nope"), 12)
	assert.Error(t, err)
}

func TestDefaultTextRendererIsMonospace(t *testing.T) {
	tr, err := NewDefaultTextRenderer(16)
	require.NoError(t, err)

	narrow, _ := tr.MeasureText("iiii", 1)
	wide, _ := tr.MeasureText("WWWW", 1)
	bar, _ := tr.MeasureText("+--+", 1)
	assert.Equal(t, wide, narrow)
	assert.Equal(t, wide, bar)
}
