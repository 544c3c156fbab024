package toonscroll

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_FrameContents(t *testing.T) {
	ts := newTestScene(t, nil)
	ts.step(0.016)

	require.Equal(t, 1, ts.renderer.Frames)
	frame := ts.renderer.Last
	assert.Equal(t, uint64(0), frame.Index)
	assert.Len(t, frame.Meshes, 3)
	require.Len(t, frame.Points, 1)
	assert.Len(t, frame.Points[0].Positions, 200)
	assert.InDelta(t, 0.03, frame.Points[0].Size, 1e-7)
	assert.True(t, frame.Points[0].Attenuate)

	s := float32(1 / math.Sqrt2)
	assert.InDelta(t, s, frame.Light.Direction[0], 1e-6)
	assert.InDelta(t, s, frame.Light.Direction[1], 1e-6)
	assert.InDelta(t, 0, frame.Light.Direction[2], 1e-6)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, frame.Light.Color)

	bg := DefaultSceneDef().ClearColor
	c, err := parseHexColor(bg)
	require.NoError(t, err)
	assert.Equal(t, [4]float64{c.R, c.G, c.B, 1}, frame.ClearColor)
}

func TestRender_CameraAspectFollowsViewport(t *testing.T) {
	ts := newTestScene(t, nil)
	ts.step(0.016)
	assert.InDelta(t, 1280.0/720.0, Resource[RenderState](ts.app).Camera().Aspect, 1e-6)

	ts.input.Resize(600, 600, 1200, 1200)
	ts.step(0.016)

	assert.InDelta(t, 1, Resource[RenderState](ts.app).Camera().Aspect, 1e-6)
	assert.Equal(t, 1200, ts.renderer.Width)
	assert.Equal(t, 1200, ts.renderer.Height)
}

func TestRender_ErrorIsLoggedAndLoopContinues(t *testing.T) {
	ts := newTestScene(t, nil)
	ts.renderer.RenderErr = errors.New("device lost")

	ts.step(0.016)
	ts.step(0.016)

	assert.Equal(t, 0, ts.renderer.Frames)
	assert.Equal(t, uint64(0), Resource[RenderState](ts.app).FramesRendered)
	assert.Contains(t, ts.log.String(), "device lost")

	ts.renderer.RenderErr = nil
	ts.step(0.016)
	assert.Equal(t, 1, ts.renderer.Frames)
}

func TestRender_HeadlessRunReleases(t *testing.T) {
	ts := newTestScene(t, nil)

	err := ts.app.Run(context.Background(), LimitTicks(TickSourceFunc(func(ctx context.Context) error {
		ts.clock.Advance(1.0 / 60)
		return nil
	}), 10))

	require.NoError(t, err)
	assert.Equal(t, 10, ts.renderer.Frames)
	assert.True(t, ts.renderer.Released)
}

func TestEnsureSingleRenderer_SameNameTwice(t *testing.T) {
	app := newApp()
	ensureSingleRenderer(app, RendererHeadless)
	assert.NotPanics(t, func() { ensureSingleRenderer(app, RendererHeadless) })
	assert.Panics(t, func() { ensureSingleRenderer(app, RendererWGPU) })
}
