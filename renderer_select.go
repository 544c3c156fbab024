package toonscroll

import "github.com/gekko3d/toonscroll/render/core"

// RendererName identifies a concrete renderer.
type RendererName string

const (
	RendererWGPU     RendererName = "wgpu"
	RendererHeadless RendererName = "headless"
)

// SceneRenderer draws finished frames. Resize takes framebuffer pixels.
type SceneRenderer interface {
	Resize(width, height int) error
	Render(frame *core.Frame) error
	Release()
}

// UseRenderer installs r as the app's only renderer.
//
//	NewAppBuilder().UseModule(...).UseRenderer(RendererWGPU, gpuRenderer)
func (b *AppBuilder) UseRenderer(name RendererName, r SceneRenderer) *AppBuilder {
	return b.UseModule(RenderModule{Name: name, Renderer: r})
}

// HeadlessRenderer keeps the frames it is given instead of drawing them.
type HeadlessRenderer struct {
	Frames    int
	Last      *core.Frame
	Width     int
	Height    int
	Resizes   int
	Released  bool
	RenderErr error
}

func (h *HeadlessRenderer) Resize(width, height int) error {
	h.Width, h.Height = width, height
	h.Resizes++
	return nil
}

func (h *HeadlessRenderer) Render(frame *core.Frame) error {
	if h.RenderErr != nil {
		return h.RenderErr
	}
	h.Frames++
	last := *frame
	h.Last = &last
	return nil
}

func (h *HeadlessRenderer) Release() {
	h.Released = true
}
