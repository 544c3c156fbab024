package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/toonscroll/render/core"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

// Renderer draws core.Frames into a GLFW window through WebGPU.
type Renderer struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	DepthTexture *wgpu.Texture
	DepthView    *wgpu.TextureView

	NearestSampler *wgpu.Sampler
	LinearSampler  *wgpu.Sampler

	Mesh   *MeshPass
	Points *PointsPass
	Text   *TextPass
}

// New creates a device and a surface on window. Any failure here means the
// window cannot be drawn to at all.
func New(window *glfw.Window, textRenderer *core.TextRenderer) (*Renderer, error) {
	r := &Renderer{}
	if err := r.init(window, textRenderer); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) init(window *glfw.Window, textRenderer *core.TextRenderer) error {
	r.Instance = wgpu.CreateInstance(nil)
	r.Surface = r.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))
	if r.Surface == nil {
		return errors.New("create surface")
	}

	var err error
	r.Adapter, err = r.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: r.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}

	r.Device, err = r.Adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	r.Queue = r.Device.GetQueue()

	width, height := window.GetFramebufferSize()
	caps := r.Surface.GetCapabilities(r.Adapter)
	if len(caps.Formats) == 0 {
		return errors.New("surface reports no formats")
	}
	r.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      PickSurfaceFormat(caps.Formats),
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	r.Surface.Configure(r.Adapter, r.Device, r.Config)

	if err := r.setupDepth(); err != nil {
		return err
	}

	r.NearestSampler, err = r.Device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		MinFilter:     wgpu.FilterModeNearest,
		MagFilter:     wgpu.FilterModeNearest,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("create gradient sampler: %w", err)
	}
	r.LinearSampler, err = r.Device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("create text sampler: %w", err)
	}

	if r.Mesh, err = NewMeshPass(r.Device, r.Config.Format, r.NearestSampler); err != nil {
		return fmt.Errorf("toon pass: %w", err)
	}
	if r.Points, err = NewPointsPass(r.Device, r.Config.Format); err != nil {
		return fmt.Errorf("points pass: %w", err)
	}
	if textRenderer != nil {
		if r.Text, err = NewTextPass(r.Device, r.Config.Format, r.LinearSampler, textRenderer); err != nil {
			return fmt.Errorf("text pass: %w", err)
		}
	}
	return nil
}

// PickSurfaceFormat prefers a plain 8-bit format so colours reach the screen
// as authored, without an extra sRGB encode.
func PickSurfaceFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8Unorm || f == wgpu.TextureFormatRGBA8Unorm {
			return f
		}
	}
	return formats[0]
}

func (r *Renderer) setupDepth() error {
	if r.DepthView != nil {
		r.DepthView.Release()
		r.DepthView = nil
	}
	if r.DepthTexture != nil {
		r.DepthTexture.Release()
		r.DepthTexture = nil
	}

	var err error
	r.DepthTexture, err = r.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth",
		Size:          wgpu.Extent3D{Width: r.Config.Width, Height: r.Config.Height, DepthOrArrayLayers: 1},
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	r.DepthView, err = r.DepthTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create depth view: %w", err)
	}
	return nil
}

// Resize reconfigures the surface for a new framebuffer size. A zero size
// (minimised window) is ignored; the old surface is kept until a real size
// arrives.
func (r *Renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 || r.Config == nil {
		return nil
	}
	if r.Config.Width == uint32(width) && r.Config.Height == uint32(height) {
		return nil
	}
	r.Config.Width = uint32(width)
	r.Config.Height = uint32(height)
	r.Surface.Configure(r.Adapter, r.Device, r.Config)
	return r.setupDepth()
}

func (r *Renderer) Render(frame *core.Frame) error {
	if err := r.Mesh.Prepare(r.Queue, frame); err != nil {
		return fmt.Errorf("prepare meshes: %w", err)
	}
	if err := r.Points.Prepare(r.Queue, frame, r.Config.Width, r.Config.Height); err != nil {
		return fmt.Errorf("prepare points: %w", err)
	}
	if r.Text != nil {
		if err := r.Text.Prepare(r.Queue, frame.Text, int(r.Config.Width), int(r.Config.Height)); err != nil {
			return fmt.Errorf("prepare text: %w", err)
		}
	}

	nextTexture, err := r.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := r.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: frame.ClearColor[0],
				G: frame.ClearColor[1],
				B: frame.ClearColor[2],
				A: frame.ClearColor[3],
			},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.DepthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})
	r.Mesh.Draw(pass)
	r.Points.Draw(pass)
	if r.Text != nil {
		r.Text.Draw(pass)
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()

	r.Queue.Submit(cmd)
	r.Surface.Present()
	return nil
}

// Release frees GPU objects in reverse creation order. Safe on a partially
// initialised renderer.
func (r *Renderer) Release() {
	if r.Text != nil {
		r.Text.Release()
		r.Text = nil
	}
	if r.Points != nil {
		r.Points.Release()
		r.Points = nil
	}
	if r.Mesh != nil {
		r.Mesh.Release()
		r.Mesh = nil
	}
	if r.LinearSampler != nil {
		r.LinearSampler.Release()
		r.LinearSampler = nil
	}
	if r.NearestSampler != nil {
		r.NearestSampler.Release()
		r.NearestSampler = nil
	}
	if r.DepthView != nil {
		r.DepthView.Release()
		r.DepthView = nil
	}
	if r.DepthTexture != nil {
		r.DepthTexture.Release()
		r.DepthTexture = nil
	}
	if r.Device != nil {
		r.Device.Release()
		r.Device = nil
	}
	if r.Adapter != nil {
		r.Adapter.Release()
		r.Adapter = nil
	}
	if r.Surface != nil {
		r.Surface.Release()
		r.Surface = nil
	}
	if r.Instance != nil {
		r.Instance.Release()
		r.Instance = nil
	}
}

// asBytes views a slice of plain-old-data values as raw bytes for upload.
func asBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}

func newBuffer(device *wgpu.Device, label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	return device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
}
