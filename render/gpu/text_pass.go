package gpu

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/toonscroll/render/core"
	"github.com/gekko3d/toonscroll/render/shaders"
)

// TextPass blends HUD text over the scene. Glyphs come from a single R8
// atlas uploaded once.
type TextPass struct {
	Pipeline *wgpu.RenderPipeline
	Device   *wgpu.Device
	Renderer *core.TextRenderer

	atlas       *wgpu.Texture
	atlasView   *wgpu.TextureView
	bindGroup   *wgpu.BindGroup
	vertices    *wgpu.Buffer
	vertexCount uint32
}

func NewTextPass(device *wgpu.Device, format wgpu.TextureFormat, sampler *wgpu.Sampler, tr *core.TextRenderer) (*TextPass, error) {
	p := &TextPass{Device: device, Renderer: tr}
	if err := p.setup(format, sampler); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

func (p *TextPass) setup(format wgpu.TextureFormat, sampler *wgpu.Sampler) error {
	w, h := p.Renderer.Atlas.Bounds().Dx(), p.Renderer.Atlas.Bounds().Dy()
	var err error
	p.atlas, err = p.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "TextAtlas",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("create atlas: %w", err)
	}
	p.Device.GetQueue().WriteTexture(p.atlas.AsImageCopy(), p.Renderer.Atlas.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(p.Renderer.Atlas.Stride),
		RowsPerImage: uint32(h),
	}, &wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1})

	p.atlasView, err = p.atlas.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create atlas view: %w", err)
	}

	shaderModule, err := p.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "TextShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.TextWGSL},
	})
	if err != nil {
		return err
	}
	defer shaderModule.Release()

	p.Pipeline, err = p.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "TextPipeline",
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(core.TextVertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		// Text is drawn last and ignores depth, but the pass has a depth
		// attachment so the pipeline must declare a matching format.
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: false,
			DepthCompare:      wgpu.CompareFunctionAlways,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create text pipeline: %w", err)
	}

	p.bindGroup, err = p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "TextBG",
		Layout: p.Pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: p.atlasView},
			{Binding: 1, Sampler: sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("create text bind group: %w", err)
	}
	return nil
}

func (p *TextPass) Prepare(queue *wgpu.Queue, items []core.TextItem, width, height int) error {
	p.vertexCount = 0
	if len(items) == 0 {
		return nil
	}
	vertices := p.Renderer.BuildVertices(items, width, height)
	if len(vertices) == 0 {
		return nil
	}

	data := asBytes(vertices)
	if p.vertices == nil || p.vertices.GetSize() < uint64(len(data)) {
		if p.vertices != nil {
			p.vertices.Release()
		}
		var err error
		p.vertices, err = newBuffer(p.Device, "TextVertices", uint64(len(data)), wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
		if err != nil {
			p.vertices = nil
			return fmt.Errorf("create text vertex buffer: %w", err)
		}
	}
	queue.WriteBuffer(p.vertices, 0, data)
	p.vertexCount = uint32(len(vertices))
	return nil
}

func (p *TextPass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.vertexCount == 0 {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.bindGroup, nil)
	pass.SetVertexBuffer(0, p.vertices, 0, p.vertices.GetSize())
	pass.Draw(p.vertexCount, 1, 0, 0)
}

func (p *TextPass) Release() {
	if p.vertices != nil {
		p.vertices.Release()
		p.vertices = nil
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
	if p.atlasView != nil {
		p.atlasView.Release()
		p.atlasView = nil
	}
	if p.atlas != nil {
		p.atlas.Release()
		p.atlas = nil
	}
}
