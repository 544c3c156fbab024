package gpu

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/toonscroll/render/core"
	"github.com/gekko3d/toonscroll/render/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneUniforms matches SceneUniforms in toon.wgsl.
type SceneUniforms struct {
	ViewProj   mgl32.Mat4
	LightDir   [4]float32
	LightColor [4]float32
	Params     [4]float32 // x: use_gradient
}

// ObjectUniforms matches ObjectUniforms in toon.wgsl.
type ObjectUniforms struct {
	Model     mgl32.Mat4
	NormalMat mgl32.Mat4
	Color     [4]float32
}

type meshBuffers struct {
	vertices   *wgpu.Buffer
	indices    *wgpu.Buffer
	indexCount uint32
}

type objectSlot struct {
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
}

type meshDraw struct {
	mesh *meshBuffers
	slot *objectSlot
}

// MeshPass draws toon-shaded triangle meshes with a depth test. All meshes
// share the scene bind group; each draw gets its own object uniform buffer.
type MeshPass struct {
	Pipeline *wgpu.RenderPipeline
	Device   *wgpu.Device

	sampler      *wgpu.Sampler
	sceneBuffer  *wgpu.Buffer
	sceneBG      *wgpu.BindGroup
	rampTexture  *wgpu.Texture
	rampView     *wgpu.TextureView
	gradient     *core.GradientRamp
	haveGradient bool

	meshes map[*core.Geometry]*meshBuffers
	slots  []*objectSlot
	draws  []meshDraw
}

func NewMeshPass(device *wgpu.Device, format wgpu.TextureFormat, sampler *wgpu.Sampler) (*MeshPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ToonShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ToonWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "ToonPipeline",
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(core.Vertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: depthTested(true),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	p := &MeshPass{
		Pipeline: pipeline,
		Device:   device,
		sampler:  sampler,
		meshes:   make(map[*core.Geometry]*meshBuffers),
	}

	p.sceneBuffer, err = newBuffer(device, "ToonSceneUniforms", uint64(unsafe.Sizeof(SceneUniforms{})),
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		p.Release()
		return nil, err
	}
	// Until a ramp shows up, the shader samples a white texel and ignores it.
	if err := p.uploadRamp(device.GetQueue(), []uint8{255, 255, 255, 255}, 1); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

func depthTested(write bool) *wgpu.DepthStencilState {
	keep := wgpu.StencilFaceState{
		Compare:     wgpu.CompareFunctionAlways,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationKeep,
		PassOp:      wgpu.StencilOperationKeep,
	}
	return &wgpu.DepthStencilState{
		Format:            depthFormat,
		DepthWriteEnabled: write,
		DepthCompare:      wgpu.CompareFunctionLess,
		StencilFront:      keep,
		StencilBack:       keep,
	}
}

func (p *MeshPass) uploadRamp(queue *wgpu.Queue, texels []uint8, width uint32) error {
	tex, err := p.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "GradientRamp",
		Size:          wgpu.Extent3D{Width: width, Height: 1, DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("create ramp texture: %w", err)
	}
	queue.WriteTexture(tex.AsImageCopy(), texels, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  width * 4,
		RowsPerImage: 1,
	}, &wgpu.Extent3D{Width: width, Height: 1, DepthOrArrayLayers: 1})

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("create ramp view: %w", err)
	}

	bg, err := p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "ToonSceneBG",
		Layout: p.Pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.sceneBuffer, Size: uint64(unsafe.Sizeof(SceneUniforms{}))},
			{Binding: 1, TextureView: view},
			{Binding: 2, Sampler: p.sampler},
		},
	})
	if err != nil {
		view.Release()
		tex.Release()
		return fmt.Errorf("create scene bind group: %w", err)
	}

	p.releaseRamp()
	p.rampTexture, p.rampView, p.sceneBG = tex, view, bg
	return nil
}

func (p *MeshPass) releaseRamp() {
	if p.sceneBG != nil {
		p.sceneBG.Release()
		p.sceneBG = nil
	}
	if p.rampView != nil {
		p.rampView.Release()
		p.rampView = nil
	}
	if p.rampTexture != nil {
		p.rampTexture.Release()
		p.rampTexture = nil
	}
}

// Prepare uploads everything the frame's meshes need. Geometry buffers are
// created on first sight and reused afterwards.
func (p *MeshPass) Prepare(queue *wgpu.Queue, frame *core.Frame) error {
	if frame.Gradient != nil && frame.Gradient != p.gradient {
		if err := p.uploadRamp(queue, frame.Gradient.Texels, core.RampWidth); err != nil {
			return err
		}
		p.gradient = frame.Gradient
		p.haveGradient = true
	}

	scene := SceneUniforms{
		ViewProj:   frame.ViewProjection(),
		LightDir:   frame.Light.Direction,
		LightColor: frame.Light.Color,
	}
	if p.haveGradient {
		scene.Params[0] = 1
	}
	queue.WriteBuffer(p.sceneBuffer, 0, asBytes([]SceneUniforms{scene}))

	p.draws = p.draws[:0]
	for i, m := range frame.Meshes {
		if m.Geometry == nil || len(m.Geometry.Indices) == 0 {
			continue
		}
		mesh, err := p.meshBuffers(queue, m.Geometry)
		if err != nil {
			return err
		}
		slot, err := p.slot(i)
		if err != nil {
			return err
		}
		obj := ObjectUniforms{
			Model:     m.Model,
			NormalMat: m.Model.Inv().Transpose(),
			Color:     m.Color,
		}
		queue.WriteBuffer(slot.buffer, 0, asBytes([]ObjectUniforms{obj}))
		p.draws = append(p.draws, meshDraw{mesh: mesh, slot: slot})
	}
	return nil
}

func (p *MeshPass) meshBuffers(queue *wgpu.Queue, g *core.Geometry) (*meshBuffers, error) {
	if mb, ok := p.meshes[g]; ok {
		return mb, nil
	}
	vertexBytes := asBytes(g.Vertices)
	indexBytes := asBytes(g.Indices)

	vb, err := newBuffer(p.Device, "MeshVertices", uint64(len(vertexBytes)), wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("create vertex buffer: %w", err)
	}
	ib, err := newBuffer(p.Device, "MeshIndices", uint64(len(indexBytes)), wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst)
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("create index buffer: %w", err)
	}
	queue.WriteBuffer(vb, 0, vertexBytes)
	queue.WriteBuffer(ib, 0, indexBytes)

	mb := &meshBuffers{vertices: vb, indices: ib, indexCount: uint32(len(g.Indices))}
	p.meshes[g] = mb
	return mb, nil
}

func (p *MeshPass) slot(i int) (*objectSlot, error) {
	for len(p.slots) <= i {
		buf, err := newBuffer(p.Device, "ToonObjectUniforms", uint64(unsafe.Sizeof(ObjectUniforms{})),
			wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
		if err != nil {
			return nil, fmt.Errorf("create object uniforms: %w", err)
		}
		bg, err := p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "ToonObjectBG",
			Layout: p.Pipeline.GetBindGroupLayout(1),
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: buf, Size: uint64(unsafe.Sizeof(ObjectUniforms{}))},
			},
		})
		if err != nil {
			buf.Release()
			return nil, fmt.Errorf("create object bind group: %w", err)
		}
		p.slots = append(p.slots, &objectSlot{buffer: buf, bindGroup: bg})
	}
	return p.slots[i], nil
}

func (p *MeshPass) Draw(pass *wgpu.RenderPassEncoder) {
	if len(p.draws) == 0 {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.sceneBG, nil)
	for _, d := range p.draws {
		pass.SetBindGroup(1, d.slot.bindGroup, nil)
		pass.SetVertexBuffer(0, d.mesh.vertices, 0, d.mesh.vertices.GetSize())
		pass.SetIndexBuffer(d.mesh.indices, wgpu.IndexFormatUint32, 0, d.mesh.indices.GetSize())
		pass.DrawIndexed(d.mesh.indexCount, 1, 0, 0, 0)
	}
}

func (p *MeshPass) Release() {
	for _, s := range p.slots {
		s.bindGroup.Release()
		s.buffer.Release()
	}
	p.slots = nil
	for _, mb := range p.meshes {
		mb.vertices.Release()
		mb.indices.Release()
	}
	p.meshes = map[*core.Geometry]*meshBuffers{}
	p.releaseRamp()
	if p.sceneBuffer != nil {
		p.sceneBuffer.Release()
		p.sceneBuffer = nil
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
}
