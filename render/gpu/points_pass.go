package gpu

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/toonscroll/render/core"
	"github.com/gekko3d/toonscroll/render/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

// PointsUniforms matches PointsUniforms in points.wgsl.
type PointsUniforms struct {
	ViewProj mgl32.Mat4
	Model    mgl32.Mat4
	Color    [4]float32
	Params   [4]float32 // size, attenuate, viewport width, viewport height
}

type pointCloud struct {
	instances *wgpu.Buffer
	count     uint32
}

type pointsDraw struct {
	cloud *pointCloud
	slot  *objectSlot
}

// PointsPass draws every point as a camera-facing quad, one instance per
// point, six vertices generated in the shader.
type PointsPass struct {
	Pipeline *wgpu.RenderPipeline
	Device   *wgpu.Device

	clouds map[string]*pointCloud
	slots  []*objectSlot
	draws  []pointsDraw
}

func NewPointsPass(device *wgpu.Device, format wgpu.TextureFormat) (*PointsPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "PointsShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.PointsWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "PointsPipeline",
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof([3]float32{})),
				StepMode:    wgpu.VertexStepModeInstance,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
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

	return &PointsPass{
		Pipeline: pipeline,
		Device:   device,
		clouds:   make(map[string]*pointCloud),
	}, nil
}

func (p *PointsPass) Prepare(queue *wgpu.Queue, frame *core.Frame, width, height uint32) error {
	p.draws = p.draws[:0]
	viewProj := frame.ViewProjection()

	for i, pd := range frame.Points {
		if len(pd.Positions) == 0 {
			continue
		}
		cloud, err := p.cloud(queue, pd)
		if err != nil {
			return err
		}
		slot, err := p.slot(i)
		if err != nil {
			return err
		}

		u := PointsUniforms{
			ViewProj: viewProj,
			Model:    pd.Model,
			Color:    pd.Color,
			Params:   [4]float32{pd.Size, 0, float32(width), float32(height)},
		}
		if pd.Attenuate {
			u.Params[1] = 1
		}
		queue.WriteBuffer(slot.buffer, 0, asBytes([]PointsUniforms{u}))
		p.draws = append(p.draws, pointsDraw{cloud: cloud, slot: slot})
	}
	return nil
}

func (p *PointsPass) cloud(queue *wgpu.Queue, pd core.PointsDraw) (*pointCloud, error) {
	if c, ok := p.clouds[pd.ID]; ok && c.count == uint32(len(pd.Positions)) {
		return c, nil
	} else if ok {
		c.instances.Release()
		delete(p.clouds, pd.ID)
	}

	data := asBytes(pd.Positions)
	buf, err := newBuffer(p.Device, "PointInstances", uint64(len(data)), wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("create point buffer: %w", err)
	}
	queue.WriteBuffer(buf, 0, data)

	c := &pointCloud{instances: buf, count: uint32(len(pd.Positions))}
	p.clouds[pd.ID] = c
	return c, nil
}

func (p *PointsPass) slot(i int) (*objectSlot, error) {
	for len(p.slots) <= i {
		buf, err := newBuffer(p.Device, "PointsUniforms", uint64(unsafe.Sizeof(PointsUniforms{})),
			wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
		if err != nil {
			return nil, fmt.Errorf("create points uniforms: %w", err)
		}
		bg, err := p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "PointsBG",
			Layout: p.Pipeline.GetBindGroupLayout(0),
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: buf, Size: uint64(unsafe.Sizeof(PointsUniforms{}))},
			},
		})
		if err != nil {
			buf.Release()
			return nil, fmt.Errorf("create points bind group: %w", err)
		}
		p.slots = append(p.slots, &objectSlot{buffer: buf, bindGroup: bg})
	}
	return p.slots[i], nil
}

func (p *PointsPass) Draw(pass *wgpu.RenderPassEncoder) {
	if len(p.draws) == 0 {
		return
	}
	pass.SetPipeline(p.Pipeline)
	for _, d := range p.draws {
		pass.SetBindGroup(0, d.slot.bindGroup, nil)
		pass.SetVertexBuffer(0, d.cloud.instances, 0, d.cloud.instances.GetSize())
		pass.Draw(6, d.cloud.count, 0, 0)
	}
}

func (p *PointsPass) Release() {
	for _, s := range p.slots {
		s.bindGroup.Release()
		s.buffer.Release()
	}
	p.slots = nil
	for _, c := range p.clouds {
		c.instances.Release()
	}
	p.clouds = map[string]*pointCloud{}
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
}
