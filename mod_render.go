package toonscroll

import (
	"github.com/gekko3d/toonscroll/render/core"
)

// RenderState is the render module's resource. Systems that run before the
// Render stage add HUD text to Text; it is consumed by the next frame drawn.
type RenderState struct {
	Name           RendererName
	Text           []core.TextItem
	FramesRendered uint64

	renderer SceneRenderer
	camera   *core.CameraState
}

// Camera is the camera used for the last frame, or nil before the first.
func (state *RenderState) Camera() *core.CameraState {
	return state.camera
}

type RenderModule struct {
	Name     RendererName
	Renderer SceneRenderer
}

func (mod RenderModule) Install(app *App, cmd *Commands) {
	if mod.Renderer == nil {
		panic("RenderModule: no renderer given")
	}
	ensureSingleRenderer(app, mod.Name)

	state := &RenderState{
		Name:     mod.Name,
		renderer: mod.Renderer,
	}
	cmd.AddResources(state)

	if input := Resource[Input](app); input != nil {
		if err := mod.Renderer.Resize(input.RenderSize()); err != nil {
			app.Logger().Errorf("Initial resize: %v", err)
		}
	}
	app.OnShutdown(mod.Renderer.Release)
	app.Logger().Infof("Renderer selected: %s", mod.Name)

	app.UseSystem(
		System(renderResizeSystem).
			InStage(PreRender),
	)
	app.UseSystem(
		System(renderSystem).
			InStage(Render),
	)
}

func renderResizeSystem(input *Input, state *RenderState, cmd *Commands) {
	if !input.Resized {
		return
	}
	w, h := input.RenderSize()
	if err := state.renderer.Resize(w, h); err != nil {
		cmd.Logger().Errorf("Resize to %dx%d: %v", w, h, err)
		return
	}
	cmd.Logger().Debugf("Resized to %dx%d (pixel ratio %.2f)", w, h, input.PixelRatio)
}

// renderSystem snapshots the world into a core.Frame and hands it to the
// renderer. Nothing is drawn until a camera exists.
func renderSystem(state *RenderState, input *Input, layout *SceneLayout, assets *AssetServer, cmd *Commands) {
	MakeQuery2[CameraComponent, WorldTransform](cmd).Map(func(eid EntityId, cam *CameraComponent, world *WorldTransform) bool {
		if state.camera == nil {
			state.camera = core.NewCameraState(cam.FovY, cam.Near, cam.Far)
		}
		state.camera.FovY, state.camera.Near, state.camera.Far = cam.FovY, cam.Near, cam.Far
		state.camera.World = world.Matrix
		return false
	})
	if state.camera == nil {
		return
	}
	state.camera.SetViewport(input.ViewportWidth, input.ViewportHeight)

	frame := core.Frame{
		Index:      state.FramesRendered,
		View:       state.camera.GetViewMatrix(),
		Projection: state.camera.GetProjectionMatrix(),
		ClearColor: layout.ClearColor,
		Text:       state.Text,
	}
	state.Text = nil

	MakeQuery2[MeshComponent, WorldTransform](cmd).Map(func(eid EntityId, mesh *MeshComponent, world *WorldTransform) bool {
		geometry := assets.Geometry(mesh.Geometry)
		material := assets.Material(mesh.Material)
		if geometry == nil || material == nil {
			return true
		}
		if frame.Gradient == nil {
			frame.Gradient = assets.Gradient(material.Gradient)
		}
		frame.Meshes = append(frame.Meshes, core.MeshDraw{
			Geometry: geometry,
			Model:    world.Matrix,
			Color:    material.RGBA(),
		})
		return true
	})

	MakeQuery2[ParticleFieldComponent, WorldTransform](cmd).Map(func(eid EntityId, field *ParticleFieldComponent, world *WorldTransform) bool {
		cloud := assets.PointCloud(field.Cloud)
		material := assets.Material(field.Material)
		if cloud == nil || material == nil {
			return true
		}
		frame.Points = append(frame.Points, core.PointsDraw{
			ID:        string(field.Cloud),
			Positions: cloud.Positions,
			Model:     world.Matrix,
			Color:     material.RGBA(),
			Size:      material.Size,
			Attenuate: material.Attenuate,
		})
		return true
	})

	MakeQuery2[LightComponent, WorldTransform](cmd).Map(func(eid EntityId, light *LightComponent, world *WorldTransform) bool {
		if light.Type != LightTypeDirectional {
			return true
		}
		frame.Light = light.gpuLight(world.Position())
		return false
	})

	if err := state.renderer.Render(&frame); err != nil {
		cmd.Logger().Errorf("Render frame %d: %v", frame.Index, err)
		return
	}
	state.FramesRendered++
}
