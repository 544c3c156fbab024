package toonscroll

import "math"

// CameraRigModule moves the camera with the page and eases its parent group
// towards the cursor.
type CameraRigModule struct{}

func (CameraRigModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(cameraScrollSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(parallaxSystem).
			InStage(Update),
	)
}

// CameraScrollY is the camera height for a scroll offset: one gutter down per
// viewport scrolled.
func CameraScrollY(scrollY, viewportHeight float64, gutter float32) float32 {
	if viewportHeight <= 0 {
		return 0
	}
	return float32(-scrollY/viewportHeight) * gutter
}

func cameraScrollSystem(input *Input, layout *SceneLayout, cmd *Commands) {
	y := CameraScrollY(input.ScrollY, float64(input.ViewportHeight), layout.Gutter)
	MakeQuery2[CameraComponent, TransformComponent](cmd).Map(func(eid EntityId, _ *CameraComponent, tr *TransformComponent) bool {
		tr.Position[1] = y
		return true
	})
}

// parallaxSystem covers Smoothing*dt of the remaining distance to the cursor
// each frame. The step is capped at the full distance so long frames land on
// the target instead of overshooting it.
func parallaxSystem(t *Time, input *Input, cmd *Commands) {
	MakeQuery2[ParallaxGroupComponent, TransformComponent](cmd).Map(func(eid EntityId, group *ParallaxGroupComponent, tr *TransformComponent) bool {
		k := float32(math.Min(float64(group.Smoothing)*t.Dt, 1))
		tr.Position[0] += (float32(input.Cursor.X) - tr.Position[0]) * k
		tr.Position[1] += (float32(input.Cursor.Y) - tr.Position[1]) * k
		return true
	})
}
