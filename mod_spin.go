package toonscroll

type SpinModule struct{}

func (SpinModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(spinSystem).
			InStage(Update),
	)
}

func spinSystem(t *Time, cmd *Commands) {
	dt := float32(t.Dt)
	MakeQuery2[SpinComponent, TransformComponent](cmd).Map(func(eid EntityId, spin *SpinComponent, tr *TransformComponent) bool {
		tr.Rotation = tr.Rotation.Add(spin.Rate.Mul(dt))
		return true
	})
}
