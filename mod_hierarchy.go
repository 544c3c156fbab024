package toonscroll

type HierarchyModule struct{}

func (HierarchyModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(transformHierarchySystem).
			InStage(PostUpdate),
	)
}

// maxHierarchyDepth bounds how many parent links a world matrix can follow.
const maxHierarchyDepth = 8

func transformHierarchySystem(cmd *Commands) {
	// Every entity starts from its own local matrix; roots are done after this.
	MakeQuery2[TransformComponent, WorldTransform](cmd).Map(func(eid EntityId, tr *TransformComponent, world *WorldTransform) bool {
		world.Matrix = tr.local().ObjectToWorld()
		return true
	})

	// Children pick up their parent's world matrix. Each pass settles one more
	// level of the tree, so stop as soon as nothing moves.
	for pass := 0; pass < maxHierarchyDepth; pass++ {
		changed := false
		MakeQuery3[TransformComponent, Parent, WorldTransform](cmd).Map(func(eid EntityId, tr *TransformComponent, parent *Parent, world *WorldTransform) bool {
			parentWorld := GetComponent[WorldTransform](cmd, parent.Entity)
			if parentWorld == nil {
				return true
			}
			m := parentWorld.Matrix.Mul4(tr.local().ObjectToWorld())
			if !m.ApproxEqual(world.Matrix) {
				world.Matrix = m
				changed = true
			}
			return true
		})
		if !changed {
			break
		}
	}
}
