package toonscroll

// Commands is the handle systems use to touch the world. Structural changes
// (spawning, despawning, adding components) are buffered and applied when the
// current stage finishes, so queries in flight never see a half-edited archetype.
type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) AddEntity(components ...any) EntityId {
	eid := cmd.app.ecs.nextEntityId()
	cmd.app.pendingAdditions = append(cmd.app.pendingAdditions, pendingAdd{
		eid:        eid,
		components: components,
	})
	return eid
}

func (cmd *Commands) AddComponents(entityId EntityId, components ...any) {
	cmd.app.pendingCompAdds = append(cmd.app.pendingCompAdds, pendingCompAdd{
		eid:        entityId,
		components: components,
	})
}

func (cmd *Commands) RemoveEntity(entityId EntityId) {
	cmd.app.pendingRemovals = append(cmd.app.pendingRemovals, entityId)
}

// Logger is a shortcut for systems that take *Commands but want to log.
func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}

// Stop asks the run loop to finish after the current frame.
func (cmd *Commands) Stop() {
	cmd.app.Stop()
}
