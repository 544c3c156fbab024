package toonscroll

import "math"

// SectionState is the page section the user last scrolled to.
type SectionState struct {
	Current int
}

type SectionModule struct{}

func (SectionModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&SectionState{})
	app.UseSystem(
		System(sectionSystem).
			InStage(Update),
	)
}

// SectionIndex is the section under scroll offset scrollY, clamped to
// [0, count-1]. A viewport without height is always in section 0.
func SectionIndex(scrollY, viewportHeight float64, count int) int {
	if viewportHeight <= 0 || count <= 0 {
		return 0
	}
	idx := int(math.Round(scrollY / viewportHeight))
	return max(0, min(idx, count-1))
}

// sectionSystem starts one rotation tween on the mesh of every newly reached
// section. Running tweens are left alone.
func sectionSystem(input *Input, state *SectionState, layout *SceneLayout, cmd *Commands) {
	for _, scrollY := range input.ScrollEvents {
		next := SectionIndex(scrollY, float64(input.ViewportHeight), layout.Sections)
		if next == state.Current {
			continue
		}
		state.Current = next
		cmd.Logger().Debugf("Section %d", next)

		MakeQuery1[SectionComponent](cmd).Map(func(eid EntityId, section *SectionComponent) bool {
			if section.Index != next {
				return true
			}
			StartRotationTween(cmd, eid, layout.TransitionDelta, layout.TransitionDuration, layout.TransitionEase)
			return false
		})
	}
}
