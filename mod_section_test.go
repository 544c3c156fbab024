package toonscroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionIndex(t *testing.T) {
	const vh = 600.0
	assert.Equal(t, 0, SectionIndex(0, vh, 3))
	assert.Equal(t, 0, SectionIndex(299, vh, 3))
	assert.Equal(t, 1, SectionIndex(vh, vh, 3))
	assert.Equal(t, 2, SectionIndex(1.5*vh, vh, 3))
	assert.Equal(t, 2, SectionIndex(10*vh, vh, 3))
	assert.Equal(t, 0, SectionIndex(-vh, vh, 3))
	assert.Equal(t, 0, SectionIndex(500, 0, 3))
	assert.Equal(t, 0, SectionIndex(500, vh, 0))
}

func tweens(cmd *Commands) []TweenComponent {
	var out []TweenComponent
	MakeQuery1[TweenComponent](cmd).Map(func(eid EntityId, tw *TweenComponent) bool {
		out = append(out, *tw)
		return true
	})
	return out
}

func TestSectionSystem_OneTweenPerTransition(t *testing.T) {
	ts := newTestScene(t, nil)
	ts.step(0.016)

	ts.input.ScrollTo(720)
	ts.step(0.016)

	active := tweens(ts.cmd)
	require.Len(t, active, 1)
	assert.Equal(t, ts.meshes()[1], active[0].Target)
	assert.Equal(t, 1, Resource[SectionState](ts.app).Current)
}

func TestSectionSystem_NoTweenWithinSection(t *testing.T) {
	ts := newTestScene(t, nil)

	ts.input.ScrollTo(100)
	ts.input.ScrollTo(200)
	ts.step(0.016)

	assert.Empty(t, tweens(ts.cmd))
	assert.Equal(t, 0, Resource[SectionState](ts.app).Current)
}

func TestSectionSystem_EveryEventIsChecked(t *testing.T) {
	ts := newTestScene(t, nil)

	// Two section changes inside a single frame.
	ts.input.ScrollTo(720)
	ts.input.ScrollTo(1440)
	ts.step(0.016)

	active := tweens(ts.cmd)
	require.Len(t, active, 2)
	targets := []EntityId{active[0].Target, active[1].Target}
	assert.ElementsMatch(t, []EntityId{ts.meshes()[1], ts.meshes()[2]}, targets)
}

func TestSectionSystem_ReturnToFirstSection(t *testing.T) {
	ts := newTestScene(t, nil)
	ts.input.ScrollTo(720)
	ts.step(0.016)

	ts.input.ScrollTo(0)
	ts.step(0.016)

	targets := map[EntityId]int{}
	for _, tw := range tweens(ts.cmd) {
		targets[tw.Target]++
	}
	assert.Equal(t, map[EntityId]int{ts.meshes()[1]: 1, ts.meshes()[0]: 1}, targets)
}
