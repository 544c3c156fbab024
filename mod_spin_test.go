package toonscroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpin_TwoTicks(t *testing.T) {
	ts := newTestScene(t, nil)
	meshes := ts.meshes()
	ts.step(0)

	start := GetComponent[TransformComponent](ts.cmd, meshes[0]).Rotation

	ts.step(0.5)
	ts.step(0.25)

	rot := GetComponent[TransformComponent](ts.cmd, meshes[0]).Rotation
	assert.InDelta(t, start.X()+0.75*0.1, rot.X(), 1e-6)
	assert.InDelta(t, start.Y()+0.75*0.12, rot.Y(), 1e-6)
	assert.InDelta(t, start.Z(), rot.Z(), 1e-6)

	for idx, eid := range meshes {
		assert.InDelta(t, 0.75*0.1, GetComponent[TransformComponent](ts.cmd, eid).Rotation.X(), 1e-6, "mesh %d", idx)
	}
}
