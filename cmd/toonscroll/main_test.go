package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReleaser_ReleasesInReverse(t *testing.T) {
	var order []string
	var r releaser
	r.add(func() { order = append(order, "window") })
	r.add(func() { order = append(order, "renderer") })

	r.release()
	r.release()

	assert.Equal(t, []string{"renderer", "window"}, order)
}

func TestReleaser_KeepDisarms(t *testing.T) {
	called := false
	var r releaser
	r.add(func() { called = true })

	r.keep()
	r.release()

	assert.False(t, called)
}

func TestReleaser_ErrorPathReleases(t *testing.T) {
	destroyed := 0
	setup := func(fail bool) error {
		var r releaser
		defer r.release()
		r.add(func() { destroyed++ })
		if fail {
			return assert.AnError
		}
		r.keep()
		return nil
	}

	assert.ErrorIs(t, setup(true), assert.AnError)
	assert.Equal(t, 1, destroyed)
	assert.NoError(t, setup(false))
	assert.Equal(t, 1, destroyed)
}
