package toonscroll

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func TestApp_addResources(t *testing.T) {
	app := newApp()

	resource1 := &MockResource1{name: "Resource1"}
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := &MockResource2{name: "Resource2"}
	app.addResources(resource2)
	assert.Same(t, resource2, Resource[MockResource2](app))
}

func TestApp_addResources_NotPointer(t *testing.T) {
	app := newApp()
	assert.Panics(t, func() { app.addResources(MockResource1{}) })
}

func TestApp_SystemMissingResource(t *testing.T) {
	app := newApp()
	app.UseSystem(System(func(r *MockResource1) {}).InStage(Update))
	assert.Panics(t, app.Step)
}

func TestApp_StepRunsStagesInOrder(t *testing.T) {
	var order []string
	app := newApp()
	for _, stage := range []Stage{Render, Prelude, Update, PostUpdate} {
		app.UseSystem(System(func() { order = append(order, stage.Name) }).InStage(stage))
	}

	app.Step()

	assert.Equal(t, []string{Prelude.Name, Update.Name, PostUpdate.Name, Render.Name}, order)
	assert.Equal(t, uint64(1), app.Frame())
}

func TestApp_SpawnVisibleInNextStage(t *testing.T) {
	type marker struct{}
	seenUpdate, seenPost := -1, -1
	app := newApp()
	app.UseSystem(System(func(cmd *Commands) {
		cmd.AddEntity(marker{})
		seenUpdate = MakeQuery1[marker](cmd).Count()
	}).InStage(Update))
	app.UseSystem(System(func(cmd *Commands) {
		seenPost = MakeQuery1[marker](cmd).Count()
	}).InStage(PostUpdate))

	app.Step()

	assert.Equal(t, 0, seenUpdate)
	assert.Equal(t, 1, seenPost)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app := NewAppBuilder().Build()
	ctx, cancel := context.WithCancel(context.Background())

	ticks := TickSourceFunc(func(ctx context.Context) error {
		if app.Frame() == 3 {
			cancel()
		}
		return ctx.Err()
	})

	require.NoError(t, app.Run(ctx, ticks))
	assert.Equal(t, uint64(3), app.Frame())
}

func TestApp_RunStopsOnStop(t *testing.T) {
	app := NewAppBuilder().Build()
	app.UseSystem(System(func(cmd *Commands) {
		cmd.Stop()
		cmd.Stop()
	}).InStage(Finale))

	err := app.Run(context.Background(), &IntervalTicks{Interval: time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), app.Frame())
}

func TestApp_StopBeforeRun(t *testing.T) {
	app := NewAppBuilder().Build()
	shutdowns := 0
	app.OnShutdown(func() { shutdowns++ })
	app.Stop()

	require.NoError(t, app.Run(context.Background(), &IntervalTicks{}))
	assert.Equal(t, uint64(0), app.Frame())
	assert.Equal(t, 1, shutdowns)
}

func TestApp_RunTickError(t *testing.T) {
	boom := errors.New("boom")
	app := NewAppBuilder().Build()
	shutdowns := 0
	app.OnShutdown(func() { shutdowns++ })

	err := app.Run(context.Background(), TickSourceFunc(func(ctx context.Context) error { return boom }))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, shutdowns)
}

func TestApp_RunFrameLimit(t *testing.T) {
	app := NewAppBuilder().Build()
	var order []int
	app.OnShutdown(func() { order = append(order, 1) })
	app.OnShutdown(func() { order = append(order, 2) })

	err := app.Run(context.Background(), LimitTicks(TickSourceFunc(func(ctx context.Context) error { return nil }), 5))

	require.NoError(t, err)
	assert.Equal(t, uint64(5), app.Frame())
	assert.Equal(t, []int{2, 1}, order)
}

func TestApp_RunWindowClosed(t *testing.T) {
	app := NewAppBuilder().Build()
	err := app.Run(context.Background(), TickSourceFunc(func(ctx context.Context) error {
		return fmt.Errorf("poll: %w", ErrWindowClosed)
	}))
	assert.NoError(t, err)
}
