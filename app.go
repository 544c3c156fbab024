package toonscroll

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"sync"
)

type systemFn any

// Module bundles resources and systems. Install runs once, at build time.
type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	ecs       *Ecs

	frame uint64

	// Command Buffering
	pendingAdditions []pendingAdd
	pendingRemovals  []EntityId
	pendingCompAdds  []pendingCompAdd

	mu        sync.Mutex
	stopped   bool
	cancel    context.CancelFunc
	shutdowns []func()
	shutOnce  sync.Once
}

type pendingAdd struct {
	eid        EntityId
	components []any
}

type pendingCompAdd struct {
	eid        EntityId
	components []any
}

func newApp() *App {
	ecs := MakeEcs()
	app := &App{
		stages:    defaultStages(),
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
		ecs:       &ecs,
	}
	for _, stage := range app.stages {
		app.systems[stage.Name] = make([]systemFn, 0)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// Frame returns how many frames have been stepped so far.
func (app *App) Frame() uint64 {
	return app.frame
}

// Run steps the app once per tick until ctx is cancelled, Stop is called or
// the tick source fails. A closed window, an exhausted frame limit and a
// cancelled context are normal terminations and return nil.
func (app *App) Run(ctx context.Context, ticks TickSource) error {
	ctx, cancel := context.WithCancel(ctx)
	app.mu.Lock()
	if app.stopped {
		app.mu.Unlock()
		cancel()
		app.shutdown()
		return nil
	}
	app.cancel = cancel
	app.mu.Unlock()

	defer app.shutdown()
	defer cancel()

	app.Logger().Infof("Running %d stages", len(app.stages))

	for {
		if err := ticks.Wait(ctx); err != nil {
			if isNormalStop(err) {
				app.Logger().Infof("Frame loop finished after %d frames: %v", app.frame, err)
				return nil
			}
			return fmt.Errorf("frame loop: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}
		app.Step()
	}
}

func isNormalStop(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, ErrWindowClosed) ||
		errors.Is(err, ErrFrameLimit)
}

// Step runs every stage once.
func (app *App) Step() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
		app.FlushCommands()
	}
	app.frame++
}

// Stop ends a running loop after its current frame. Safe to call from any
// goroutine, more than once, and before Run.
func (app *App) Stop() {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.stopped = true
	if app.cancel != nil {
		app.cancel()
	}
}

// OnShutdown registers fn to run once when Run returns.
func (app *App) OnShutdown(fn func()) {
	app.shutdowns = append(app.shutdowns, fn)
}

func (app *App) shutdown() {
	app.shutOnce.Do(func() {
		// Reverse install order, like deferred calls.
		for i := len(app.shutdowns) - 1; i >= 0; i-- {
			app.shutdowns[i]()
		}
	})
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

func (app *App) hasResource(t reflect.Type) bool {
	_, ok := app.resources[t]
	return ok
}

// Resource returns the installed resource of type T, or nil.
func Resource[T any](app *App) *T {
	if r, ok := app.resources[reflect.TypeFor[T]()]; ok {
		return r.(*T)
	}
	return nil
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("system %s: parameter %d (%s) is not a pointer",
				runtime.FuncForPC(systemValue.Pointer()).Name(), i, argType))
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			app.Logger().Errorf("%s", msg)
			panic(msg)
		}
	}
	systemValue.Call(args)
}

func (app *App) FlushCommands() {
	if len(app.pendingAdditions) == 0 && len(app.pendingRemovals) == 0 && len(app.pendingCompAdds) == 0 {
		return
	}

	// 1. Process Removals first (so we don't add to dead entities)
	for _, eid := range app.pendingRemovals {
		app.ecs.removeEntity(eid)
	}
	app.pendingRemovals = app.pendingRemovals[:0]

	// 2. Process Additions
	for _, add := range app.pendingAdditions {
		app.ecs.insertEntity(add.eid, add.components...)
	}
	app.pendingAdditions = app.pendingAdditions[:0]

	// 3. Process Component Additions
	for _, add := range app.pendingCompAdds {
		app.ecs.addComponents(add.eid, add.components...)
	}
	app.pendingCompAdds = app.pendingCompAdds[:0]
}
