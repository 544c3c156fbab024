package toonscroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	// ErrWindowClosed ends the frame loop when the user closes the window.
	ErrWindowClosed = errors.New("window closed")
	// ErrRenderTarget means no window or surface could be created to draw into.
	ErrRenderTarget = errors.New("render target unavailable")
)

// CreateWindow initialises GLFW and opens a resizable window without a client
// API, ready for a WebGPU surface. Must be called on the main thread.
func CreateWindow(width, height int, title string) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("%w: glfw init: %v", ErrRenderTarget, err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("%w: create window: %v", ErrRenderTarget, err)
	}
	return win, nil
}

var glfwKeys = map[glfw.Key]Key{
	glfw.KeyUp:       KeyUp,
	glfw.KeyDown:     KeyDown,
	glfw.KeyPageUp:   KeyPageUp,
	glfw.KeyPageDown: KeyPageDown,
	glfw.KeyHome:     KeyHome,
	glfw.KeyEnd:      KeyEnd,
	glfw.KeySpace:    KeySpace,
	glfw.KeyH:        KeyH,
	glfw.KeyEscape:   KeyEscape,
}

// WindowModule feeds GLFW window events into Input. Install it after
// InputModule.
type WindowModule struct {
	Window *glfw.Window
}

type WindowState struct {
	Window *glfw.Window
}

func (mod WindowModule) Install(app *App, cmd *Commands) {
	input := Resource[Input](app)
	if input == nil {
		panic("WindowModule requires InputModule to be installed first")
	}
	win := mod.Window

	w, h := win.GetSize()
	fbw, fbh := win.GetFramebufferSize()
	input.Resize(w, h, fbw, fbh)

	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		input.Wheel(yoff)
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		input.MoveCursor(xpos, ypos)
	})
	win.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		width, height := w.GetSize()
		input.Resize(width, height, fbWidth, fbHeight)
	})
	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		k, ok := glfwKeys[key]
		if !ok {
			return
		}
		input.PressKey(k)
		if k == KeyEscape {
			w.SetShouldClose(true)
		}
	})

	cmd.AddResources(&WindowState{Window: win})
	app.OnShutdown(func() {
		win.Destroy()
		glfw.Terminate()
	})

	app.UseSystem(
		System(windowEventsSystem).
			InStage(PreUpdate),
	)
}

// windowEventsSystem runs the GLFW callbacks registered above.
func windowEventsSystem(_ *WindowState) {
	glfw.PollEvents()
}

// WindowTicks paces the frame loop by the window. Frames are throttled by
// the surface's vsync present, so Wait only checks for closing.
type WindowTicks struct {
	Window *glfw.Window
}

func (t WindowTicks) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.Window.ShouldClose() {
		return ErrWindowClosed
	}
	return nil
}
