package toonscroll

import "math"

type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeySpace
	KeyH
	KeyEscape
	keyCount
)

type Cursor struct {
	X, Y float64
}

// Input is the scene's view of the host: a virtual page scrolled in pixels,
// a cursor normalised to [-0.5, 0.5] with +y up, and the viewport size.
// Window callbacks write it; frame systems only read it.
type Input struct {
	ScrollY float64
	Cursor  Cursor

	ViewportWidth, ViewportHeight       int
	FramebufferWidth, FramebufferHeight int
	PixelRatio                          float64

	// Sections is the page length in viewport heights.
	Sections  int
	WheelStep float64

	// ScrollEvents holds the offset after each scroll event of this frame.
	ScrollEvents []float64
	Resized      bool
	JustPressed  [keyCount]bool
}

type InputModule struct {
	Width, Height int
	Sections      int
	WheelStep     float64
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	input := &Input{
		Sections:  mod.Sections,
		WheelStep: mod.WheelStep,
	}
	if input.Sections <= 0 {
		input.Sections = 1
	}
	if input.WheelStep <= 0 {
		input.WheelStep = 100
	}
	input.Resize(mod.Width, mod.Height, mod.Width, mod.Height)
	input.Resized = false
	cmd.AddResources(input)

	app.UseSystem(
		System(inputFrameSystem).
			InStage(Finale),
	)
}

// inputFrameSystem drops per-frame event state once the frame is done, so
// events arriving between frames are seen by the next one.
func inputFrameSystem(input *Input) {
	input.ScrollEvents = input.ScrollEvents[:0]
	input.Resized = false
	input.JustPressed = [keyCount]bool{}
}

// MaxScroll is the largest reachable offset: the page is Sections viewports
// tall and the last one ends at the bottom of the window.
func (in *Input) MaxScroll() float64 {
	return float64(max(in.Sections-1, 0) * in.ViewportHeight)
}

// ScrollTo moves the page and records one scroll event.
func (in *Input) ScrollTo(y float64) {
	in.ScrollY = math.Max(0, math.Min(y, in.MaxScroll()))
	in.ScrollEvents = append(in.ScrollEvents, in.ScrollY)
}

func (in *Input) ScrollBy(dy float64) {
	in.ScrollTo(in.ScrollY + dy)
}

// Wheel applies a mouse wheel offset; positive yoff scrolls up.
func (in *Input) Wheel(yoff float64) {
	in.ScrollBy(-yoff * in.WheelStep)
}

// MoveCursor takes window coordinates in screen pixels.
func (in *Input) MoveCursor(px, py float64) {
	if in.ViewportWidth <= 0 || in.ViewportHeight <= 0 {
		return
	}
	in.Cursor.X = px/float64(in.ViewportWidth) - 0.5
	in.Cursor.Y = -(py/float64(in.ViewportHeight) - 0.5)
}

// Resize records window and framebuffer sizes. A zero size, which a minimised
// window reports, is ignored so the page keeps its position. If the page got
// shorter than the scroll offset, the offset is clamped with a scroll event.
func (in *Input) Resize(width, height, fbWidth, fbHeight int) {
	if width <= 0 || height <= 0 {
		return
	}
	in.ViewportWidth, in.ViewportHeight = width, height
	in.FramebufferWidth, in.FramebufferHeight = fbWidth, fbHeight
	in.PixelRatio = 1
	if fbWidth > 0 {
		in.PixelRatio = math.Min(float64(fbWidth)/float64(width), 2)
	}
	if in.ScrollY > in.MaxScroll() {
		in.ScrollTo(in.MaxScroll())
	}
	in.Resized = true
}

// RenderSize is the drawing buffer size after the pixel ratio cap.
func (in *Input) RenderSize() (int, int) {
	return int(float64(in.ViewportWidth) * in.PixelRatio), int(float64(in.ViewportHeight) * in.PixelRatio)
}

// PressKey records a key press and applies the page-navigation keys.
func (in *Input) PressKey(key Key) {
	if key <= KeyUnknown || key >= keyCount {
		return
	}
	in.JustPressed[key] = true

	page := float64(in.ViewportHeight)
	switch key {
	case KeyUp:
		in.ScrollBy(-in.WheelStep)
	case KeyDown:
		in.ScrollBy(in.WheelStep)
	case KeyPageUp:
		in.ScrollBy(-page)
	case KeyPageDown, KeySpace:
		in.ScrollBy(page)
	case KeyHome:
		in.ScrollTo(0)
	case KeyEnd:
		in.ScrollTo(in.MaxScroll())
	}
}
