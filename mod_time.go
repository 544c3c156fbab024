package toonscroll

import (
	"time"
)

// Clock reports monotonic seconds since some fixed origin.
type Clock interface {
	Elapsed() float64
}

type wallClock struct {
	start time.Time
}

func (c wallClock) Elapsed() float64 {
	return time.Since(c.start).Seconds()
}

// ManualClock only moves when told to. Tests drive frames with it.
type ManualClock struct {
	Now float64
}

func (c *ManualClock) Elapsed() float64 { return c.Now }

func (c *ManualClock) Advance(seconds float64) { c.Now += seconds }

// Time is the frame clock resource. Dt is the seconds between the last two
// frames; Elapsed is the clock reading of the current frame.
type Time struct {
	Elapsed float64
	Dt      float64

	clock Clock
}

type TimeModule struct {
	Clock Clock
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	clock := mod.Clock
	if clock == nil {
		clock = wallClock{start: time.Now()}
	}
	cmd.AddResources(&Time{
		Elapsed: clock.Elapsed(),
		Dt:      0,
		clock:   clock,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(t *Time) {
	now := t.clock.Elapsed()

	t.Dt = now - t.Elapsed
	if t.Dt < 0 {
		t.Dt = 0
	}
	t.Elapsed = now
}
