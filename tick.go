package toonscroll

import (
	"context"
	"errors"
	"time"
)

// ErrFrameLimit is returned by a tick source created with LimitTicks once the
// limit has been reached.
var ErrFrameLimit = errors.New("frame limit reached")

// TickSource paces the frame loop: Wait blocks until the next frame is due.
type TickSource interface {
	Wait(ctx context.Context) error
}

type TickSourceFunc func(ctx context.Context) error

func (f TickSourceFunc) Wait(ctx context.Context) error { return f(ctx) }

// IntervalTicks fires at a fixed interval. It is the host clock for headless runs.
type IntervalTicks struct {
	Interval time.Duration
	ticker   *time.Ticker
}

func (t *IntervalTicks) Wait(ctx context.Context) error {
	if t.ticker == nil {
		interval := t.Interval
		if interval <= 0 {
			interval = time.Second / 60
		}
		t.ticker = time.NewTicker(interval)
	}
	select {
	case <-ctx.Done():
		t.ticker.Stop()
		return ctx.Err()
	case <-t.ticker.C:
		return nil
	}
}

// LimitTicks lets src drive at most n frames. n <= 0 means no limit.
func LimitTicks(src TickSource, n int) TickSource {
	if n <= 0 {
		return src
	}
	count := 0
	return TickSourceFunc(func(ctx context.Context) error {
		if count >= n {
			return ErrFrameLimit
		}
		if err := src.Wait(ctx); err != nil {
			return err
		}
		count++
		return nil
	})
}
