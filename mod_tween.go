package toonscroll

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ease maps linear progress in [0, 1] to eased progress with Ease(0) == 0 and
// Ease(1) == 1.
type Ease func(t float64) float64

func Linear(t float64) float64 { return t }

func Power2In(t float64) float64 { return t * t * t }

func Power2Out(t float64) float64 { return 1 - math.Pow(1-t, 3) }

// Power2InOut is the cubic in-out curve.
func Power2InOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Names follow the usual tweening vocabulary, where "power2" is a cubic.
var eases = map[string]Ease{
	"linear":       Linear,
	"none":         Linear,
	"power2.in":    Power2In,
	"power2.out":   Power2Out,
	"power2.inOut": Power2InOut,
}

// EaseByName looks up an ease by its config name.
func EaseByName(name string) (Ease, error) {
	if e, ok := eases[name]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("unknown ease %q", name)
}

// TweenComponent lives on its own entity and adds Delta to the target's
// rotation over Duration seconds. Several tweens on one target stack.
type TweenComponent struct {
	Target   EntityId
	Delta    mgl32.Vec3
	Duration float64
	Elapsed  float64
	Ease     Ease
}

// Progress is the eased completion fraction.
func (tw *TweenComponent) Progress() float64 {
	return tw.eased(tw.Elapsed)
}

func (tw *TweenComponent) eased(elapsed float64) float64 {
	if tw.Duration <= 0 {
		return 1
	}
	t := math.Min(math.Max(elapsed/tw.Duration, 0), 1)
	if tw.Ease == nil {
		return t
	}
	return tw.Ease(t)
}

func (tw *TweenComponent) Done() bool {
	return tw.Elapsed >= tw.Duration
}

type TweenModule struct{}

func (TweenModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(tweenSystem).
			InStage(Update),
	)
}

// StartRotationTween spawns a tween on target. The tween starts advancing on
// the frame after the command flush.
func StartRotationTween(cmd *Commands, target EntityId, delta mgl32.Vec3, duration float64, ease Ease) EntityId {
	return cmd.AddEntity(TweenComponent{
		Target:   target,
		Delta:    delta,
		Duration: duration,
		Ease:     ease,
	})
}

func tweenSystem(t *Time, cmd *Commands) {
	dt := t.Dt
	MakeQuery1[TweenComponent](cmd).Map(func(eid EntityId, tw *TweenComponent) bool {
		target := GetComponent[TransformComponent](cmd, tw.Target)
		if target == nil {
			cmd.RemoveEntity(eid)
			return true
		}

		// A tween without duration jumps to its end on the first frame.
		before, after := 0.0, 1.0
		if tw.Duration > 0 {
			before = tw.eased(tw.Elapsed)
			tw.Elapsed += dt
			after = tw.eased(tw.Elapsed)
		}

		target.Rotation = target.Rotation.Add(tw.Delta.Mul(float32(after - before)))

		if tw.Done() {
			cmd.RemoveEntity(eid)
		}
		return true
	})
}
