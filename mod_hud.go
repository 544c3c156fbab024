package toonscroll

import (
	"fmt"
	"strings"

	"github.com/gekko3d/toonscroll/render/core"
	"github.com/lucasb-eyer/go-colorful"
)

// HudState is the on-screen debug panel. H toggles it.
type HudState struct {
	Visible  bool
	Position [2]float32 // window pixels, top-left
	Scale    float32

	colorHex string
	fps      float64
}

type HudModule struct {
	Visible bool
}

func (mod HudModule) Install(app *App, cmd *Commands) {
	if Resource[RenderState](app) == nil {
		panic("HudModule requires RenderModule to be installed first")
	}
	hud := &HudState{
		Visible:  mod.Visible,
		Position: [2]float32{16, 16},
		Scale:    1,
	}
	if settings := Resource[Settings](app); settings != nil {
		hud.colorHex = settings.MaterialColorHex()
		settings.Subscribe(func(c colorful.Color) { hud.colorHex = c.Hex() })
	}
	cmd.AddResources(hud)

	app.UseSystem(
		System(hudToggleSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(hudTextSystem).
			InStage(PreRender),
	)
}

func hudToggleSystem(input *Input, hud *HudState) {
	if input.JustPressed[KeyH] {
		hud.Visible = !hud.Visible
	}
}

// fpsSmoothing is the weight of the newest frame in the FPS average.
const fpsSmoothing = 0.1

func hudTextSystem(hud *HudState, t *Time, input *Input, section *SectionState, render *RenderState) {
	if t.Dt > 0 {
		if hud.fps == 0 {
			hud.fps = 1 / t.Dt
		} else {
			hud.fps += (1/t.Dt - hud.fps) * fpsSmoothing
		}
	}
	if !hud.Visible {
		return
	}

	ratio := float32(input.PixelRatio)
	if ratio <= 0 {
		ratio = 1
	}
	render.Text = append(render.Text, core.TextItem{
		Text: formatHudTable([][2]string{
			{"color", hud.colorHex},
			{"section", fmt.Sprintf("%d", section.Current)},
			{"scroll", fmt.Sprintf("%.0f / %.0f", input.ScrollY, input.MaxScroll())},
			{"fps", fmt.Sprintf("%.0f", hud.fps)},
		}),
		Position: [2]float32{hud.Position[0] * ratio, hud.Position[1] * ratio},
		Scale:    hud.Scale * ratio,
		Color:    [4]float32{1, 1, 1, 1},
	})
}

// formatHudTable lays out key/value rows in an ASCII box, one row per line.
func formatHudTable(rows [][2]string) string {
	keyW, valW := 0, 0
	for _, row := range rows {
		keyW = max(keyW, len(row[0]))
		valW = max(valW, len(row[1]))
	}
	border := "+" + strings.Repeat("-", keyW+2) + "+" + strings.Repeat("-", valW+2) + "+"

	var b strings.Builder
	b.WriteString(border)
	for _, row := range rows {
		fmt.Fprintf(&b, "\n| %-*s | %-*s |", keyW, row[0], valW, row[1])
	}
	b.WriteString("\n")
	b.WriteString(border)
	return b.String()
}
