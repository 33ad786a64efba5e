package game

import (
	"fmt"

	"github.com/vovakirdan/spikepulse/internal/core"
	"github.com/vovakirdan/spikepulse/internal/engine"
	"github.com/vovakirdan/spikepulse/internal/events"
	"github.com/vovakirdan/spikepulse/internal/render"
	"github.com/vovakirdan/spikepulse/internal/state"
)

// Overlay draws the phase banners: title screen, pause splash and the game
// over card. Banners sit above everything else, so they render after the
// compositor like the terrain lines do.
type Overlay struct {
	bus      *events.Bus
	states   *state.Manager
	renderer *render.Renderer

	score int
	high  int
}

// NewOverlay creates the banner overlay module.
func NewOverlay() *Overlay {
	return &Overlay{}
}

func (o *Overlay) Name() string { return "overlay" }

func (o *Overlay) Init(ctx *engine.Context) error {
	o.bus = ctx.Bus
	o.states = ctx.States
	o.renderer = ctx.Renderer

	o.bus.OnOwned("score:updated", func(ev events.Event) {
		if p, ok := ev.Payload.(ScorePayload); ok {
			o.score = p.Score
			o.high = p.HighScore
		}
	}, o)
	return nil
}

func (o *Overlay) Render(dst *core.Screen) {
	switch o.states.Current() {
	case state.Loading:
		o.banner(dst, "LOADING...")
	case state.Menu:
		o.menuCard(dst)
	case state.Paused:
		o.banner(dst, "PAUSED", "P TO RESUME")
	case state.GameOver:
		o.gameOverCard(dst)
	}
}

func (o *Overlay) menuCard(dst *core.Screen) {
	lines := []string{
		"S P I K E P U L S E",
		"",
		"SPACE JUMP   D DASH   G FLIP GRAVITY",
		"",
		"ENTER TO START   Q TO QUIT",
	}
	if o.high > 0 {
		lines = append(lines, "", fmt.Sprintf("BEST %05d", o.high))
	}
	o.banner(dst, lines...)
}

func (o *Overlay) gameOverCard(dst *core.Screen) {
	lines := []string{
		"GAME OVER",
		"",
		fmt.Sprintf("SCORE %05d   BEST %05d", o.score, o.high),
		"",
		"R TO RETRY   B FOR MENU",
	}
	o.banner(dst, lines...)
}

// banner centers the given lines vertically and marks the covered rows
// dirty so the compositor erases them once the phase moves on.
func (o *Overlay) banner(dst *core.Screen, lines ...string) {
	top := (dst.Height() - len(lines)) / 2
	if top < 0 {
		top = 0
	}
	for i, line := range lines {
		if line == "" {
			continue
		}
		color := core.ColorBrightWhite
		if i > 0 {
			color = core.ColorGray
		}
		dst.DrawTextCentered(top+i, line, color)
	}
	if o.renderer != nil {
		o.renderer.MarkDirty(core.NewRect(0, top, dst.Width(), len(lines)))
	}
}

func (o *Overlay) Destroy() {
	o.bus.OffOwner(o)
}
