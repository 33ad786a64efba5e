package game

import (
	"github.com/vovakirdan/spikepulse/internal/config"
	"github.com/vovakirdan/spikepulse/internal/core"
	"github.com/vovakirdan/spikepulse/internal/engine"
	"github.com/vovakirdan/spikepulse/internal/render"
	"github.com/vovakirdan/spikepulse/internal/state"
)

// Terrain draws the floor and ceiling lines as a post-composite overlay.
// The lines are screen-pinned, so an overlay is cheaper than scrolling an
// endless pair of world objects through the culling path.
type Terrain struct {
	states   *state.Manager
	renderer *render.Renderer
	cfg      config.Config
}

// NewTerrain creates the terrain overlay module.
func NewTerrain(cfg config.Config) *Terrain {
	return &Terrain{cfg: cfg}
}

func (t *Terrain) Name() string { return "terrain" }

func (t *Terrain) Init(ctx *engine.Context) error {
	t.states = ctx.States
	t.renderer = ctx.Renderer
	return nil
}

// Render draws the surface lines whenever a run is on screen. The drawn
// rows are marked dirty so the renderer re-composites them next frame and
// no stale line survives a return to the menu.
func (t *Terrain) Render(dst *core.Screen) {
	switch t.states.Current() {
	case state.Playing, state.Paused, state.GameOver:
	default:
		return
	}

	groundRow := t.cfg.Canvas.Height - t.cfg.Physics.GroundOffset
	ceilRow := t.cfg.Physics.CeilingOffset - 1
	dst.DrawHLine(0, groundRow, dst.Width(), '═', core.ColorGray)
	if ceilRow >= 0 {
		dst.DrawHLine(0, ceilRow, dst.Width(), '─', core.ColorDarkGray)
	}
	if t.renderer != nil {
		t.renderer.MarkDirty(core.NewRect(0, groundRow, dst.Width(), 1))
		if ceilRow >= 0 {
			t.renderer.MarkDirty(core.NewRect(0, ceilRow, dst.Width(), 1))
		}
	}
}
