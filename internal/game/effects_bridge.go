package game

import (
	"github.com/vovakirdan/spikepulse/internal/core"
	"github.com/vovakirdan/spikepulse/internal/effects"
	"github.com/vovakirdan/spikepulse/internal/engine"
	"github.com/vovakirdan/spikepulse/internal/events"
)

// EffectsBridge translates gameplay events into the Spikepulse effect
// presets. It is the only module that talks to the theme; gameplay modules
// stay unaware of visuals.
type EffectsBridge struct {
	bus   *events.Bus
	theme *effects.Theme
}

// NewEffectsBridge creates the bridge module.
func NewEffectsBridge() *EffectsBridge {
	return &EffectsBridge{}
}

func (b *EffectsBridge) Name() string { return "effects-bridge" }

func (b *EffectsBridge) Init(ctx *engine.Context) error {
	b.bus = ctx.Bus
	b.theme = ctx.Theme
	if b.theme == nil {
		return nil
	}

	b.bus.OnOwned("player:jumped", func(ev events.Event) {
		if p, ok := ev.Payload.(JumpPayload); ok {
			b.theme.Jump(p.X, p.Y)
		}
	}, b)
	b.bus.OnOwned("player:dashed", func(ev events.Event) {
		if p, ok := ev.Payload.(DashPayload); ok {
			b.theme.Dash(p.X, p.Y, p.Dir)
		}
	}, b)
	b.bus.OnOwned("player:gravity-flipped", func(ev events.Event) {
		if p, ok := ev.Payload.(FlipPayload); ok {
			b.theme.GravityFlip(p.X, p.Y, core.Vec2{Y: p.Dir})
		}
	}, b)
	b.bus.OnOwned("player:landed", func(ev events.Event) {
		if p, ok := ev.Payload.(LandPayload); ok {
			b.theme.Landing(p.X, p.Y)
		}
	}, b)
	b.bus.OnOwned("collision:detected", func(ev events.Event) {
		if p, ok := ev.Payload.(CollisionPayload); ok {
			b.theme.Collision(p.X, p.Y)
		}
	}, b)
	// A stopped run must not fire leftover effect waves.
	b.bus.OnOwned("game:stop", func(events.Event) {
		b.theme.Cancel()
	}, b)
	return nil
}

// Destroy cancels pending effect waves and drops subscriptions.
func (b *EffectsBridge) Destroy() {
	if b.theme != nil {
		b.theme.Cancel()
	}
	b.bus.OffOwner(b)
}
