package game

import (
	"github.com/vovakirdan/spikepulse/internal/config"
	"github.com/vovakirdan/spikepulse/internal/engine"
	"github.com/vovakirdan/spikepulse/internal/events"
	"github.com/vovakirdan/spikepulse/internal/render"
	"github.com/vovakirdan/spikepulse/internal/state"
)

// CameraFollow trails the player horizontally, keeping it pinned at its
// configured screen column. It owns no camera of its own; it only
// publishes camera:move events the renderer consumes.
type CameraFollow struct {
	bus    *events.Bus
	states *state.Manager
	cfg    config.Config

	x      float64
	target float64
}

// FollowRate controls how quickly the camera converges on its target, in
// units of fraction-per-second.
const FollowRate = 10.0

// NewCameraFollow creates the camera module.
func NewCameraFollow(cfg config.Config) *CameraFollow {
	return &CameraFollow{cfg: cfg}
}

func (c *CameraFollow) Name() string { return "camera" }

func (c *CameraFollow) Init(ctx *engine.Context) error {
	c.bus = ctx.Bus
	c.states = ctx.States

	c.bus.OnOwned("player:updated", func(ev events.Event) {
		if ps, ok := ev.Payload.(PlayerState); ok {
			c.target = ps.X - float64(c.cfg.Player.X)
		}
	}, c)
	return nil
}

// OnStateChange snaps the camera back to the start of a fresh run.
func (c *CameraFollow) OnStateChange(from, to string, data any) {
	if to == state.Playing && from != state.Paused {
		c.x = -float64(c.cfg.Player.X)
		c.target = c.x
		c.bus.Emit("camera:move", render.MovePayload{X: c.x})
	}
}

// Update eases the camera toward the target and publishes the move.
func (c *CameraFollow) Update(dt float64) {
	if !c.states.Is(state.Playing) {
		return
	}

	blend := FollowRate * dt
	if blend > 1 {
		blend = 1
	}
	c.x += (c.target - c.x) * blend
	c.bus.Emit("camera:move", render.MovePayload{X: c.x})
}

// X returns the camera's current world position.
func (c *CameraFollow) X() float64 {
	return c.x
}

// Destroy drops the module's bus subscriptions.
func (c *CameraFollow) Destroy() {
	c.bus.OffOwner(c)
}
