// Package game implements the Spikepulse gameplay modules: the
// auto-running player, the procedural spike field, camera follow, scoring
// and the bridge from gameplay events to visual effect presets. Each type
// is an engine module; they collaborate exclusively through bus events.
package game

import (
	"github.com/vovakirdan/spikepulse/internal/config"
	"github.com/vovakirdan/spikepulse/internal/core"
	"github.com/vovakirdan/spikepulse/internal/engine"
	"github.com/vovakirdan/spikepulse/internal/events"
	"github.com/vovakirdan/spikepulse/internal/render"
	"github.com/vovakirdan/spikepulse/internal/state"
)

// PlayerState is the payload of "player:updated" events, published every
// tick while a run is active.
type PlayerState struct {
	X, Y       float64 // Top-left corner in world units
	W, H       float64
	VelY       float64
	Speed      float64 // Current horizontal speed
	GravityDir float64 // +1 falls down, -1 falls up
	Grounded   bool
	Dashing    bool
}

// JumpPayload is the payload of "player:jumped" events.
type JumpPayload struct {
	X, Y float64
}

// DashPayload is the payload of "player:dashed" events.
type DashPayload struct {
	X, Y float64
	Dir  core.Vec2
}

// FlipPayload is the payload of "player:gravity-flipped" events.
type FlipPayload struct {
	X, Y float64
	Dir  float64 // New gravity direction
}

// LandPayload is the payload of "player:landed" events.
type LandPayload struct {
	X, Y float64
}

// CollisionPayload is the payload of "collision:detected" events.
type CollisionPayload struct {
	X, Y float64
}

// Player is the auto-running player module: constant rightward motion,
// jump, dash with cooldown, and gravity inversion. It consumes normalized
// input events and publishes its state every tick.
type Player struct {
	bus    *events.Bus
	states *state.Manager
	cfg    config.Config
	diff   *config.DifficultyManager

	ps       PlayerState
	dashTime float64
	cooldown float64
	score    int
	ticks    int

	obj *render.Object
}

// NewPlayer creates the player module from the loaded configuration.
func NewPlayer(cfg config.Config) *Player {
	return &Player{cfg: cfg}
}

func (p *Player) Name() string { return "player" }

// Init subscribes the player to input and collision events and places its
// drawable on the entities layer.
func (p *Player) Init(ctx *engine.Context) error {
	p.bus = ctx.Bus
	p.states = ctx.States
	p.diff = config.NewDifficultyManager(p.cfg.Difficulty)

	p.obj = render.NewObject("player", render.KindRect)
	p.obj.Glyph = '█'
	p.obj.Color = core.ColorBrightCyan
	p.obj.ZIndex = 10
	p.bus.Emit("renderer:add-object", render.AddObjectPayload{
		Layer: render.LayerEntities, Object: p.obj,
	})

	p.bus.OnOwned("input:jump:start", func(events.Event) { p.Jump() }, p)
	p.bus.OnOwned("input:dash:start", func(events.Event) { p.Dash() }, p)
	p.bus.OnOwned("input:gravity-toggle:start", func(events.Event) { p.FlipGravity() }, p)

	p.bus.OnOwned("collision:detected", func(ev events.Event) {
		p.states.ChangeState(state.GameOver, ev.Payload)
	}, p)
	p.bus.OnOwned("score:updated", func(ev events.Event) {
		if sp, ok := ev.Payload.(ScorePayload); ok {
			p.score = sp.Score
		}
	}, p)

	p.reset()
	return nil
}

// OnStateChange restarts the run when play begins from anywhere but pause.
func (p *Player) OnStateChange(from, to string, data any) {
	if to == state.Playing && from != state.Paused {
		p.reset()
	}
}

func (p *Player) reset() {
	p.ps = PlayerState{
		X:          0,
		W:          float64(p.cfg.Player.Width),
		H:          float64(p.cfg.Player.Height),
		GravityDir: 1,
		Grounded:   true,
	}
	p.ps.Y = p.groundY() - p.ps.H
	p.dashTime = 0
	p.cooldown = 0
	p.score = 0
	p.ticks = 0
	p.syncObject()
}

// groundY returns the world row of the floor surface.
func (p *Player) groundY() float64 {
	return float64(p.cfg.Canvas.Height - p.cfg.Physics.GroundOffset)
}

// ceilingY returns the world row of the ceiling surface.
func (p *Player) ceilingY() float64 {
	return float64(p.cfg.Physics.CeilingOffset)
}

// Jump launches the player away from the surface it stands on. Ignored
// mid-air and outside active play.
func (p *Player) Jump() {
	if !p.states.Is(state.Playing) || !p.ps.Grounded {
		return
	}
	p.ps.VelY = p.cfg.Physics.JumpImpulse * p.ps.GravityDir
	p.ps.Grounded = false
	p.bus.Emit("player:jumped", JumpPayload{X: p.centerX(), Y: p.centerY()})
}

// Dash triggers a horizontal burst. Ignored while dashing, on cooldown, or
// outside active play.
func (p *Player) Dash() {
	if !p.states.Is(state.Playing) || p.ps.Dashing || p.cooldown > 0 {
		return
	}
	p.ps.Dashing = true
	p.dashTime = p.cfg.Physics.DashDuration
	p.cooldown = p.cfg.Physics.DashCooldown
	p.bus.Emit("player:dashed", DashPayload{
		X: p.centerX(), Y: p.centerY(),
		Dir: core.Vec2{X: 1, Y: 0},
	})
}

// FlipGravity inverts the fall direction. The player detaches from its
// current surface and falls toward the opposite one.
func (p *Player) FlipGravity() {
	if !p.states.Is(state.Playing) {
		return
	}
	p.ps.GravityDir = -p.ps.GravityDir
	p.ps.Grounded = false
	p.bus.Emit("player:gravity-flipped", FlipPayload{
		X: p.centerX(), Y: p.centerY(),
		Dir: p.ps.GravityDir,
	})
}

// Update advances the player physics by dt seconds.
func (p *Player) Update(dt float64) {
	if !p.states.Is(state.Playing) {
		return
	}
	p.ticks++

	speed := p.diff.Speed(p.cfg.Physics.BaseSpeed, p.score, p.ticks)
	if p.ps.Dashing {
		speed = p.cfg.Physics.DashSpeed
		p.dashTime -= dt
		if p.dashTime <= 0 {
			p.ps.Dashing = false
		}
	}
	if p.cooldown > 0 {
		p.cooldown -= dt
	}
	p.ps.Speed = speed
	p.ps.X += speed * dt

	p.ps.VelY += p.cfg.Physics.Gravity * p.ps.GravityDir * dt
	max := p.cfg.Physics.MaxFallSpeed
	p.ps.VelY = core.ClampF(p.ps.VelY, -max, max)
	p.ps.Y += p.ps.VelY * dt

	p.resolveContact()
	p.syncObject()
	p.bus.Emit("player:updated", p.ps)
}

// resolveContact clamps the player onto the floor or ceiling, depending on
// the gravity direction, and reports the landing.
func (p *Player) resolveContact() {
	if p.ps.GravityDir > 0 {
		floor := p.groundY() - p.ps.H
		if p.ps.Y >= floor {
			p.ps.Y = floor
			p.land()
		}
	} else {
		ceil := p.ceilingY()
		if p.ps.Y <= ceil {
			p.ps.Y = ceil
			p.land()
		}
	}
}

func (p *Player) land() {
	p.ps.VelY = 0
	if !p.ps.Grounded {
		p.ps.Grounded = true
		p.bus.Emit("player:landed", LandPayload{X: p.centerX(), Y: p.bottomY()})
	}
}

func (p *Player) syncObject() {
	p.obj.X = p.ps.X
	p.obj.Y = p.ps.Y
	p.obj.W = p.ps.W
	p.obj.H = p.ps.H
}

func (p *Player) centerX() float64 { return p.ps.X + p.ps.W/2 }
func (p *Player) centerY() float64 { return p.ps.Y + p.ps.H/2 }

// bottomY is the contact edge: the floor side under normal gravity, the
// ceiling side when inverted.
func (p *Player) bottomY() float64 {
	if p.ps.GravityDir > 0 {
		return p.ps.Y + p.ps.H
	}
	return p.ps.Y
}

// State returns a copy of the current player state.
func (p *Player) State() PlayerState {
	return p.ps
}

// Destroy drops the player's bus subscriptions.
func (p *Player) Destroy() {
	p.bus.OffOwner(p)
}
