package game

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/spikepulse/internal/config"
	"github.com/vovakirdan/spikepulse/internal/core"
	"github.com/vovakirdan/spikepulse/internal/engine"
	"github.com/vovakirdan/spikepulse/internal/events"
	"github.com/vovakirdan/spikepulse/internal/render"
	"github.com/vovakirdan/spikepulse/internal/state"
)

// Spike is one procedurally placed obstacle. Ground spikes stand on the
// floor; ceiling spikes hang down and matter mostly when gravity is
// inverted.
type Spike struct {
	ID      string
	Rect    core.RectF
	Ceiling bool

	obj *render.Object
}

// Obstacles is the procedural spike field module: it spawns spikes ahead
// of the player with difficulty-scaled spacing, despawns them behind the
// camera, and detects player collisions.
type Obstacles struct {
	bus    *events.Bus
	states *state.Manager
	cfg    config.Config
	diff   *config.DifficultyManager
	seed   int64

	rng        *rand.Rand
	spikes     []*Spike
	nextSpawnX float64
	seq        int

	player   PlayerState
	score    int
	ticks    int
	collided bool
}

// SpawnMargin is how far past the right screen edge spikes are generated,
// and how far past the left edge they are kept alive, in world units.
const SpawnMargin = 8

// NewObstacles creates the spike field module with a deterministic seed.
func NewObstacles(cfg config.Config, seed int64) *Obstacles {
	return &Obstacles{cfg: cfg, seed: seed}
}

func (o *Obstacles) Name() string { return "obstacles" }

func (o *Obstacles) Init(ctx *engine.Context) error {
	o.bus = ctx.Bus
	o.states = ctx.States
	o.diff = config.NewDifficultyManager(o.cfg.Difficulty)

	o.bus.OnOwned("player:updated", func(ev events.Event) {
		if ps, ok := ev.Payload.(PlayerState); ok {
			o.player = ps
		}
	}, o)
	o.bus.OnOwned("score:updated", func(ev events.Event) {
		if sp, ok := ev.Payload.(ScorePayload); ok {
			o.score = sp.Score
		}
	}, o)

	o.reset()
	return nil
}

// OnStateChange regenerates the field when a new run starts.
func (o *Obstacles) OnStateChange(from, to string, data any) {
	if to == state.Playing && from != state.Paused {
		o.reset()
	}
}

func (o *Obstacles) reset() {
	o.bus.Emit("renderer:clear-layer", render.ClearLayerPayload{Layer: render.LayerWorld})
	o.spikes = o.spikes[:0]
	o.rng = rand.New(rand.NewSource(o.seed))
	o.player = PlayerState{}
	o.score = 0
	o.ticks = 0
	o.collided = false
	// The first spike appears one full screen ahead of the start.
	o.nextSpawnX = float64(o.cfg.Canvas.Width)
}

// Update spawns ahead of the player, despawns behind the camera, and
// checks for collisions.
func (o *Obstacles) Update(dt float64) {
	if !o.states.Is(state.Playing) {
		return
	}
	o.ticks++

	spawnEdge := o.player.X + float64(o.cfg.Canvas.Width) + SpawnMargin
	for o.nextSpawnX < spawnEdge {
		o.spawn()
	}

	o.despawn()
	o.checkCollision()
}

// spawn places one spike at the pending spawn position and advances it by
// the difficulty-scaled spacing.
func (o *Obstacles) spawn() {
	obs := o.cfg.Obstacles
	width := randRange(o.rng, obs.MinWidth, obs.MaxWidth)
	height := randRange(o.rng, obs.MinHeight, obs.MaxHeight)
	ceiling := o.rng.Float64() < obs.CeilingShare

	var y float64
	glyph := '▲'
	if ceiling {
		y = float64(o.cfg.Physics.CeilingOffset)
		glyph = '▼'
	} else {
		y = float64(o.cfg.Canvas.Height-o.cfg.Physics.GroundOffset) - float64(height)
	}

	o.seq++
	sp := &Spike{
		ID:      fmt.Sprintf("spike-%d", o.seq),
		Rect:    core.RectF{X: o.nextSpawnX, Y: y, W: float64(width), H: float64(height)},
		Ceiling: ceiling,
	}

	sp.obj = render.NewObject(sp.ID, render.KindRect)
	sp.obj.X, sp.obj.Y = sp.Rect.X, sp.Rect.Y
	sp.obj.W, sp.obj.H = sp.Rect.W, sp.Rect.H
	sp.obj.Glyph = glyph
	sp.obj.Color = core.ColorBrightGreen
	sp.obj.ZIndex = 5
	o.bus.Emit("renderer:add-object", render.AddObjectPayload{
		Layer: render.LayerWorld, Object: sp.obj,
	})

	o.spikes = append(o.spikes, sp)

	spacing := o.diff.Spacing(obs.MaxSpacing, o.score, o.ticks)
	if spacing < obs.MinSpacing {
		spacing = obs.MinSpacing
	}
	jitter := spacing - obs.MinSpacing
	gap := obs.MinSpacing
	if jitter > 0 {
		gap = obs.MinSpacing + o.rng.Intn(jitter+1)
	}
	o.nextSpawnX += float64(width + gap)
}

// despawn drops spikes that scrolled past the left edge of the camera.
func (o *Obstacles) despawn() {
	camLeft := o.player.X - float64(o.cfg.Player.X) - SpawnMargin

	kept := o.spikes[:0]
	for _, sp := range o.spikes {
		if sp.Rect.X+sp.Rect.W < camLeft {
			o.bus.Emit("renderer:remove-object", render.RemoveObjectPayload{
				Layer: render.LayerWorld, ID: sp.ID,
			})
			continue
		}
		kept = append(kept, sp)
	}
	o.spikes = kept
}

// checkCollision emits at most one collision:detected per run.
func (o *Obstacles) checkCollision() {
	if o.collided || o.player.W == 0 {
		return
	}

	playerRect := core.RectF{X: o.player.X, Y: o.player.Y, W: o.player.W, H: o.player.H}
	for _, sp := range o.spikes {
		if playerRect.Intersects(sp.Rect) {
			o.collided = true
			o.bus.Emit("collision:detected", CollisionPayload{
				X: o.player.X + o.player.W/2,
				Y: o.player.Y + o.player.H/2,
			})
			return
		}
	}
}

// Spikes returns the live spike list, nearest first.
func (o *Obstacles) Spikes() []*Spike {
	return o.spikes
}

// Destroy drops the module's bus subscriptions.
func (o *Obstacles) Destroy() {
	o.bus.OffOwner(o)
}

func randRange(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}
