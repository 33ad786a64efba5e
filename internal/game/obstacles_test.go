package game

import (
	"testing"

	"github.com/vovakirdan/spikepulse/internal/config"
	"github.com/vovakirdan/spikepulse/internal/engine"
	"github.com/vovakirdan/spikepulse/internal/events"
	"github.com/vovakirdan/spikepulse/internal/render"
	"github.com/vovakirdan/spikepulse/internal/state"
)

func newObstaclesHarness(t *testing.T, seed int64) (*Obstacles, *events.Bus) {
	t.Helper()
	bus := events.NewBus()
	states := state.NewManager(bus)
	registerStates(states)
	states.ChangeState(state.Playing, nil)

	o := NewObstacles(config.Default(), seed)
	if err := o.Init(&engine.Context{Bus: bus, States: states}); err != nil {
		t.Fatal(err)
	}
	return o, bus
}

// safePlayer is a player state positioned where no spike can reach.
func safePlayer(x float64) PlayerState {
	return PlayerState{X: x, Y: 10, W: 2, H: 2}
}

func TestObstaclesSpawnAhead(t *testing.T) {
	o, bus := newObstaclesHarness(t, 7)

	bus.Emit("player:updated", safePlayer(0))
	o.Update(frameDt)

	spikes := o.Spikes()
	if len(spikes) == 0 {
		t.Fatal("no spikes spawned")
	}
	cfg := config.Default()
	for _, sp := range spikes {
		if sp.Rect.X < float64(cfg.Canvas.Width) {
			t.Errorf("spike %s at %v spawned inside the initial screen", sp.ID, sp.Rect.X)
		}
		if sp.Rect.W < float64(cfg.Obstacles.MinWidth) || sp.Rect.W > float64(cfg.Obstacles.MaxWidth) {
			t.Errorf("spike %s width %v out of range", sp.ID, sp.Rect.W)
		}
		if sp.Rect.H < float64(cfg.Obstacles.MinHeight) || sp.Rect.H > float64(cfg.Obstacles.MaxHeight) {
			t.Errorf("spike %s height %v out of range", sp.ID, sp.Rect.H)
		}
	}
}

func TestObstaclesDeterministicForSeed(t *testing.T) {
	a, busA := newObstaclesHarness(t, 42)
	b, busB := newObstaclesHarness(t, 42)

	busA.Emit("player:updated", safePlayer(100))
	busB.Emit("player:updated", safePlayer(100))
	a.Update(frameDt)
	b.Update(frameDt)

	sa, sb := a.Spikes(), b.Spikes()
	if len(sa) == 0 || len(sa) != len(sb) {
		t.Fatalf("spike counts differ: %d vs %d", len(sa), len(sb))
	}
	for i := range sa {
		if sa[i].Rect != sb[i].Rect || sa[i].Ceiling != sb[i].Ceiling {
			t.Errorf("spike %d differs: %+v vs %+v", i, sa[i], sb[i])
		}
	}
}

func TestObstaclesMixGroundAndCeiling(t *testing.T) {
	o, bus := newObstaclesHarness(t, 3)

	ground, ceiling := 0, 0
	bus.On("renderer:add-object", func(ev events.Event) {
		if p, ok := ev.Payload.(render.AddObjectPayload); ok {
			if p.Object.Glyph == '▼' {
				ceiling++
			} else {
				ground++
			}
		}
	})

	// Spawn a long stretch of field.
	bus.Emit("player:updated", safePlayer(2000))
	o.Update(frameDt)
	if ground == 0 || ceiling == 0 {
		t.Errorf("field has %d ground and %d ceiling spikes, want both kinds", ground, ceiling)
	}
}

func TestObstaclesDespawnBehindCamera(t *testing.T) {
	o, bus := newObstaclesHarness(t, 7)

	bus.Emit("player:updated", safePlayer(0))
	o.Update(frameDt)
	first := o.Spikes()[0]

	removed := 0
	bus.On("renderer:remove-object", func(events.Event) { removed++ })

	// Move far past the first spikes.
	bus.Emit("player:updated", safePlayer(500))
	o.Update(frameDt)

	if removed == 0 {
		t.Error("no despawn events for spikes behind the camera")
	}
	for _, sp := range o.Spikes() {
		if sp.ID == first.ID {
			t.Error("stale spike still alive far behind the camera")
		}
	}
}

func TestObstaclesCollisionEmittedOnce(t *testing.T) {
	o, bus := newObstaclesHarness(t, 7)
	collisions := countEvents(bus, "collision:detected")

	bus.Emit("player:updated", safePlayer(0))
	o.Update(frameDt)
	target := o.Spikes()[0]

	// Park the player inside the spike.
	hit := PlayerState{
		X: target.Rect.X, Y: target.Rect.Y,
		W: 2, H: 2,
	}
	bus.Emit("player:updated", hit)
	o.Update(frameDt)
	o.Update(frameDt)

	if *collisions != 1 {
		t.Errorf("collision:detected count = %d, want 1", *collisions)
	}
}

func TestObstaclesResetOnNewRun(t *testing.T) {
	o, bus := newObstaclesHarness(t, 7)

	bus.Emit("player:updated", safePlayer(300))
	o.Update(frameDt)
	before := len(o.Spikes())
	if before == 0 {
		t.Fatal("no spikes before reset")
	}

	cleared := countEvents(bus, "renderer:clear-layer")
	o.OnStateChange(state.GameOver, state.Playing, nil)

	if len(o.Spikes()) != 0 {
		t.Errorf("%d spikes survived the reset", len(o.Spikes()))
	}
	if *cleared != 1 {
		t.Errorf("clear-layer count = %d, want 1", *cleared)
	}
}
