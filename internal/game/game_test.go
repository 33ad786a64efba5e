package game

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/spikepulse/internal/config"
	"github.com/vovakirdan/spikepulse/internal/core"
	"github.com/vovakirdan/spikepulse/internal/events"
	"github.com/vovakirdan/spikepulse/internal/render"
	"github.com/vovakirdan/spikepulse/internal/state"
	"github.com/vovakirdan/spikepulse/internal/storage"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g, err := New(Options{Config: config.Default(), Seed: 42})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(g.Destroy)
	return g
}

func runFrames(g *Game, start time.Time, n int) time.Time {
	now := start
	for i := 0; i < n; i++ {
		g.Tick(now)
		now = now.Add(16 * time.Millisecond)
	}
	return now
}

func TestAssembleAndRun(t *testing.T) {
	g := newTestGame(t)

	if !g.States.Is(state.Loading) {
		t.Fatalf("initial state = %q, want loading", g.States.Current())
	}

	g.Menu()
	g.Start()
	if !g.States.Is(state.Playing) {
		t.Fatalf("state after Start = %q", g.States.Current())
	}

	runFrames(g, time.Now(), 120)

	if g.ScoreModule().Current() == 0 {
		t.Error("score did not advance over 120 frames")
	}
	if g.Renderer.Layer(render.LayerEntities).Get("player") == nil {
		t.Error("player object missing from entities layer")
	}
	if g.Renderer.Layer(render.LayerWorld).Len() == 0 {
		t.Error("no spikes on the world layer")
	}
	if g.Renderer.Layer(render.LayerBackground).Len() == 0 {
		t.Error("no decoration on the background layer")
	}
	if g.Engine.Frame() != 120 {
		t.Errorf("engine frame = %d, want 120", g.Engine.Frame())
	}
}

func TestFramesCompositeToScreen(t *testing.T) {
	g := newTestGame(t)
	g.Menu()
	g.Start()

	frames := 0
	g.Bus.On("renderer:frame-complete", func(events.Event) { frames++ })

	runFrames(g, time.Now(), 30)

	if frames != 30 {
		t.Errorf("frame-complete count = %d, want 30", frames)
	}

	// The player block is the only '█' content on screen.
	found := false
	for y := 0; y < g.Screen.Height() && !found; y++ {
		for x := 0; x < g.Screen.Width(); x++ {
			if g.Screen.Get(x, y) == '█' {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("player glyph not found in the composited frame")
	}

	// Terrain overlay draws the ground line.
	groundRow := g.Config.Canvas.Height - g.Config.Physics.GroundOffset
	if g.Screen.Get(0, groundRow) != '═' {
		t.Errorf("ground line missing at row %d", groundRow)
	}
}

func TestPauseFreezesRun(t *testing.T) {
	g := newTestGame(t)
	g.Menu()
	g.Start()

	now := runFrames(g, time.Now(), 60)
	score := g.ScoreModule().Current()
	x := g.Player().State().X

	g.HandleAction(core.ActionPause)
	if !g.States.Is(state.Paused) {
		t.Fatalf("state after pause = %q", g.States.Current())
	}

	now = runFrames(g, now, 30)
	if g.ScoreModule().Current() != score {
		t.Error("score advanced while paused")
	}
	if g.Player().State().X != x {
		t.Error("player moved while paused")
	}

	g.HandleAction(core.ActionPause)
	runFrames(g, now, 30)
	if g.ScoreModule().Current() <= score {
		t.Error("score frozen after resume")
	}
}

func TestGameOverAndRestart(t *testing.T) {
	g := newTestGame(t)
	g.Menu()
	g.Start()
	runFrames(g, time.Now(), 60)

	g.Bus.Emit("collision:detected", CollisionPayload{X: 10, Y: 10})
	if !g.States.Is(state.GameOver) {
		t.Fatalf("state after collision = %q", g.States.Current())
	}

	g.HandleAction(core.ActionRestart)
	if !g.States.Is(state.Playing) {
		t.Fatalf("state after restart = %q", g.States.Current())
	}
	if g.Player().State().X != 0 {
		t.Error("player position not reset on restart")
	}
	if got := g.ScoreModule().Current(); got != 0 {
		t.Errorf("score after restart = %d, want 0", got)
	}
}

func TestGameplayActionsIgnoredInMenu(t *testing.T) {
	g := newTestGame(t)
	g.Menu()

	jumps := 0
	g.Bus.On("player:jumped", func(events.Event) { jumps++ })

	g.HandleAction(core.ActionJump)
	if jumps != 0 {
		t.Error("jump fired from the menu")
	}

	g.HandleAction(core.ActionConfirm)
	if !g.States.Is(state.Playing) {
		t.Errorf("confirm in menu did not start a run: %q", g.States.Current())
	}
}

func TestEffectsFollowGameplay(t *testing.T) {
	g := newTestGame(t)
	g.Menu()
	g.Start()
	now := runFrames(g, time.Now(), 5)

	g.HandleAction(core.ActionJump)
	if _, _, particles, _, _ := g.Effects.Counts(); particles == 0 {
		t.Error("jump spawned no particles")
	}

	runFrames(g, now, 5)
	g.HandleAction(core.ActionGravityFlip)
	if g.Effects.PendingDelayed() == 0 {
		t.Error("gravity flip scheduled no delayed waves")
	}
}

func TestHighScorePersistence(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	g, err := New(Options{Config: config.Default(), Seed: 42, Store: store})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Destroy()

	g.Menu()
	g.Start()
	runFrames(g, time.Now(), 120)
	score := g.ScoreModule().Current()
	if score == 0 {
		t.Fatal("no score accumulated")
	}

	g.Bus.Emit("collision:detected", CollisionPayload{})

	runs, err := store.TopRuns(Mode, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d persisted runs, want 1", len(runs))
	}
	if runs[0].Score != score {
		t.Errorf("persisted score = %d, want %d", runs[0].Score, score)
	}
}
