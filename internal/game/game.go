package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/spikepulse/internal/config"
	"github.com/vovakirdan/spikepulse/internal/core"
	"github.com/vovakirdan/spikepulse/internal/effects"
	"github.com/vovakirdan/spikepulse/internal/engine"
	"github.com/vovakirdan/spikepulse/internal/events"
	"github.com/vovakirdan/spikepulse/internal/render"
	"github.com/vovakirdan/spikepulse/internal/state"
	"github.com/vovakirdan/spikepulse/internal/storage"
)

// Options configures a game assembly.
type Options struct {
	Config config.Config
	Seed   int64          // 0 seeds from the clock
	Store  *storage.Store // nil disables persistence
	Logger *log.Logger
}

// Game wires the full Spikepulse stack: bus, state machine, renderer with
// its layer set, effects manager and theme, engine, and every gameplay
// module. The platform layer drives it through Tick and HandleAction and
// reads frames from Screen.
type Game struct {
	Engine   *engine.Engine
	Bus      *events.Bus
	States   *state.Manager
	Renderer *render.Renderer
	Effects  *effects.Manager
	Screen   *core.Screen
	Config   config.Config

	player    *Player
	score     *Score
	obstacles *Obstacles
}

// New assembles and initializes a game. The returned game sits in the
// loading state; call Menu or Start to proceed.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg.Canvas.Width <= 0 || cfg.Canvas.Height <= 0 {
		return nil, fmt.Errorf("game: invalid canvas size %dx%d", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	bus := events.NewBusWithHistory(64)
	screen := core.NewScreen(cfg.Canvas.Width, cfg.Canvas.Height)

	renderer := render.NewRenderer(screen, bus, render.Config{
		EnableEffects:      cfg.Renderer.EnableEffects,
		EnableDirtyRegions: cfg.Renderer.Optimization.EnableDirtyRegions,
		CullMargin:         cfg.Renderer.CullMargin,
	})
	renderer.Bind()
	addLayers(renderer, cfg)

	rng := rand.New(rand.NewSource(seed))
	addStarfield(renderer, rand.New(rand.NewSource(seed)), cfg)

	fx := effects.NewManager(bus, effects.Config{
		EnableParticles:     cfg.Renderer.EnableParticles,
		EnableObjectPooling: cfg.Renderer.Optimization.EnableObjectPooling,
		MaxParticles:        cfg.Renderer.Optimization.MaxParticles,
	})
	renderer.SetEffects(fx)
	theme := effects.NewTheme(fx, rng)

	states := state.NewManager(bus)
	registerStates(states)

	runtime := core.DefaultRuntimeConfig()
	runtime.ScreenW = cfg.Canvas.Width
	runtime.ScreenH = cfg.Canvas.Height
	runtime.Seed = seed

	ctx := &engine.Context{
		Bus:      bus,
		States:   states,
		Renderer: renderer,
		Screen:   screen,
		Effects:  fx,
		Theme:    theme,
		Config:   runtime,
		Logger:   opts.Logger,
		Rand:     rng,
	}

	g := &Game{
		Bus:      bus,
		States:   states,
		Renderer: renderer,
		Effects:  fx,
		Screen:   screen,
		Config:   cfg,

		player:    NewPlayer(cfg),
		score:     NewScore(opts.Store),
		obstacles: NewObstacles(cfg, seed),
	}

	eng := engine.New(ctx, engine.DefaultConfig())
	registrations := []struct {
		m        engine.Module
		priority int
	}{
		{g.player, 100},
		{g.obstacles, 90},
		{NewCameraFollow(cfg), 80},
		{g.score, 70},
		{NewEffectsBridge(), 60},
		{NewTerrain(cfg), 50},
		{NewOverlay(), 40},
	}
	for _, reg := range registrations {
		if err := eng.Register(reg.m, reg.priority); err != nil {
			return nil, err
		}
	}
	eng.Init()
	g.Engine = eng

	states.ChangeState(state.Loading, nil)
	return g, nil
}

// addLayers creates the renderer layers from the configuration.
func addLayers(r *render.Renderer, cfg config.Config) {
	for name, lc := range cfg.Layers {
		l := render.NewLayer(name, lc.ZIndex)
		l.Alpha = lc.Alpha
		l.Visible = lc.Visible
		l.Parallax = lc.Parallax
		l.Static = lc.Static
		r.AddLayer(l)
	}
}

// addStarfield sprinkles deterministic decoration over the background
// layer. Skipped when the configuration defines no background.
func addStarfield(r *render.Renderer, rng *rand.Rand, cfg config.Config) {
	if r.Layer(render.LayerBackground) == nil {
		return
	}
	glyphs := []rune{'·', '·', '·', '✦', '*'}
	for i := 0; i < 30; i++ {
		star := render.NewObject(fmt.Sprintf("star-%d", i), render.KindGlyph)
		star.X = float64(rng.Intn(cfg.Canvas.Width))
		star.Y = float64(rng.Intn(cfg.Canvas.Height - cfg.Physics.GroundOffset))
		star.Glyph = glyphs[rng.Intn(len(glyphs))]
		star.Color = core.ColorDarkGray
		r.AddObject(render.LayerBackground, star)
	}
}

// registerStates installs the phase machine with its transition whitelist.
func registerStates(m *state.Manager) {
	m.Register(&state.State{Name: state.Loading})
	m.Register(&state.State{
		Name:               state.Menu,
		AllowedTransitions: []string{"*"},
	})
	m.Register(&state.State{
		Name:               state.Playing,
		AllowedTransitions: []string{state.Menu, state.Paused, state.GameOver},
	})
	m.Register(&state.State{
		Name:               state.Paused,
		AllowedTransitions: []string{state.Playing},
	})
	m.Register(&state.State{
		Name:               state.GameOver,
		AllowedTransitions: []string{state.Playing},
	})
}

// Menu moves to the menu phase.
func (g *Game) Menu() {
	g.States.ChangeState(state.Menu, nil)
}

// Start begins a run from the menu or restarts after a game over.
func (g *Game) Start() {
	g.States.ChangeState(state.Playing, nil)
}

// TogglePause flips between playing and paused.
func (g *Game) TogglePause() {
	switch g.States.Current() {
	case state.Playing:
		g.States.ChangeState(state.Paused, nil)
	case state.Paused:
		g.States.ChangeState(state.Playing, nil)
	}
}

// HandleAction routes a normalized input action: gameplay actions become
// input events, meta actions drive the phase machine.
func (g *Game) HandleAction(a core.Action) {
	switch a {
	case core.ActionJump, core.ActionDash, core.ActionGravityFlip:
		if g.States.Is(state.Playing) {
			g.Bus.Emit(a.EventName(), nil)
		}
	case core.ActionPause:
		g.TogglePause()
	case core.ActionRestart:
		if g.States.Is(state.GameOver) || g.States.Is(state.Menu) {
			g.Start()
		}
	case core.ActionConfirm:
		if g.States.Is(state.Menu) {
			g.Start()
		}
	case core.ActionBack:
		g.Menu()
	}
}

// Tick advances the whole stack by one frame.
func (g *Game) Tick(now time.Time) {
	g.Engine.Tick(now)
}

// Player returns the player module.
func (g *Game) Player() *Player {
	return g.player
}

// ScoreModule returns the scoring module.
func (g *Game) ScoreModule() *Score {
	return g.score
}

// ObstaclesModule returns the spike field module.
func (g *Game) ObstaclesModule() *Obstacles {
	return g.obstacles
}

// Resize adapts the renderer to a new terminal size. The simulation keeps
// using the configured canvas height; only the viewport changes.
func (g *Game) Resize(width, height int) {
	g.Renderer.Resize(width, height)
}

// Destroy tears down the engine and every module.
func (g *Game) Destroy() {
	g.Engine.Destroy()
}
