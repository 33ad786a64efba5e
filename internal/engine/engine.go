package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/vovakirdan/spikepulse/internal/events"
	"github.com/vovakirdan/spikepulse/internal/state"
)

// Config tunes the engine loop.
type Config struct {
	// MaxDelta clamps the per-tick delta so a stalled terminal does not
	// produce one huge catch-up step.
	MaxDelta time.Duration

	// PerfInterval is the number of frames between performance events.
	PerfInterval int
}

// DefaultConfig returns the loop defaults.
func DefaultConfig() Config {
	return Config{
		MaxDelta:     100 * time.Millisecond,
		PerfInterval: 60,
	}
}

// ModuleErrorPayload is the payload of "engine:module-error" events.
type ModuleErrorPayload struct {
	Module    string
	Phase     string // "init", "update" or "render"
	Recovered any
}

// PerformancePayload is the payload of "engine:performance-update" events.
type PerformancePayload struct {
	Frame      uint64
	FPS        float64
	UpdateTime time.Duration
	RenderTime time.Duration
	Modules    int
}

// entry wraps a registered module with its scheduling state.
type entry struct {
	module      Module
	priority    int
	initialized bool
	enabled     bool
	lastUpdate  time.Duration
	lastRender  time.Duration

	// Capabilities resolved once at registration.
	updatable  Updatable
	renderable Renderable
	stateAware StateAware
}

// Engine owns the module registry and the tick loop. The platform layer
// calls Tick once per animation frame; within a tick, update always fully
// completes before render begins, and modules run in descending priority
// order in both phases.
type Engine struct {
	ctx     *Context
	cfg     Config
	modules []*entry
	byName  map[string]*entry

	running  bool
	lastTick time.Time
	frame    uint64

	updateTime time.Duration
	renderTime time.Duration
}

// New creates an engine over the shared context.
func New(ctx *Context, cfg Config) *Engine {
	if cfg.MaxDelta <= 0 {
		cfg.MaxDelta = DefaultConfig().MaxDelta
	}
	if cfg.PerfInterval <= 0 {
		cfg.PerfInterval = DefaultConfig().PerfInterval
	}
	return &Engine{
		ctx:    ctx,
		cfg:    cfg,
		byName: make(map[string]*entry),
	}
}

// Context returns the shared subsystem context.
func (e *Engine) Context() *Context {
	return e.ctx
}

// Register adds a module with the given priority. Higher priorities update
// and render first. Registering a duplicate name is an error.
func (e *Engine) Register(m Module, priority int) error {
	if _, exists := e.byName[m.Name()]; exists {
		return fmt.Errorf("engine: module %q already registered", m.Name())
	}

	ent := &entry{
		module:   m,
		priority: priority,
		enabled:  true,
	}
	ent.updatable, _ = m.(Updatable)
	ent.renderable, _ = m.(Renderable)
	ent.stateAware, _ = m.(StateAware)

	e.modules = append(e.modules, ent)
	e.byName[m.Name()] = ent
	sort.SliceStable(e.modules, func(i, j int) bool {
		return e.modules[i].priority > e.modules[j].priority
	})
	return nil
}

// IsEnabled reports whether the named module is still scheduled.
func (e *Engine) IsEnabled(name string) bool {
	ent, ok := e.byName[name]
	return ok && ent.enabled
}

// SetEnabled re-enables or disables a module by name.
func (e *Engine) SetEnabled(name string, enabled bool) {
	if ent, ok := e.byName[name]; ok {
		ent.enabled = enabled
	}
}

// Init initializes every registered module in priority order and wires the
// state-machine bridge. A module whose Init fails or panics is disabled
// and reported; engine startup continues.
func (e *Engine) Init() {
	e.ctx.Bus.SetErrorHandler(func(event string, recovered any) {
		if e.ctx.Logger != nil {
			e.ctx.Logger.Error("listener panic", "event", event, "recovered", recovered)
		}
	})
	e.bindStateBridge()

	for _, ent := range e.modules {
		init, ok := ent.module.(Initializable)
		if !ok {
			ent.initialized = true
			continue
		}
		if err := e.initGuarded(ent, init); err != nil {
			ent.enabled = false
			if e.ctx.Logger != nil {
				e.ctx.Logger.Error("module init failed", "module", ent.module.Name(), "error", err)
			}
			continue
		}
		ent.initialized = true
	}
	e.running = true
}

func (e *Engine) initGuarded(ent *entry, init Initializable) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			e.ctx.Bus.Emit("engine:module-error", ModuleErrorPayload{
				Module: ent.module.Name(), Phase: "init", Recovered: r,
			})
		}
	}()
	return init.Init(e.ctx)
}

// bindStateBridge forwards phase transitions to StateAware modules and
// maps them to the coarse game lifecycle events.
func (e *Engine) bindStateBridge() {
	e.ctx.Bus.OnOwned("state:changed", func(ev events.Event) {
		p, ok := ev.Payload.(state.ChangePayload)
		if !ok {
			return
		}
		for _, ent := range e.modules {
			if ent.stateAware != nil && ent.enabled {
				ent.stateAware.OnStateChange(p.From, p.To, p.Data)
			}
		}

		switch p.To {
		case state.Playing:
			if p.From != state.Paused {
				e.ctx.Bus.Emit("game:start", nil)
			}
		case state.GameOver:
			e.ctx.Bus.Emit("game:game-over", nil)
		case state.Menu:
			if p.From == state.Playing || p.From == state.Paused || p.From == state.GameOver {
				e.ctx.Bus.Emit("game:stop", nil)
			}
		}
	}, e)
}

// Tick runs one frame: clamped delta, update phase (state machine, then
// modules by priority, then effect lifecycles), render phase (renderer
// composites layers and effects, then module overlays), and periodic
// performance events.
func (e *Engine) Tick(now time.Time) {
	if !e.running {
		return
	}

	var delta time.Duration
	if !e.lastTick.IsZero() {
		delta = now.Sub(e.lastTick)
		if delta > e.cfg.MaxDelta {
			delta = e.cfg.MaxDelta
		}
		if delta < 0 {
			delta = 0
		}
	}
	e.lastTick = now
	dt := delta.Seconds()

	updateStart := time.Now()
	e.ctx.States.Update(dt)
	for _, ent := range e.modules {
		if !ent.enabled || !ent.initialized || ent.updatable == nil {
			continue
		}
		start := time.Now()
		e.runGuarded(ent, "update", func() { ent.updatable.Update(dt) })
		ent.lastUpdate = time.Since(start)
	}
	if e.ctx.Effects != nil {
		e.ctx.Effects.Update(dt)
	}
	e.updateTime = time.Since(updateStart)

	renderStart := time.Now()
	screen := e.ctx.Screen
	if e.ctx.Renderer != nil {
		e.ctx.Renderer.Render()
		screen = e.ctx.Renderer.Screen()
	}
	if screen != nil {
		for _, ent := range e.modules {
			if !ent.enabled || !ent.initialized || ent.renderable == nil {
				continue
			}
			start := time.Now()
			e.runGuarded(ent, "render", func() { ent.renderable.Render(screen) })
			ent.lastRender = time.Since(start)
		}
	}
	e.renderTime = time.Since(renderStart)

	e.frame++
	if e.frame%uint64(e.cfg.PerfInterval) == 0 {
		e.emitPerformance(delta)
	}
}

// runGuarded executes a module phase, disabling the module for the rest of
// the session if it panics. The frame itself always completes.
func (e *Engine) runGuarded(ent *entry, phase string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			ent.enabled = false
			e.ctx.Bus.Emit("engine:module-error", ModuleErrorPayload{
				Module: ent.module.Name(), Phase: phase, Recovered: r,
			})
			if e.ctx.Logger != nil {
				e.ctx.Logger.Error("module disabled after panic",
					"module", ent.module.Name(), "phase", phase, "recovered", r)
			}
		}
	}()
	fn()
}

func (e *Engine) emitPerformance(delta time.Duration) {
	fps := 0.0
	if delta > 0 {
		fps = 1.0 / delta.Seconds()
	}
	e.ctx.Bus.Emit("engine:performance-update", PerformancePayload{
		Frame:      e.frame,
		FPS:        fps,
		UpdateTime: e.updateTime,
		RenderTime: e.renderTime,
		Modules:    len(e.modules),
	})
}

// Frame returns the number of completed ticks.
func (e *Engine) Frame() uint64 {
	return e.frame
}

// Destroy tears the engine down: modules are destroyed in reverse priority
// order, their bus subscriptions dropped, and pending effect waves
// cancelled.
func (e *Engine) Destroy() {
	e.running = false
	for i := len(e.modules) - 1; i >= 0; i-- {
		ent := e.modules[i]
		if d, ok := ent.module.(Destroyable); ok && ent.initialized {
			d.Destroy()
		}
		e.ctx.Bus.OffOwner(ent.module)
	}
	if e.ctx.Effects != nil {
		e.ctx.Effects.Clear()
	}
	if e.ctx.Renderer != nil {
		e.ctx.Renderer.Unbind()
	}
	e.ctx.Bus.OffOwner(e)
}
