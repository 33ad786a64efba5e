// Package engine drives the fixed-priority module loop: each tick computes
// a clamped delta, updates the state machine and every registered module in
// priority order, then renders. A module that panics is disabled for the
// rest of the session instead of crashing the loop.
package engine

import (
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/spikepulse/internal/core"
	"github.com/vovakirdan/spikepulse/internal/effects"
	"github.com/vovakirdan/spikepulse/internal/events"
	"github.com/vovakirdan/spikepulse/internal/render"
	"github.com/vovakirdan/spikepulse/internal/state"
)

// Context carries the shared subsystems injected into modules at Init.
// There are no ambient globals: everything a module needs arrives here.
type Context struct {
	Bus      *events.Bus
	States   *state.Manager
	Renderer *render.Renderer
	// Screen is the composite target handed to Renderable modules when no
	// renderer is installed. With a renderer, its own screen takes precedence.
	Screen  *core.Screen
	Effects *effects.Manager
	Theme   *effects.Theme
	Config  core.RuntimeConfig
	Logger  *log.Logger
	Rand    *rand.Rand
}

// Module is the minimal registration contract. Modules implement a subset
// of the capability interfaces below; the engine checks capabilities at
// registration, not per frame.
type Module interface {
	Name() string
}

// Initializable modules receive the shared context once before the first
// tick. An Init error disables the module but does not stop engine startup.
type Initializable interface {
	Init(ctx *Context) error
}

// Updatable modules advance their simulation each tick.
type Updatable interface {
	Update(dt float64)
}

// Renderable modules draw overlay content (HUD, debug) after the renderer
// has composited layers and effects.
type Renderable interface {
	Render(dst *core.Screen)
}

// Destroyable modules release resources when the engine shuts down.
type Destroyable interface {
	Destroy()
}

// StateAware modules are notified of every game-phase transition.
type StateAware interface {
	OnStateChange(from, to string, data any)
}
