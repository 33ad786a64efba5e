// Package state implements the finite-state machine governing coarse game
// phases (loading, menu, playing, paused, gameOver). Transitions are
// whitelisted per state and every outcome is surfaced as a bus event, so
// UI and gameplay modules react to phase changes without referencing the
// manager directly.
package state

import (
	"time"

	"github.com/vovakirdan/spikepulse/internal/events"
)

// Built-in phase names. The set is open-ended: any registered state name
// is a valid phase.
const (
	Loading  = "loading"
	Menu     = "menu"
	Playing  = "playing"
	Paused   = "paused"
	GameOver = "gameOver"
)

// DefaultHistorySize bounds the transition history ring buffer.
const DefaultHistorySize = 50

// State describes a single game phase. AllowedTransitions lists the state
// names a transition into this state is permitted from; an empty list or a
// "*" entry allows entry from anywhere.
type State struct {
	Name               string
	AllowedTransitions []string
	OnEnter            func(from string, data any)
	OnExit             func(to string)
	OnUpdate           func(dt float64)
}

// Transition records one completed state change.
type Transition struct {
	From string
	To   string
	At   time.Time
}

// Metrics accumulates per-state timing.
type Metrics struct {
	Entries int
	Total   time.Duration
}

// Average returns the mean time spent per visit to the state.
func (m Metrics) Average() time.Duration {
	if m.Entries == 0 {
		return 0
	}
	return m.Total / time.Duration(m.Entries)
}

// ChangePayload is the payload of "state:changed" events.
type ChangePayload struct {
	From string
	To   string
	Data any
}

// DenialPayload is the payload of "state:transition-denied" events.
type DenialPayload struct {
	From   string
	To     string
	Reason string
}

// ErrorPayload is the payload of "state:error" events.
type ErrorPayload struct {
	State     string
	Phase     string // "enter" or "exit"
	Recovered any
}

// Manager is the game-phase FSM. Exactly one state is current at a time;
// transitions are serialized by the transitioning guard, so a transition
// requested from inside an enter/exit callback is denied rather than
// interleaved.
type Manager struct {
	bus           *events.Bus
	states        map[string]*State
	current       string
	transitioning bool
	enteredAt     time.Time

	history    []Transition
	historyMax int
	metrics    map[string]*Metrics
	clock      func() time.Time
}

// NewManager creates a state manager publishing on the given bus.
func NewManager(bus *events.Bus) *Manager {
	return &Manager{
		bus:        bus,
		states:     make(map[string]*State),
		historyMax: DefaultHistorySize,
		metrics:    make(map[string]*Metrics),
		clock:      time.Now,
	}
}

// Register adds a state definition. Re-registering a name replaces it.
func (m *Manager) Register(s *State) {
	m.states[s.Name] = s
	if _, ok := m.metrics[s.Name]; !ok {
		m.metrics[s.Name] = &Metrics{}
	}
}

// Current returns the name of the current state, or "" before the first
// transition.
func (m *Manager) Current() string {
	return m.current
}

// Is returns true if the named state is current.
func (m *Manager) Is(name string) bool {
	return m.current == name
}

// ChangeState transitions to the named state, running the departing state's
// OnExit and the arriving state's OnEnter. Returns false without changing
// state if the target is unknown, the transition is not whitelisted, or
// another transition is already in flight.
func (m *Manager) ChangeState(name string, data any) bool {
	return m.change(name, data, false)
}

// ForceChangeState bypasses the transition whitelist. Escape hatch for
// error-recovery transitions; the transitioning guard still applies.
func (m *Manager) ForceChangeState(name string, data any) bool {
	return m.change(name, data, true)
}

func (m *Manager) change(name string, data any, force bool) bool {
	if m.transitioning {
		m.deny(name, "transition already in progress")
		return false
	}

	target, ok := m.states[name]
	if !ok {
		m.deny(name, "unknown state")
		return false
	}

	if !force && m.current != "" && !allowed(target, m.current) {
		m.deny(name, "transition not allowed from "+m.current)
		return false
	}

	m.transitioning = true
	defer func() { m.transitioning = false }()

	from := m.current
	now := m.clock()

	if from != "" {
		if st := m.states[from]; st != nil && st.OnExit != nil {
			if !m.guard(from, "exit", func() { st.OnExit(name) }) {
				return false
			}
		}
	}

	if target.OnEnter != nil {
		if !m.guard(name, "enter", func() { target.OnEnter(from, data) }) {
			return false
		}
	}

	// Commit only after both callbacks succeeded: a panicking callback
	// must leave the manager in its last valid state.
	if from != "" {
		if met := m.metrics[from]; met != nil {
			met.Total += now.Sub(m.enteredAt)
		}
	}
	m.current = name
	m.enteredAt = now
	if met := m.metrics[name]; met != nil {
		met.Entries++
	}

	m.record(Transition{From: from, To: name, At: now})
	m.bus.Emit("state:changed", ChangePayload{From: from, To: name, Data: data})
	return true
}

// guard runs a callback, converting a panic into a state:error event.
// Returns false if the callback panicked.
func (m *Manager) guard(state, phase string, fn func()) (ok bool) {
	ok = true
	defer func() {
		if r := recover(); r != nil {
			ok = false
			m.bus.Emit("state:error", ErrorPayload{State: state, Phase: phase, Recovered: r})
		}
	}()
	fn()
	return ok
}

func (m *Manager) deny(target, reason string) {
	m.bus.Emit("state:transition-denied", DenialPayload{
		From:   m.current,
		To:     target,
		Reason: reason,
	})
}

func allowed(target *State, from string) bool {
	if len(target.AllowedTransitions) == 0 {
		return true
	}
	for _, name := range target.AllowedTransitions {
		if name == "*" || name == from {
			return true
		}
	}
	return false
}

func (m *Manager) record(t Transition) {
	m.history = append(m.history, t)
	if len(m.history) > m.historyMax {
		m.history = m.history[len(m.history)-m.historyMax:]
	}
}

// Update forwards the frame delta to the current state's OnUpdate.
func (m *Manager) Update(dt float64) {
	if st := m.states[m.current]; st != nil && st.OnUpdate != nil {
		st.OnUpdate(dt)
	}
}

// History returns a copy of the bounded transition history, oldest first.
func (m *Manager) History() []Transition {
	out := make([]Transition, len(m.history))
	copy(out, m.history)
	return out
}

// MetricsFor returns the accumulated timing metrics for a state. Time in
// the current state is not included until the state is exited.
func (m *Manager) MetricsFor(name string) (Metrics, bool) {
	met, ok := m.metrics[name]
	if !ok {
		return Metrics{}, false
	}
	return *met, true
}
