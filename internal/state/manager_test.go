package state

import (
	"testing"

	"github.com/vovakirdan/spikepulse/internal/events"
)

func newTestManager() (*Manager, *events.Bus) {
	bus := events.NewBus()
	m := NewManager(bus)
	return m, bus
}

func registerPhases(m *Manager) {
	m.Register(&State{Name: Loading})
	m.Register(&State{Name: Menu, AllowedTransitions: []string{Loading, Playing, Paused, GameOver}})
	m.Register(&State{Name: Playing, AllowedTransitions: []string{Menu, Paused}})
	m.Register(&State{Name: Paused, AllowedTransitions: []string{Playing}})
	m.Register(&State{Name: GameOver, AllowedTransitions: []string{Playing}})
}

func TestChangeStateRunsCallbacks(t *testing.T) {
	m, _ := newTestManager()

	var entered, exited []string
	m.Register(&State{
		Name:    Menu,
		OnEnter: func(from string, data any) { entered = append(entered, Menu) },
		OnExit:  func(to string) { exited = append(exited, Menu) },
	})
	m.Register(&State{
		Name:    Playing,
		OnEnter: func(from string, data any) { entered = append(entered, Playing) },
	})

	if !m.ChangeState(Menu, nil) {
		t.Fatal("ChangeState(menu) failed")
	}
	if !m.ChangeState(Playing, nil) {
		t.Fatal("ChangeState(playing) failed")
	}

	if len(entered) != 2 || entered[0] != Menu || entered[1] != Playing {
		t.Errorf("entered = %v, want [menu playing]", entered)
	}
	if len(exited) != 1 || exited[0] != Menu {
		t.Errorf("exited = %v, want [menu]", exited)
	}
	if !m.Is(Playing) {
		t.Errorf("current = %q, want playing", m.Current())
	}
}

func TestTransitionWhitelistDenied(t *testing.T) {
	m, bus := newTestManager()
	registerPhases(m)

	var denial DenialPayload
	bus.On("state:transition-denied", func(ev events.Event) {
		denial = ev.Payload.(DenialPayload)
	})

	m.ChangeState(Loading, nil)

	// Paused only allows entry from Playing.
	if m.ChangeState(Paused, nil) {
		t.Error("ChangeState(paused) from loading succeeded, want denial")
	}
	if !m.Is(Loading) {
		t.Errorf("current = %q after denied transition, want loading", m.Current())
	}
	if denial.To != Paused {
		t.Errorf("denial payload = %+v, want To=paused", denial)
	}
}

func TestUnknownStateDenied(t *testing.T) {
	m, _ := newTestManager()
	registerPhases(m)
	m.ChangeState(Loading, nil)

	if m.ChangeState("warp", nil) {
		t.Error("ChangeState to unknown state succeeded")
	}
	if !m.Is(Loading) {
		t.Errorf("current = %q, want loading", m.Current())
	}
}

func TestForceChangeStateBypassesWhitelist(t *testing.T) {
	m, _ := newTestManager()
	registerPhases(m)
	m.ChangeState(Loading, nil)

	if !m.ForceChangeState(Paused, nil) {
		t.Error("ForceChangeState(paused) failed")
	}
	if !m.Is(Paused) {
		t.Errorf("current = %q, want paused", m.Current())
	}
}

func TestReentrantTransitionDenied(t *testing.T) {
	m, _ := newTestManager()

	var nested bool
	m.Register(&State{Name: Menu})
	m.Register(&State{
		Name: Playing,
		OnEnter: func(from string, data any) {
			nested = m.ChangeState(Menu, nil)
		},
	})

	m.ChangeState(Menu, nil)
	m.ChangeState(Playing, nil)

	if nested {
		t.Error("nested ChangeState from OnEnter succeeded, want denial")
	}
	if !m.Is(Playing) {
		t.Errorf("current = %q, want playing", m.Current())
	}
}

func TestEnterPanicEmitsErrorAndClearsGuard(t *testing.T) {
	m, bus := newTestManager()

	var errPayload ErrorPayload
	bus.On("state:error", func(ev events.Event) {
		errPayload = ev.Payload.(ErrorPayload)
	})

	m.Register(&State{Name: Menu})
	m.Register(&State{
		Name:    GameOver,
		OnEnter: func(from string, data any) { panic("broken enter") },
	})

	m.ChangeState(Menu, nil)
	histBefore := len(m.History())

	if m.ChangeState(GameOver, nil) {
		t.Error("ChangeState with panicking OnEnter reported success")
	}
	if errPayload.Recovered != "broken enter" {
		t.Errorf("state:error payload = %+v", errPayload)
	}

	// No partial transition: the manager stays in its last valid state
	// and the failed attempt leaves no trace in history or metrics.
	if !m.Is(Menu) {
		t.Errorf("current = %q after failed transition, want menu", m.Current())
	}
	if got := len(m.History()); got != histBefore {
		t.Errorf("history grew to %d entries after failed transition, want %d", got, histBefore)
	}
	if met, _ := m.MetricsFor(GameOver); met.Entries != 0 {
		t.Errorf("gameOver entries = %d after failed transition, want 0", met.Entries)
	}

	// The guard must be cleared so the FSM is not permanently stuck.
	if !m.ChangeState(Menu, nil) {
		t.Error("manager stuck after enter panic")
	}
}

func TestExitPanicKeepsCurrentState(t *testing.T) {
	m, bus := newTestManager()

	var errPayload ErrorPayload
	bus.On("state:error", func(ev events.Event) {
		errPayload = ev.Payload.(ErrorPayload)
	})

	m.Register(&State{
		Name:   Playing,
		OnExit: func(to string) { panic("broken exit") },
	})
	m.Register(&State{Name: Menu})

	m.ChangeState(Playing, nil)
	if m.ChangeState(Menu, nil) {
		t.Error("ChangeState with panicking OnExit reported success")
	}
	if !m.Is(Playing) {
		t.Errorf("current = %q after failed transition, want playing", m.Current())
	}
	if errPayload.Phase != "exit" || errPayload.Recovered != "broken exit" {
		t.Errorf("state:error payload = %+v", errPayload)
	}
}

func TestHistoryAndMetrics(t *testing.T) {
	m, _ := newTestManager()
	registerPhases(m)

	m.ChangeState(Loading, nil)
	m.ChangeState(Menu, nil)
	m.ChangeState(Playing, nil)

	hist := m.History()
	if len(hist) != 3 {
		t.Fatalf("history length = %d, want 3", len(hist))
	}
	if hist[1].From != Loading || hist[1].To != Menu {
		t.Errorf("history[1] = %+v, want loading->menu", hist[1])
	}

	met, ok := m.MetricsFor(Menu)
	if !ok {
		t.Fatal("MetricsFor(menu) found nothing")
	}
	if met.Entries != 1 {
		t.Errorf("menu entries = %d, want 1", met.Entries)
	}
}

func TestChangeStateEmitsChangedEvent(t *testing.T) {
	m, bus := newTestManager()
	registerPhases(m)

	var changes []ChangePayload
	bus.On("state:changed", func(ev events.Event) {
		changes = append(changes, ev.Payload.(ChangePayload))
	})

	m.ChangeState(Loading, nil)
	m.ChangeState(Menu, "hello")

	if len(changes) != 2 {
		t.Fatalf("got %d state:changed events, want 2", len(changes))
	}
	if changes[1].From != Loading || changes[1].To != Menu || changes[1].Data != "hello" {
		t.Errorf("change payload = %+v", changes[1])
	}
}
