package effects

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/spikepulse/internal/core"
	"github.com/vovakirdan/spikepulse/internal/events"
)

func newTestTheme(t *testing.T) (*Theme, *Manager) {
	t.Helper()
	m := NewManager(events.NewBus(), DefaultConfig())
	return NewTheme(m, rand.New(rand.NewSource(1))), m
}

// normalizeAngle maps an angle into (-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func TestDirectionalBurstStaysInCone(t *testing.T) {
	theme, m := newTestTheme(t)

	dir := core.Vec2{X: 1, Y: 0}
	theme.Burst(0, 0, &dir, BurstSpec{
		Count:    15,
		SpeedMin: 5, SpeedMax: 10,
		Life: 1, Size: 1,
		Kind: ParticleSpark,
	})

	particles := m.Particles()
	if len(particles) != 15 {
		t.Fatalf("got %d particles, want 15", len(particles))
	}

	limit := 0.4 * math.Pi
	for i, p := range particles {
		angle := normalizeAngle(math.Atan2(p.VY, p.VX))
		if angle < -limit-1e-9 || angle > limit+1e-9 {
			t.Errorf("particle %d angle %v outside [-0.4pi, 0.4pi]", i, angle)
		}
	}
}

func TestCircularBurstCoversFullCircle(t *testing.T) {
	theme, m := newTestTheme(t)

	const count = 8
	theme.Burst(0, 0, nil, BurstSpec{
		Count:    count,
		SpeedMin: 5, SpeedMax: 10,
		Life: 1, Size: 1,
	})

	particles := m.Particles()
	if len(particles) != count {
		t.Fatalf("got %d particles, want %d", len(particles), count)
	}

	slot := 2 * math.Pi / count
	for i, p := range particles {
		angle := math.Atan2(p.VY, p.VX)
		if angle < 0 {
			angle += 2 * math.Pi
		}
		expected := slot * float64(i)
		diff := angle - expected
		// Each particle sits at its slot plus [0, 0.5) jitter.
		if diff < -1e-9 || diff >= 0.5+slot {
			t.Errorf("particle %d angle %v too far from slot %v", i, angle, expected)
		}
	}
}

func TestDashPresetIsDirectional(t *testing.T) {
	theme, m := newTestTheme(t)

	theme.Dash(10, 5, core.Vec2{X: 1, Y: 0})

	particles := m.Particles()
	if len(particles) != 15 {
		t.Fatalf("dash spawned %d particles, want 15", len(particles))
	}
	limit := 0.4 * math.Pi
	for i, p := range particles {
		angle := normalizeAngle(math.Atan2(p.VY, p.VX))
		if angle < -limit-1e-9 || angle > limit+1e-9 {
			t.Errorf("dash particle %d angle %v outside cone", i, angle)
		}
	}
	if len(m.Glows()) != 1 {
		t.Errorf("dash spawned %d glows, want 1", len(m.Glows()))
	}
}

func TestGravityFlipSchedulesWaves(t *testing.T) {
	theme, m := newTestTheme(t)

	theme.GravityFlip(0, 0, core.Vec2{Y: -1})

	if _, _, particles, _, _ := m.Counts(); particles != 6 {
		t.Errorf("first wave spawned %d particles, want 6", particles)
	}
	if m.PendingDelayed() != 2 {
		t.Errorf("pending waves = %d, want 2", m.PendingDelayed())
	}

	// Advance past both scheduled waves.
	for i := 0; i < 10; i++ {
		m.Update(frameDt)
	}
	if _, _, particles, _, _ := m.Counts(); particles != 18 {
		t.Errorf("total particles after all waves = %d, want 18", particles)
	}
}

func TestThemeCancelDropsScheduledWaves(t *testing.T) {
	theme, m := newTestTheme(t)

	theme.GravityFlip(0, 0, core.Vec2{Y: -1})
	theme.Cancel()

	if m.PendingDelayed() != 0 {
		t.Errorf("pending waves = %d after Cancel, want 0", m.PendingDelayed())
	}
}

func TestCollisionPresetFlashesScreen(t *testing.T) {
	theme, m := newTestTheme(t)

	theme.Collision(3, 3)

	screenFX, glows, particles, _, _ := m.Counts()
	if screenFX != 1 {
		t.Errorf("screen effects = %d, want 1", screenFX)
	}
	if glows != 1 {
		t.Errorf("glows = %d, want 1", glows)
	}
	if particles != 12 {
		t.Errorf("particles = %d, want 12", particles)
	}
}
