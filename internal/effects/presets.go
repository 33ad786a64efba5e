package effects

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/spikepulse/internal/core"
)

// Theme maps high-level gameplay moments (jump, dash, gravity flip,
// collision, UI hover) to parameterized effect presets. It is pure
// translation into Manager spawn calls; no physics lives here.
type Theme struct {
	fx  *Manager
	rng *rand.Rand
}

// NewTheme creates the Spikepulse preset layer over an effects manager.
func NewTheme(fx *Manager, rng *rand.Rand) *Theme {
	return &Theme{fx: fx, rng: rng}
}

// BurstSpec parameterizes a particle burst.
type BurstSpec struct {
	Count    int
	SpeedMin float64
	SpeedMax float64
	Life     float64
	Size     float64
	Gravity  float64
	Friction float64
	Color    core.Color
	Kind     ParticleKind
}

// Burst emits particles from (x, y). With a direction the emission angles
// are drawn from a cone of base +- 0.4pi around the direction; without one
// the particles fan out over the full circle at evenly spaced slots with
// up to 0.5 rad of jitter. The asymmetry is deliberate: dash reads as
// directional, jump and impacts read as omnidirectional.
func (t *Theme) Burst(x, y float64, dir *core.Vec2, spec BurstSpec) {
	for i := 0; i < spec.Count; i++ {
		var angle float64
		if dir != nil {
			base := math.Atan2(dir.Y, dir.X)
			angle = base + (t.rng.Float64()-0.5)*0.8*math.Pi
		} else {
			angle = 2*math.Pi*float64(i)/float64(spec.Count) + t.rng.Float64()*0.5
		}

		speed := spec.SpeedMin + t.rng.Float64()*(spec.SpeedMax-spec.SpeedMin)
		t.fx.SpawnParticle(ParticleSpec{
			X: x, Y: y,
			VX:       math.Cos(angle) * speed,
			VY:       math.Sin(angle) * speed,
			Life:     spec.Life,
			Size:     spec.Size,
			Gravity:  spec.Gravity,
			Friction: spec.Friction,
			Color:    spec.Color,
			Kind:     spec.Kind,
		})
	}
}

// Jump is an omnidirectional spark ring with a brief glow at the feet.
func (t *Theme) Jump(x, y float64) {
	t.Burst(x, y, nil, BurstSpec{
		Count:    8,
		SpeedMin: 6, SpeedMax: 14,
		Life: 0.4, Size: 1,
		Gravity:  20,
		Friction: 0.96,
		Color:    core.ColorBrightCyan,
		Kind:     ParticleSpark,
	})
	t.fx.SpawnGlow(GlowSpec{
		X: x, Y: y,
		Radius:    3,
		Intensity: 0.8,
		Life:      0.25,
		Color:     core.ColorCyan,
	})
}

// Dash is a directional spark cone along the dash direction plus a
// pulsing glow on the player.
func (t *Theme) Dash(x, y float64, dir core.Vec2) {
	t.Burst(x, y, &dir, BurstSpec{
		Count:    15,
		SpeedMin: 10, SpeedMax: 24,
		Life: 0.35, Size: 1,
		Friction: 0.94,
		Color:    core.ColorBrightYellow,
		Kind:     ParticleSpark,
	})
	t.fx.SpawnGlow(GlowSpec{
		X: x, Y: y,
		Radius:     2,
		Intensity:  1.0,
		PulseSpeed: 8,
		Life:       0.3,
		Color:      core.ColorYellow,
	})
}

// GravityFlip is a three-wave energy pulse staggered over frames via the
// manager's delay queue, under a short magenta screen flash.
func (t *Theme) GravityFlip(x, y float64, dir core.Vec2) {
	t.fx.SpawnScreenFlash(core.ColorMagenta, 0.15)

	wave := func() {
		t.Burst(x, y, nil, BurstSpec{
			Count:    6,
			SpeedMin: 4, SpeedMax: 10,
			Life: 0.5, Size: 1,
			Color: core.ColorBrightMagenta,
			Kind:  ParticleEnergy,
		})
	}
	wave()
	t.fx.After(4, t, wave)
	t.fx.After(8, t, wave)
}

// Collision is a debris explosion with a red flash and a fading glow at
// the impact point.
func (t *Theme) Collision(x, y float64) {
	t.fx.SpawnScreenFlash(core.ColorRed, 0.3)
	t.Burst(x, y, nil, BurstSpec{
		Count:    12,
		SpeedMin: 8, SpeedMax: 20,
		Life: 0.6, Size: 1,
		Gravity:  30,
		Friction: 0.97,
		Color:    core.ColorBrightRed,
		Kind:     ParticleDebris,
	})
	t.fx.SpawnGlow(GlowSpec{
		X: x, Y: y,
		Radius:    4,
		Intensity: 1.0,
		Life:      0.5,
		Color:     core.ColorOrange,
	})
}

// Landing is a low smoke puff spreading sideways from the contact point.
func (t *Theme) Landing(x, y float64) {
	for _, side := range []float64{-1, 1} {
		dir := core.Vec2{X: side, Y: 0}
		t.Burst(x, y, &dir, BurstSpec{
			Count:    3,
			SpeedMin: 3, SpeedMax: 7,
			Life: 0.45, Size: 1,
			Friction: 0.92,
			Color:    core.ColorGray,
			Kind:     ParticleSmoke,
		})
	}
}

// UIHover is a brief text shimmer used by menu highlights.
func (t *Theme) UIHover(x, y float64, text string) {
	t.fx.SpawnUIText(x, y, text, core.ColorBrightWhite, 0.4)
}

// Cancel drops the theme's pending multi-wave sequences.
func (t *Theme) Cancel() {
	t.fx.CancelOwner(t)
}
