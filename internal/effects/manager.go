package effects

import (
	"math"

	"github.com/vovakirdan/spikepulse/internal/core"
	"github.com/vovakirdan/spikepulse/internal/events"
	"github.com/vovakirdan/spikepulse/internal/pool"
)

// Config controls the effect subsystem.
type Config struct {
	EnableParticles     bool
	EnableObjectPooling bool
	MaxParticles        int
}

// DefaultConfig returns the effect defaults.
func DefaultConfig() Config {
	return Config{
		EnableParticles:     true,
		EnableObjectPooling: true,
		MaxParticles:        256,
	}
}

// ParticleSpec carries caller-supplied field overrides for SpawnParticle.
type ParticleSpec struct {
	X, Y     float64
	VX, VY   float64
	Life     float64
	Size     float64
	Gravity  float64
	Friction float64
	Color    core.Color
	Kind     ParticleKind
}

// GlowSpec carries caller-supplied field overrides for SpawnGlow.
type GlowSpec struct {
	X, Y       float64
	Radius     float64
	Intensity  float64
	PulseSpeed float64
	Life       float64
	Color      core.Color
}

// TrailSpec configures a new trail.
type TrailSpec struct {
	Life       float64
	SegmentAge float64
	Color      core.Color
}

// delayedCall is a frame-counted deferred action. Owner-keyed so pending
// waves can be cancelled when their owner goes away (unlike timer-based
// scheduling, which has no cancellation token).
type delayedCall struct {
	frames int
	owner  any
	fn     func()
}

// Manager owns the five typed effect collections and their pools. Update
// advances every effect's lifecycle; the render pass draws them in the
// fixed compositing order screen -> glow -> particles -> trails -> ui.
type Manager struct {
	bus *events.Bus
	cfg Config

	particlePool *pool.Pool[*Particle]
	glowPool     *pool.Pool[*Glow]
	segmentPool  *pool.Pool[*TrailSegment]

	screenFX  []*ScreenEffect
	glows     []*Glow
	particles []*Particle
	trails    []*Trail
	uiFX      []*UIEffect

	delayed []delayedCall
	nowMs   float64 // milliseconds since manager creation, fed by Update
}

// NewManager creates an effects manager publishing on the given bus.
func NewManager(bus *events.Bus, cfg Config) *Manager {
	initial := cfg.MaxParticles / 4
	if initial < 16 {
		initial = 16
	}
	return &Manager{
		bus:          bus,
		cfg:          cfg,
		particlePool: pool.New(newParticle, resetParticle, initial),
		glowPool:     pool.New(newGlow, resetGlow, 8),
		segmentPool:  pool.New(newSegment, resetSegment, 64),
	}
}

// Now returns the manager clock in milliseconds. The pulse formulas for
// energy particles and glow intensity read it.
func (m *Manager) Now() float64 {
	return m.nowMs
}

// SpawnParticle acquires a pooled particle, applies the spec and activates
// it. Returns nil when particles are disabled. At the particle cap the
// oldest particle is recycled first.
func (m *Manager) SpawnParticle(spec ParticleSpec) *Particle {
	if !m.cfg.EnableParticles {
		return nil
	}
	if m.cfg.MaxParticles > 0 && len(m.particles) >= m.cfg.MaxParticles {
		m.releaseParticleAt(0)
	}

	p := m.acquireParticle()
	p.X, p.Y = spec.X, spec.Y
	p.VX, p.VY = spec.VX, spec.VY
	p.Life = spec.Life
	p.MaxLife = spec.Life
	p.Size = spec.Size
	p.BaseSize = spec.Size
	p.Gravity = spec.Gravity
	p.Friction = spec.Friction
	if p.Friction == 0 {
		p.Friction = 1.0
	}
	p.Color = spec.Color
	p.Kind = spec.Kind
	p.Alpha = 1.0
	p.fade = 1.0
	p.Active = true

	m.particles = append(m.particles, p)
	return p
}

// SpawnGlow acquires a pooled glow effect and activates it.
func (m *Manager) SpawnGlow(spec GlowSpec) *Glow {
	g := m.acquireGlow()
	g.X, g.Y = spec.X, spec.Y
	g.Radius = spec.Radius
	g.Intensity = spec.Intensity
	g.BaseIntensity = spec.Intensity
	g.PulseSpeed = spec.PulseSpeed
	g.Life = spec.Life
	g.MaxLife = spec.Life
	g.Color = spec.Color
	g.Active = true

	m.glows = append(m.glows, g)
	return g
}

// SpawnTrail creates an empty trail; feed it with ExtendTrail as the
// source moves.
func (m *Manager) SpawnTrail(spec TrailSpec) *Trail {
	t := &Trail{
		Life:    spec.Life,
		MaxLife: spec.Life,
		Color:   spec.Color,
		Active:  true,
	}
	m.trails = append(m.trails, t)
	return t
}

// ExtendTrail appends a pooled segment at the given position.
func (m *Manager) ExtendTrail(t *Trail, x, y, maxAge float64) {
	if t == nil || !t.Active {
		return
	}
	s := m.acquireSegment()
	s.X, s.Y = x, y
	s.Alpha = 1.0
	s.Age = 0
	s.MaxAge = maxAge
	s.Active = true
	t.Segments = append(t.Segments, s)
}

// SpawnScreenFlash creates a whole-viewport flash.
func (m *Manager) SpawnScreenFlash(color core.Color, life float64) *ScreenEffect {
	fx := &ScreenEffect{
		Kind:    "flash",
		Color:   color,
		Life:    life,
		MaxLife: life,
		Alpha:   1.0,
		Active:  true,
	}
	m.screenFX = append(m.screenFX, fx)
	return fx
}

// SpawnUIText creates a short-lived text overlay at a screen position.
func (m *Manager) SpawnUIText(x, y float64, text string, color core.Color, life float64) *UIEffect {
	fx := &UIEffect{
		X: x, Y: y,
		Text:    text,
		Color:   color,
		Life:    life,
		MaxLife: life,
		Alpha:   1.0,
		Active:  true,
	}
	m.uiFX = append(m.uiFX, fx)
	return fx
}

// After schedules fn to run after the given number of frames. Pending
// calls registered with the same owner are dropped by CancelOwner.
func (m *Manager) After(frames int, owner any, fn func()) {
	if frames < 1 {
		frames = 1
	}
	m.delayed = append(m.delayed, delayedCall{frames: frames, owner: owner, fn: fn})
}

// CancelOwner drops every pending delayed call registered by owner.
func (m *Manager) CancelOwner(owner any) {
	kept := m.delayed[:0]
	for _, d := range m.delayed {
		if d.owner != owner {
			kept = append(kept, d)
		}
	}
	m.delayed = kept
}

// Update advances all effect lifecycles by dt seconds: Euler integration
// for particles, pulse modulation for glow and energy kinds, independent
// aging for trail segments, and the frame-counted delay queue. Expired
// effects are spliced out in reverse index order and released to their
// pools.
func (m *Manager) Update(dt float64) {
	m.nowMs += dt * 1000

	m.tickDelayed()
	m.updateParticles(dt)
	m.updateGlows(dt)
	m.updateTrails(dt)
	m.updateScreenFX(dt)
	m.updateUIFX(dt)
}

func (m *Manager) tickDelayed() {
	// Collect due calls first: a fired call may schedule further waves.
	var due []func()
	kept := m.delayed[:0]
	for i := range m.delayed {
		m.delayed[i].frames--
		if m.delayed[i].frames <= 0 {
			due = append(due, m.delayed[i].fn)
		} else {
			kept = append(kept, m.delayed[i])
		}
	}
	m.delayed = kept
	for _, fn := range due {
		fn()
	}
}

func (m *Manager) updateParticles(dt float64) {
	for i := len(m.particles) - 1; i >= 0; i-- {
		p := m.particles[i]

		p.VY += p.Gravity * dt
		p.VX *= p.Friction
		p.VY *= p.Friction
		p.X += p.VX * dt
		p.Y += p.VY * dt
		p.Life -= dt

		lifeAlpha := 0.0
		if p.MaxLife > 0 {
			lifeAlpha = math.Max(0, p.Life/p.MaxLife)
		}

		switch p.Kind {
		case ParticleSpark:
			p.Size *= 0.98
		case ParticleSmoke:
			p.Size *= 1.02
			p.fade *= 0.95
		case ParticleEnergy:
			p.Size = p.BaseSize * (1 + math.Sin(m.nowMs*0.01)*0.2)
		}
		p.Alpha = lifeAlpha * p.fade

		if p.Life <= 0 || !p.Active {
			m.releaseParticleAt(i)
		}
	}
}

func (m *Manager) updateGlows(dt float64) {
	for i := len(m.glows) - 1; i >= 0; i-- {
		g := m.glows[i]
		g.Life -= dt

		if g.PulseSpeed > 0 {
			phase := math.Mod(m.nowMs*g.PulseSpeed*0.001, 2*math.Pi)
			g.Intensity = g.BaseIntensity * (1 + math.Sin(phase)*0.3)
		}

		if g.Life <= 0 || !g.Active {
			g.Active = false
			m.glows = append(m.glows[:i], m.glows[i+1:]...)
			if m.cfg.EnableObjectPooling {
				m.glowPool.Release(g)
			}
		}
	}
}

func (m *Manager) updateTrails(dt float64) {
	for i := len(m.trails) - 1; i >= 0; i-- {
		t := m.trails[i]
		t.Life -= dt

		// Segments expire independently of the parent trail.
		for j := len(t.Segments) - 1; j >= 0; j-- {
			s := t.Segments[j]
			s.Age += dt
			if s.MaxAge > 0 {
				s.Alpha = math.Max(0, 1-s.Age/s.MaxAge)
			}
			if s.Age >= s.MaxAge || !s.Active {
				s.Active = false
				t.Segments = append(t.Segments[:j], t.Segments[j+1:]...)
				if m.cfg.EnableObjectPooling {
					m.segmentPool.Release(s)
				}
			}
		}

		if (t.Life <= 0 && len(t.Segments) == 0) || !t.Active {
			t.Active = false
			for _, s := range t.Segments {
				if m.cfg.EnableObjectPooling {
					m.segmentPool.Release(s)
				}
			}
			t.Segments = nil
			m.trails = append(m.trails[:i], m.trails[i+1:]...)
		}
	}
}

func (m *Manager) updateScreenFX(dt float64) {
	for i := len(m.screenFX) - 1; i >= 0; i-- {
		fx := m.screenFX[i]
		fx.Life -= dt
		if fx.MaxLife > 0 {
			fx.Alpha = math.Max(0, fx.Life/fx.MaxLife)
		}
		if fx.Life <= 0 || !fx.Active {
			fx.Active = false
			m.screenFX = append(m.screenFX[:i], m.screenFX[i+1:]...)
		}
	}
}

func (m *Manager) updateUIFX(dt float64) {
	for i := len(m.uiFX) - 1; i >= 0; i-- {
		fx := m.uiFX[i]
		fx.Life -= dt
		if fx.MaxLife > 0 {
			fx.Alpha = math.Max(0, fx.Life/fx.MaxLife)
		}
		if fx.Life <= 0 || !fx.Active {
			fx.Active = false
			m.uiFX = append(m.uiFX[:i], m.uiFX[i+1:]...)
		}
	}
}

// Counts returns the live effect counts (screen, glow, particle, trail, ui).
func (m *Manager) Counts() (int, int, int, int, int) {
	return len(m.screenFX), len(m.glows), len(m.particles), len(m.trails), len(m.uiFX)
}

// Particles exposes the live particle slice for rendering and tests.
func (m *Manager) Particles() []*Particle {
	return m.particles
}

// Glows exposes the live glow slice.
func (m *Manager) Glows() []*Glow {
	return m.glows
}

// PendingDelayed returns the number of queued delayed calls.
func (m *Manager) PendingDelayed() int {
	return len(m.delayed)
}

// Clear removes every live effect and pending delayed call, releasing
// pooled instances.
func (m *Manager) Clear() {
	for i := len(m.particles) - 1; i >= 0; i-- {
		m.releaseParticleAt(i)
	}
	for _, g := range m.glows {
		if m.cfg.EnableObjectPooling {
			m.glowPool.Release(g)
		}
	}
	m.glows = nil
	for _, t := range m.trails {
		for _, s := range t.Segments {
			if m.cfg.EnableObjectPooling {
				m.segmentPool.Release(s)
			}
		}
	}
	m.trails = nil
	m.screenFX = nil
	m.uiFX = nil
	m.delayed = nil
}

func (m *Manager) acquireParticle() *Particle {
	if m.cfg.EnableObjectPooling {
		return m.particlePool.Acquire()
	}
	return newParticle()
}

func (m *Manager) acquireGlow() *Glow {
	if m.cfg.EnableObjectPooling {
		return m.glowPool.Acquire()
	}
	return newGlow()
}

func (m *Manager) acquireSegment() *TrailSegment {
	if m.cfg.EnableObjectPooling {
		return m.segmentPool.Acquire()
	}
	return newSegment()
}

func (m *Manager) releaseParticleAt(i int) {
	p := m.particles[i]
	p.Active = false
	m.particles = append(m.particles[:i], m.particles[i+1:]...)
	if m.cfg.EnableObjectPooling {
		m.particlePool.Release(p)
	}
}
