// Package effects owns the typed effect collections (screen flashes, glow,
// particles, trails, UI effects), drives their lifecycle each frame and
// renders them in a fixed compositing order on top of the composited
// layers. Effect instances are pooled to avoid per-frame allocation.
package effects

import "github.com/vovakirdan/spikepulse/internal/core"

// ParticleKind selects the type-specific update rule for a particle.
type ParticleKind uint8

const (
	ParticleDefault ParticleKind = iota
	ParticleSpark                // shrinks 0.98x per frame
	ParticleSmoke                // grows 1.02x per frame, extra 0.95x alpha decay
	ParticleEnergy               // size pulses around BaseSize
	ParticleDebris
)

// Particle is a pooled effect record. Alpha is derived from the life ratio
// every update and is monotonically non-increasing absent an external reset.
type Particle struct {
	X, Y     float64
	VX, VY   float64
	Life     float64 // seconds remaining
	MaxLife  float64
	Size     float64
	BaseSize float64
	Gravity  float64 // world units per second squared
	Friction float64 // per-frame velocity damping factor
	Color    core.Color
	Kind     ParticleKind
	Alpha    float64
	Active   bool

	fade float64 // smoke-only compounding alpha decay
}

func newParticle() *Particle { return &Particle{} }

func resetParticle(p *Particle) {
	*p = Particle{}
}

// Glow is a pooled radial glow effect. With PulseSpeed > 0 the intensity
// oscillates sinusoidally around BaseIntensity, bounded within +-30%.
type Glow struct {
	X, Y          float64
	Radius        float64
	Intensity     float64
	BaseIntensity float64
	PulseSpeed    float64
	Life          float64
	MaxLife       float64
	Color         core.Color
	Active        bool
}

func newGlow() *Glow { return &Glow{} }

func resetGlow(g *Glow) {
	*g = Glow{}
}

// TrailSegment is one pooled sample of a trail. Segments expire
// independently of the parent trail's own life counter.
type TrailSegment struct {
	X, Y   float64
	Alpha  float64
	Age    float64
	MaxAge float64
	Active bool
}

func newSegment() *TrailSegment { return &TrailSegment{} }

func resetSegment(s *TrailSegment) {
	*s = TrailSegment{}
}

// Trail is an ordered sequence of segments following a moving source.
type Trail struct {
	Segments []*TrailSegment
	Life     float64
	MaxLife  float64
	Color    core.Color
	Active   bool
}

// ScreenEffect is a whole-viewport effect (flash). It renders under every
// other effect type.
type ScreenEffect struct {
	Kind    string // "flash"
	Color   core.Color
	Life    float64
	MaxLife float64
	Alpha   float64
	Active  bool
}

// UIEffect is a short-lived text overlay (hover pulses, score popups).
// It renders above every other effect type.
type UIEffect struct {
	X, Y    float64
	Text    string
	Color   core.Color
	Life    float64
	MaxLife float64
	Alpha   float64
	Active  bool
}
