package effects

import (
	"math"

	"github.com/vovakirdan/spikepulse/internal/core"
	"github.com/vovakirdan/spikepulse/internal/render"
)

// Glyph ramps indexed by alpha/intensity; dimmer effects use the sparser
// glyphs on the left.
var (
	flashRamp = []rune{'░', '░', '▒', '▓'}
	glowRamp  = []rune{'·', '∘', '○', '◉'}
	trailRamp = []rune{'·', '∙', '●'}
)

func rampRune(ramp []rune, level float64) rune {
	i := int(core.ClampF(level, 0, 0.999) * float64(len(ramp)))
	return ramp[i]
}

func particleRune(kind ParticleKind, alpha float64) rune {
	switch kind {
	case ParticleSpark:
		if alpha > 0.5 {
			return '*'
		}
		return '+'
	case ParticleSmoke:
		if alpha > 0.5 {
			return '▒'
		}
		return '░'
	case ParticleEnergy:
		if alpha > 0.5 {
			return '◆'
		}
		return '◇'
	case ParticleDebris:
		return '▪'
	default:
		return '•'
	}
}

// RenderEffects draws all live effects in the fixed compositing order:
// screen -> glow -> particles -> trails -> ui. The order is load-bearing:
// flashes must sit under glow halos and halos under particle cores.
// Returns the screen rects drawn, for the renderer's dirty tracking.
func (m *Manager) RenderEffects(dst *core.Screen, cam render.Camera) []core.Rect {
	var rects []core.Rect

	rects = m.renderScreenFX(dst, rects)
	rects = m.renderGlows(dst, cam, rects)
	rects = m.renderParticles(dst, cam, rects)
	rects = m.renderTrails(dst, cam, rects)
	rects = m.renderUIFX(dst, rects)
	return rects
}

// renderScreenFX fills blank cells with a shade rune so the flash reads as
// background illumination without erasing world content.
func (m *Manager) renderScreenFX(dst *core.Screen, rects []core.Rect) []core.Rect {
	for _, fx := range m.screenFX {
		if fx.Alpha <= 0.05 {
			continue
		}
		shade := core.Cell{Rune: rampRune(flashRamp, fx.Alpha), Color: fx.Color}
		for y := 0; y < dst.Height(); y++ {
			for x := 0; x < dst.Width(); x++ {
				if dst.Get(x, y) == ' ' {
					dst.SetCell(x, y, shade)
				}
			}
		}
		rects = append(rects, dst.Bounds())
	}
	return rects
}

// renderGlows draws a radial falloff halo. Only blank cells are written so
// the halo slides behind world content; particle cores drawn afterwards
// overwrite the halo where they overlap.
func (m *Manager) renderGlows(dst *core.Screen, cam render.Camera, rects []core.Rect) []core.Rect {
	for _, g := range m.glows {
		cx, cy := cam.WorldToScreen(g.X, g.Y, 1.0)
		radius := int(g.Radius * cam.Zoom)
		if radius < 1 {
			radius = 1
		}

		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				dist := math.Hypot(float64(dx), float64(dy))
				if dist > float64(radius) {
					continue
				}
				falloff := g.Intensity * (1 - dist/float64(radius+1))
				if falloff <= 0.1 {
					continue
				}
				x, y := cx+dx, cy+dy
				if dst.Get(x, y) == ' ' {
					dst.SetCell(x, y, core.Cell{Rune: rampRune(glowRamp, falloff), Color: g.Color})
				}
			}
		}
		rects = append(rects, core.NewRect(cx-radius, cy-radius, 2*radius+1, 2*radius+1))
	}
	return rects
}

func (m *Manager) renderParticles(dst *core.Screen, cam render.Camera, rects []core.Rect) []core.Rect {
	for _, p := range m.particles {
		if p.Alpha <= 0.05 {
			continue
		}
		x, y := cam.WorldToScreen(p.X, p.Y, 1.0)
		dst.SetCell(x, y, core.Cell{Rune: particleRune(p.Kind, p.Alpha), Color: p.Color})
		rects = append(rects, core.NewRect(x, y, 1, 1))
	}
	return rects
}

func (m *Manager) renderTrails(dst *core.Screen, cam render.Camera, rects []core.Rect) []core.Rect {
	for _, t := range m.trails {
		for _, s := range t.Segments {
			if s.Alpha <= 0.05 {
				continue
			}
			x, y := cam.WorldToScreen(s.X, s.Y, 1.0)
			dst.SetCell(x, y, core.Cell{Rune: rampRune(trailRamp, s.Alpha), Color: t.Color})
			rects = append(rects, core.NewRect(x, y, 1, 1))
		}
	}
	return rects
}

// renderUIFX draws text overlays in screen coordinates, ignoring the camera.
func (m *Manager) renderUIFX(dst *core.Screen, rects []core.Rect) []core.Rect {
	for _, fx := range m.uiFX {
		if fx.Alpha <= 0.05 {
			continue
		}
		x, y := int(fx.X), int(fx.Y)
		dst.DrawText(x, y, fx.Text, fx.Color)
		rects = append(rects, core.NewRect(x, y, len(fx.Text), 1))
	}
	return rects
}
