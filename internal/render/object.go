package render

import "github.com/vovakirdan/spikepulse/internal/core"

// Object kinds understood by the draw loop.
const (
	KindRect  = "rect"  // Filled rectangle of Glyph cells
	KindGlyph = "glyph" // Single cell at (X, Y)
	KindText  = "text"  // Text string starting at (X, Y)
)

// Object is a drawable entry owned by a layer. Position and size are in
// world units; the owning layer's parallax and the camera decide where it
// lands on screen. Objects outside the viewport are culled, not destroyed.
type Object struct {
	ID      string
	Kind    string
	X, Y    float64
	W, H    float64
	Glyph   rune
	Text    string
	Color   core.Color
	ZIndex  int
	Visible bool
	Alpha   float64
}

// NewObject returns a visible, fully opaque object of the given kind.
func NewObject(id, kind string) *Object {
	return &Object{
		ID:      id,
		Kind:    kind,
		Glyph:   '█',
		Visible: true,
		Alpha:   1.0,
	}
}

// Bounds returns the object's world-space bounding box. Glyph and text
// objects occupy a single row.
func (o *Object) Bounds() core.RectF {
	w, h := o.W, o.H
	switch o.Kind {
	case KindGlyph:
		w, h = 1, 1
	case KindText:
		w, h = float64(len(o.Text)), 1
	}
	return core.RectF{X: o.X, Y: o.Y, W: w, H: h}
}

// Style is the signature draw calls are batched by: objects sharing a
// style render under one style scope to minimize state changes.
type Style struct {
	Kind  string
	Glyph rune
	Color core.Color
}

// Style returns the object's batching signature. Text objects batch by
// color only; their glyphs vary per cell.
func (o *Object) Style() Style {
	s := Style{Kind: o.Kind, Color: o.Color}
	if o.Kind != KindText {
		s.Glyph = o.Glyph
	}
	return s
}
