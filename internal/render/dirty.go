package render

import (
	"github.com/vovakirdan/spikepulse/internal/core"
	"github.com/vovakirdan/spikepulse/internal/pool"
)

// region is a pooled dirty-rectangle record.
type region struct {
	rect core.Rect
}

// DirtyTracker accumulates screen-cell rectangles that need redrawing.
// Overlapping and adjacent rectangles are merged on insertion, bounding
// the region count; region records are pooled so tracking allocates
// nothing in the steady state.
type DirtyTracker struct {
	bounds  core.Rect
	regions []*region
	pool    *pool.Pool[*region]
}

// NewDirtyTracker creates a tracker clipping regions to the given bounds.
func NewDirtyTracker(bounds core.Rect) *DirtyTracker {
	return &DirtyTracker{
		bounds: bounds,
		pool: pool.New(
			func() *region { return &region{} },
			func(r *region) { r.rect = core.Rect{} },
			16,
		),
	}
}

// SetBounds updates the clipping bounds (after a screen resize).
func (d *DirtyTracker) SetBounds(bounds core.Rect) {
	d.bounds = bounds
}

// Add marks a rectangle dirty. The rectangle is clipped to bounds and
// merged with every region it overlaps or touches; merging repeats until
// the new region is disjoint from all others, so two overlapping inputs
// always collapse into one region.
func (d *DirtyTracker) Add(r core.Rect) {
	r = clip(r, d.bounds)
	if r.Empty() {
		return
	}

	merged := r
	for {
		changed := false
		kept := d.regions[:0]
		for _, reg := range d.regions {
			if merged.Touches(reg.rect) {
				merged = merged.Union(reg.rect)
				d.pool.Release(reg)
				changed = true
			} else {
				kept = append(kept, reg)
			}
		}
		d.regions = kept
		if !changed {
			break
		}
	}

	reg := d.pool.Acquire()
	reg.rect = merged
	d.regions = append(d.regions, reg)
}

// Regions returns the current merged dirty rectangles.
func (d *DirtyTracker) Regions() []core.Rect {
	out := make([]core.Rect, len(d.regions))
	for i, reg := range d.regions {
		out[i] = reg.rect
	}
	return out
}

// Count returns the number of merged regions.
func (d *DirtyTracker) Count() int {
	return len(d.regions)
}

// Reset releases all regions back to the pool after they have been used
// to clear and redraw.
func (d *DirtyTracker) Reset() {
	for _, reg := range d.regions {
		d.pool.Release(reg)
	}
	d.regions = d.regions[:0]
}

func clip(r, bounds core.Rect) core.Rect {
	x1 := core.Max(r.X, bounds.X)
	y1 := core.Max(r.Y, bounds.Y)
	x2 := core.Min(r.Right(), bounds.Right())
	y2 := core.Min(r.Bottom(), bounds.Bottom())
	return core.Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}
