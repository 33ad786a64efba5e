package render

import (
	"sort"
	"time"

	"github.com/vovakirdan/spikepulse/internal/core"
	"github.com/vovakirdan/spikepulse/internal/events"
)

// Config selects the renderer's optimization strategies. Dirty-region
// tracking and full-screen clearing are mutually exclusive code paths;
// exactly one executes per frame depending on EnableDirtyRegions.
type Config struct {
	EnableEffects      bool
	EnableDirtyRegions bool
	CullMargin         float64 // Extra world units around the viewport kept renderable
}

// DefaultConfig returns the renderer defaults used when no configuration
// section is supplied.
func DefaultConfig() Config {
	return Config{
		EnableEffects:      true,
		EnableDirtyRegions: true,
		CullMargin:         4,
	}
}

// Metrics are the per-frame counters attached to frame-complete events.
type Metrics struct {
	Frame           uint64
	ObjectsRendered int
	ObjectsCulled   int
	LayersRendered  int
	Batches         int
	DirtyRegions    int
	RenderTime      time.Duration
}

// FrameCompletePayload is the payload of "renderer:frame-complete" events.
type FrameCompletePayload struct {
	Frame   uint64
	Metrics Metrics
}

// ModuleErrorPayload is the payload of "renderer:module-error" events,
// emitted when a layer or effect pass panics during rendering.
type ModuleErrorPayload struct {
	Source    string
	Recovered any
}

// AddObjectPayload is the payload of "renderer:add-object" events.
type AddObjectPayload struct {
	Layer  string
	Object *Object
}

// RemoveObjectPayload is the payload of "renderer:remove-object" events.
type RemoveObjectPayload struct {
	Layer string
	ID    string
}

// ClearLayerPayload is the payload of "renderer:clear-layer" events.
type ClearLayerPayload struct {
	Layer string
}

// EffectPass renders the effect collections on top of the composited
// layers. It returns the screen rectangles it drew so dirty-region
// tracking can clear them next frame.
type EffectPass interface {
	RenderEffects(dst *core.Screen, cam Camera) []core.Rect
}

// Renderer is the top-level frame orchestrator: it owns the screen buffer,
// the ordered layer set, the camera, dirty-region tracking and per-frame
// metrics. Render is the single per-frame entry point.
type Renderer struct {
	screen  *core.Screen
	bus     *events.Bus
	cfg     Config
	layers  []*Layer
	byName  map[string]*Layer
	camera  Camera
	dirty   *DirtyTracker
	effects EffectPass

	frame   uint64
	metrics Metrics

	// Screen rects drawn by dynamic content last frame; they seed the
	// dirty tracker so moved objects leave no stale cells behind.
	prevRects []core.Rect
	curRects  []core.Rect
}

// NewRenderer creates a renderer drawing into the given screen buffer and
// publishing on the given bus.
func NewRenderer(screen *core.Screen, bus *events.Bus, cfg Config) *Renderer {
	return &Renderer{
		screen: screen,
		bus:    bus,
		cfg:    cfg,
		byName: make(map[string]*Layer),
		camera: NewCamera(),
		dirty:  NewDirtyTracker(screen.Bounds()),
	}
}

// Bind subscribes the renderer to its bus-driven mutation events
// (add-object, remove-object, clear-layer, camera moves).
func (r *Renderer) Bind() {
	r.bus.OnOwned("renderer:add-object", func(ev events.Event) {
		if p, ok := ev.Payload.(AddObjectPayload); ok {
			r.AddObject(p.Layer, p.Object)
		}
	}, r)
	r.bus.OnOwned("renderer:remove-object", func(ev events.Event) {
		if p, ok := ev.Payload.(RemoveObjectPayload); ok {
			r.RemoveObject(p.Layer, p.ID)
		}
	}, r)
	r.bus.OnOwned("renderer:clear-layer", func(ev events.Event) {
		if p, ok := ev.Payload.(ClearLayerPayload); ok {
			r.ClearLayer(p.Layer)
		}
	}, r)
	r.bus.OnOwned("camera:move", func(ev events.Event) {
		if p, ok := ev.Payload.(MovePayload); ok {
			r.camera.X = p.X
			r.camera.Y = p.Y
		}
	}, r)
	r.bus.OnOwned("camera:zoom", func(ev events.Event) {
		if p, ok := ev.Payload.(ZoomPayload); ok && p.Zoom > 0 {
			r.camera.Zoom = p.Zoom
		}
	}, r)
}

// Unbind drops the renderer's bus subscriptions.
func (r *Renderer) Unbind() {
	r.bus.OffOwner(r)
}

// SetEffects installs the effect pass rendered after all layers.
func (r *Renderer) SetEffects(fx EffectPass) {
	r.effects = fx
}

// Camera returns the current viewport transform.
func (r *Renderer) Camera() Camera {
	return r.camera
}

// SetCamera replaces the viewport transform.
func (r *Renderer) SetCamera(cam Camera) {
	r.camera = cam
}

// Screen returns the render target.
func (r *Renderer) Screen() *core.Screen {
	return r.screen
}

// AddLayer registers a layer, keeping the layer list ordered by z-index.
func (r *Renderer) AddLayer(l *Layer) {
	r.layers = append(r.layers, l)
	r.byName[l.Name] = l
	sort.SliceStable(r.layers, func(i, j int) bool {
		return r.layers[i].ZIndex < r.layers[j].ZIndex
	})
}

// Layer returns the named layer, or nil.
func (r *Renderer) Layer(name string) *Layer {
	return r.byName[name]
}

// AddObject adds an object to the named layer. Unknown layers are ignored.
func (r *Renderer) AddObject(layerName string, obj *Object) {
	if l := r.byName[layerName]; l != nil && obj != nil {
		l.Add(obj)
	}
}

// RemoveObject removes the object with the given ID from the named layer.
func (r *Renderer) RemoveObject(layerName, id string) {
	if l := r.byName[layerName]; l != nil {
		l.Remove(id)
	}
}

// ClearLayer removes every object from the named layer.
func (r *Renderer) ClearLayer(layerName string) {
	if l := r.byName[layerName]; l != nil {
		l.Clear()
	}
}

// MarkDirty marks a screen rectangle for redraw next frame.
func (r *Renderer) MarkDirty(rect core.Rect) {
	r.dirty.Add(rect)
}

// Resize adapts the renderer to a new screen size, invalidating caches.
func (r *Renderer) Resize(width, height int) {
	r.screen.Resize(width, height)
	r.dirty.SetBounds(r.screen.Bounds())
	for _, l := range r.layers {
		l.cache = nil
		l.cacheValid = false
	}
	r.prevRects = r.prevRects[:0]
}

// Metrics returns the counters of the most recently completed frame.
func (r *Renderer) Metrics() Metrics {
	return r.metrics
}

// Render draws one complete frame: clear (dirty regions or full), static
// layers from cache, dynamic layers culled and batched, then the effect
// pass. A panic inside one layer or the effect pass is contained and
// reported; the frame still completes with whatever drew successfully.
func (r *Renderer) Render() Metrics {
	start := time.Now()
	m := Metrics{Frame: r.frame}
	r.curRects = r.curRects[:0]

	r.clearPhase()

	for _, layer := range r.layers {
		if !layer.Visible || layer.Alpha <= 0 {
			continue
		}
		r.renderLayerGuarded(layer, &m)
	}

	if r.cfg.EnableEffects && r.effects != nil {
		r.renderEffectsGuarded()
	}

	m.DirtyRegions = r.dirty.Count()
	r.dirty.Reset()
	r.prevRects = append(r.prevRects[:0], r.curRects...)

	m.RenderTime = time.Since(start)
	r.metrics = m
	r.frame++
	r.bus.Emit("renderer:frame-complete", FrameCompletePayload{Frame: m.Frame, Metrics: m})
	return m
}

// clearPhase prepares the screen for drawing. With dirty regions enabled,
// only the merged regions touched last frame (plus invalidated static
// content) are cleared; otherwise the whole screen is wiped.
func (r *Renderer) clearPhase() {
	if !r.cfg.EnableDirtyRegions {
		r.screen.Clear()
		return
	}

	for _, layer := range r.layers {
		if layer.Static && !layer.cacheValid {
			r.dirty.Add(r.screen.Bounds())
			break
		}
	}
	for _, rect := range r.prevRects {
		r.dirty.Add(rect)
	}
	for _, rect := range r.dirty.Regions() {
		r.screen.ClearRect(rect)
	}
}

func (r *Renderer) renderLayerGuarded(layer *Layer, m *Metrics) {
	defer func() {
		if rec := recover(); rec != nil {
			r.bus.Emit("renderer:module-error", ModuleErrorPayload{
				Source:    "layer:" + layer.Name,
				Recovered: rec,
			})
		}
	}()

	if layer.Static {
		r.renderStatic(layer, m)
	} else {
		r.renderDynamic(layer, m)
	}
	m.LayersRendered++
}

// renderStatic composites a cached layer. The cache is rebuilt only when
// the layer content changed; otherwise the cached cells are copied
// (restricted to dirty regions when dirty tracking is active).
func (r *Renderer) renderStatic(layer *Layer, m *Metrics) {
	if layer.cache == nil ||
		layer.cache.Width() != r.screen.Width() ||
		layer.cache.Height() != r.screen.Height() {
		layer.cache = core.NewScreen(r.screen.Width(), r.screen.Height())
		layer.cacheValid = false
	}

	if !layer.cacheValid {
		layer.cache.Clear()
		rendered, culled, batches := r.drawObjects(layer.cache, layer, nil)
		m.ObjectsRendered += rendered
		m.ObjectsCulled += culled
		m.Batches += batches
		layer.cacheValid = true
	}

	if r.cfg.EnableDirtyRegions && r.dirty.Count() > 0 {
		for _, rect := range r.dirty.Regions() {
			r.screen.CopyRectFrom(layer.cache, rect)
		}
	} else {
		r.screen.CopyFrom(layer.cache)
	}
}

func (r *Renderer) renderDynamic(layer *Layer, m *Metrics) {
	rendered, culled, batches := r.drawObjects(r.screen, layer, &r.curRects)
	m.ObjectsRendered += rendered
	m.ObjectsCulled += culled
	m.Batches += batches
}

// drawObjects culls the layer's objects against the viewport, batches the
// survivors by style, and draws each batch under one style scope. When
// rectsOut is non-nil the projected screen rects are recorded for dirty
// tracking.
func (r *Renderer) drawObjects(dst *core.Screen, layer *Layer, rectsOut *[]core.Rect) (rendered, culled, batches int) {
	viewport := r.camera.Viewport(dst.Width(), dst.Height(), layer.Parallax).Expand(r.cfg.CullMargin)

	visible := make([]*Object, 0, layer.Len())
	for _, obj := range layer.Objects() {
		if !obj.Visible || obj.Alpha <= 0 {
			continue
		}
		if !obj.Bounds().Intersects(viewport) {
			culled++
			continue
		}
		visible = append(visible, obj)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].ZIndex < visible[j].ZIndex
	})

	for _, batch := range BuildBatches(visible) {
		style := core.Cell{Rune: batch.Style.Glyph, Color: batch.Style.Color}
		for _, obj := range batch.Objects {
			rect := r.drawObject(dst, layer, obj, style)
			if rectsOut != nil && !rect.Empty() {
				*rectsOut = append(*rectsOut, rect)
			}
			rendered++
		}
		batches++
	}
	return rendered, culled, batches
}

// drawObject projects and draws a single object, returning the screen rect
// it covered.
func (r *Renderer) drawObject(dst *core.Screen, layer *Layer, obj *Object, style core.Cell) core.Rect {
	sx, sy := r.camera.WorldToScreen(obj.X, obj.Y, layer.Parallax)
	zoom := r.camera.Zoom
	if zoom <= 0 {
		zoom = 1.0
	}

	switch obj.Kind {
	case KindRect:
		w := core.Max(1, int(obj.W*zoom+0.5))
		h := core.Max(1, int(obj.H*zoom+0.5))
		rect := core.NewRect(sx, sy, w, h)
		dst.FillRect(rect, style)
		return rect
	case KindText:
		dst.DrawText(sx, sy, obj.Text, obj.Color)
		return core.NewRect(sx, sy, len(obj.Text), 1)
	default: // KindGlyph
		dst.SetCell(sx, sy, style)
		return core.NewRect(sx, sy, 1, 1)
	}
}

func (r *Renderer) renderEffectsGuarded() {
	defer func() {
		if rec := recover(); rec != nil {
			r.bus.Emit("renderer:module-error", ModuleErrorPayload{
				Source:    "effects",
				Recovered: rec,
			})
		}
	}()

	rects := r.effects.RenderEffects(r.screen, r.camera)
	r.curRects = append(r.curRects, rects...)
}
