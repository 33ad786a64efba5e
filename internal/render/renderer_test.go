package render

import (
	"testing"

	"github.com/vovakirdan/spikepulse/internal/core"
	"github.com/vovakirdan/spikepulse/internal/events"
)

func newTestRenderer(cfg Config) (*Renderer, *events.Bus) {
	bus := events.NewBus()
	screen := core.NewScreen(40, 20)
	r := NewRenderer(screen, bus, cfg)
	return r, bus
}

func rectObject(id string, x, y, w, h float64, color core.Color) *Object {
	obj := NewObject(id, KindRect)
	obj.X, obj.Y, obj.W, obj.H = x, y, w, h
	obj.Color = color
	return obj
}

func TestBatchGrouping(t *testing.T) {
	objects := []*Object{
		rectObject("a", 0, 0, 1, 1, core.ColorWhite),
		rectObject("b", 2, 0, 1, 1, core.ColorWhite),
		rectObject("c", 4, 0, 1, 1, core.ColorWhite),
		rectObject("d", 6, 0, 1, 1, core.ColorRed),
	}

	batches := BuildBatches(objects)
	if len(batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(batches))
	}
	if len(batches[0].Objects) != 3 {
		t.Errorf("first batch has %d objects, want 3", len(batches[0].Objects))
	}
	if len(batches[1].Objects) != 1 {
		t.Errorf("second batch has %d objects, want 1", len(batches[1].Objects))
	}
}

func TestRenderDrawsVisibleObject(t *testing.T) {
	r, _ := newTestRenderer(Config{EnableDirtyRegions: false})
	r.AddLayer(NewLayer(LayerWorld, 10))

	obj := rectObject("block", 3, 2, 2, 2, core.ColorGreen)
	obj.Glyph = '#'
	r.AddObject(LayerWorld, obj)

	m := r.Render()

	if m.ObjectsRendered != 1 {
		t.Errorf("ObjectsRendered = %d, want 1", m.ObjectsRendered)
	}
	if got := r.Screen().Get(3, 2); got != '#' {
		t.Errorf("screen cell (3,2) = %q, want #", got)
	}
	if got := r.Screen().Get(4, 3); got != '#' {
		t.Errorf("screen cell (4,3) = %q, want #", got)
	}
}

func TestViewportCulling(t *testing.T) {
	r, _ := newTestRenderer(Config{CullMargin: 2})
	r.AddLayer(NewLayer(LayerWorld, 10))

	r.AddObject(LayerWorld, rectObject("onscreen", 5, 5, 2, 2, core.ColorWhite))
	r.AddObject(LayerWorld, rectObject("offscreen", 500, 5, 2, 2, core.ColorWhite))

	m := r.Render()

	if m.ObjectsRendered != 1 {
		t.Errorf("ObjectsRendered = %d, want 1", m.ObjectsRendered)
	}
	if m.ObjectsCulled != 1 {
		t.Errorf("ObjectsCulled = %d, want 1", m.ObjectsCulled)
	}
}

func TestCameraScrollAndParallax(t *testing.T) {
	r, _ := newTestRenderer(Config{})
	world := NewLayer(LayerWorld, 10)
	bg := NewLayer(LayerBackground, 0)
	bg.Parallax = 0.5
	r.AddLayer(world)
	r.AddLayer(bg)

	worldObj := rectObject("w", 20, 5, 1, 1, core.ColorWhite)
	worldObj.Glyph = 'W'
	bgObj := rectObject("b", 20, 8, 1, 1, core.ColorGray)
	bgObj.Glyph = 'B'
	r.AddObject(LayerWorld, worldObj)
	r.AddObject(LayerBackground, bgObj)

	r.SetCamera(Camera{X: 10, Y: 0, Zoom: 1.0})
	r.Render()

	// World layer scrolls fully: 20 - 10 = 10.
	if got := r.Screen().Get(10, 5); got != 'W' {
		t.Errorf("world object at x=10: got %q", got)
	}
	// Background scrolls at half speed: 20 - 10*0.5 = 15.
	if got := r.Screen().Get(15, 8); got != 'B' {
		t.Errorf("background object at x=15: got %q", got)
	}
}

func TestDirtyRegionsClearStaleCells(t *testing.T) {
	r, _ := newTestRenderer(Config{EnableDirtyRegions: true})
	r.AddLayer(NewLayer(LayerEntities, 20))

	obj := rectObject("mover", 2, 2, 1, 1, core.ColorWhite)
	obj.Glyph = '@'
	r.AddObject(LayerEntities, obj)

	r.Render()
	if got := r.Screen().Get(2, 2); got != '@' {
		t.Fatalf("cell (2,2) = %q before move, want @", got)
	}

	obj.X = 8
	r.Render()

	if got := r.Screen().Get(2, 2); got != ' ' {
		t.Errorf("stale cell (2,2) = %q after move, want blank", got)
	}
	if got := r.Screen().Get(8, 2); got != '@' {
		t.Errorf("cell (8,2) = %q after move, want @", got)
	}
}

func TestStaticLayerCacheReuse(t *testing.T) {
	r, _ := newTestRenderer(Config{})
	static := NewLayer(LayerBackground, 0)
	static.Static = true
	r.AddLayer(static)

	obj := rectObject("ground", 0, 19, 40, 1, core.ColorGray)
	obj.Glyph = '='
	r.AddObject(LayerBackground, obj)

	m1 := r.Render()
	if m1.ObjectsRendered != 1 {
		t.Errorf("first frame rendered %d objects, want 1 (cache fill)", m1.ObjectsRendered)
	}

	// Second frame comes from the cache; the object is not re-drawn.
	m2 := r.Render()
	if m2.ObjectsRendered != 0 {
		t.Errorf("second frame rendered %d objects, want 0 (cache hit)", m2.ObjectsRendered)
	}
	if got := r.Screen().Get(5, 19); got != '=' {
		t.Errorf("cached content missing: cell (5,19) = %q", got)
	}

	// Invalidation forces a rebuild.
	static.Invalidate()
	m3 := r.Render()
	if m3.ObjectsRendered != 1 {
		t.Errorf("post-invalidate frame rendered %d objects, want 1", m3.ObjectsRendered)
	}
}

func TestFrameCompleteEvent(t *testing.T) {
	r, bus := newTestRenderer(Config{})
	r.AddLayer(NewLayer(LayerWorld, 10))

	var payloads []FrameCompletePayload
	bus.On("renderer:frame-complete", func(ev events.Event) {
		payloads = append(payloads, ev.Payload.(FrameCompletePayload))
	})

	r.Render()
	r.Render()

	if len(payloads) != 2 {
		t.Fatalf("got %d frame-complete events, want 2", len(payloads))
	}
	if payloads[0].Frame != 0 || payloads[1].Frame != 1 {
		t.Errorf("frame numbers = %d, %d, want 0, 1", payloads[0].Frame, payloads[1].Frame)
	}
}

type panickyEffects struct{}

func (panickyEffects) RenderEffects(*core.Screen, Camera) []core.Rect {
	panic("effect pass broke")
}

func TestEffectPanicDoesNotAbortFrame(t *testing.T) {
	r, bus := newTestRenderer(Config{EnableEffects: true})
	r.AddLayer(NewLayer(LayerWorld, 10))
	r.SetEffects(panickyEffects{})

	var errPayload ModuleErrorPayload
	bus.On("renderer:module-error", func(ev events.Event) {
		errPayload = ev.Payload.(ModuleErrorPayload)
	})
	frames := 0
	bus.On("renderer:frame-complete", func(events.Event) { frames++ })

	obj := rectObject("block", 1, 1, 1, 1, core.ColorWhite)
	obj.Glyph = 'X'
	r.AddObject(LayerWorld, obj)
	r.Render()

	if frames != 1 {
		t.Errorf("frame did not complete after effect panic")
	}
	if errPayload.Source != "effects" {
		t.Errorf("module-error source = %q, want effects", errPayload.Source)
	}
	if got := r.Screen().Get(1, 1); got != 'X' {
		t.Errorf("layer content missing after effect panic: got %q", got)
	}
}

func TestBusDrivenObjectMutation(t *testing.T) {
	r, bus := newTestRenderer(Config{})
	r.AddLayer(NewLayer(LayerWorld, 10))
	r.Bind()
	defer r.Unbind()

	obj := rectObject("spike", 4, 4, 1, 1, core.ColorRed)
	bus.Emit("renderer:add-object", AddObjectPayload{Layer: LayerWorld, Object: obj})

	if r.Layer(LayerWorld).Len() != 1 {
		t.Fatal("add-object event did not add the object")
	}

	bus.Emit("renderer:remove-object", RemoveObjectPayload{Layer: LayerWorld, ID: "spike"})
	if r.Layer(LayerWorld).Len() != 0 {
		t.Error("remove-object event did not remove the object")
	}

	bus.Emit("camera:move", MovePayload{X: 12, Y: 3})
	if cam := r.Camera(); cam.X != 12 || cam.Y != 3 {
		t.Errorf("camera after move event = %+v", cam)
	}
}
