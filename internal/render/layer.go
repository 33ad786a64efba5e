package render

import "github.com/vovakirdan/spikepulse/internal/core"

// Standard layer names used by the platform. The layer set is open-ended;
// these are the ones the default configuration creates.
const (
	LayerBackground = "background"
	LayerWorld      = "world"
	LayerEntities   = "entities"
	LayerUI         = "ui"
)

// Layer is an ordered, named bucket of drawable objects: the compositing
// unit of the renderer. Static layers keep a cell-buffer cache that is
// reused until the layer is marked dirty.
type Layer struct {
	Name     string
	ZIndex   int
	Alpha    float64
	Visible  bool
	Parallax float64
	Static   bool

	objects    []*Object
	cache      *core.Screen
	cacheValid bool
}

// NewLayer creates a visible layer with neutral parallax.
func NewLayer(name string, zIndex int) *Layer {
	return &Layer{
		Name:     name,
		ZIndex:   zIndex,
		Alpha:    1.0,
		Visible:  true,
		Parallax: 1.0,
	}
}

// Add appends an object to the layer and invalidates the cache.
func (l *Layer) Add(obj *Object) {
	l.objects = append(l.objects, obj)
	l.cacheValid = false
}

// Remove deletes the object with the given ID. Returns true if found.
func (l *Layer) Remove(id string) bool {
	for i, obj := range l.objects {
		if obj.ID == id {
			l.objects = append(l.objects[:i], l.objects[i+1:]...)
			l.cacheValid = false
			return true
		}
	}
	return false
}

// Get returns the object with the given ID, or nil.
func (l *Layer) Get(id string) *Object {
	for _, obj := range l.objects {
		if obj.ID == id {
			return obj
		}
	}
	return nil
}

// Clear removes all objects and invalidates the cache.
func (l *Layer) Clear() {
	l.objects = nil
	l.cacheValid = false
}

// Objects returns the layer's object slice. Callers must not mutate it.
func (l *Layer) Objects() []*Object {
	return l.objects
}

// Len returns the number of objects in the layer.
func (l *Layer) Len() int {
	return len(l.objects)
}

// Invalidate marks the static cache stale, forcing a redraw next frame.
func (l *Layer) Invalidate() {
	l.cacheValid = false
}
