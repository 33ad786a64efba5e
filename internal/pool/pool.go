// Package pool provides a generic object pool used by the renderer and the
// effects manager to avoid per-frame allocation of particles, glow effects,
// trail segments and scratch records.
package pool

// Stats reports pool usage counters.
type Stats struct {
	Free   int // Objects currently on the free list
	InUse  int // Objects acquired and not yet released
	Misses int // Acquires served by the factory because the free list was empty
}

// Pool is a free-list pool built from a factory and a reset function.
// Acquire pops the free list or calls the factory on exhaustion; the pool
// grows without bound on miss (see DESIGN.md for the policy decision).
//
// A Pool is owned by the frame loop and is not safe for concurrent use.
// Callers are responsible for not double-releasing an object.
type Pool[T any] struct {
	newFn  func() T
	reset  func(T)
	free   []T
	inUse  int
	misses int
}

// New creates a pool pre-filled with initial objects from the factory.
func New[T any](newFn func() T, reset func(T), initial int) *Pool[T] {
	p := &Pool[T]{
		newFn: newFn,
		reset: reset,
		free:  make([]T, 0, initial),
	}
	for i := 0; i < initial; i++ {
		p.free = append(p.free, newFn())
	}
	return p
}

// Acquire returns a reusable object, creating a fresh one on pool miss.
func (p *Pool[T]) Acquire() T {
	p.inUse++
	if n := len(p.free); n > 0 {
		obj := p.free[n-1]
		p.free = p.free[:n-1]
		return obj
	}
	p.misses++
	return p.newFn()
}

// Release resets the object to its default field values and returns it to
// the free list.
func (p *Pool[T]) Release(obj T) {
	p.reset(obj)
	if p.inUse > 0 {
		p.inUse--
	}
	p.free = append(p.free, obj)
}

// Clear drops the free list and in-use tracking.
func (p *Pool[T]) Clear() {
	p.free = p.free[:0]
	p.inUse = 0
	p.misses = 0
}

// Stats returns current usage counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Free:   len(p.free),
		InUse:  p.inUse,
		Misses: p.misses,
	}
}
