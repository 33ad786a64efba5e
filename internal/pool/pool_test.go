package pool

import "testing"

type record struct {
	x, y   float64
	life   float64
	active bool
}

func newRecord() *record { return &record{} }

func resetRecord(r *record) {
	r.x = 0
	r.y = 0
	r.life = 0
	r.active = false
}

func TestAcquireReusesReleasedObjects(t *testing.T) {
	p := New(newRecord, resetRecord, 1)

	first := p.Acquire()
	first.x = 10
	p.Release(first)

	second := p.Acquire()
	if second != first {
		t.Error("Acquire() did not reuse the released object")
	}
}

func TestReleaseResetsAllFields(t *testing.T) {
	p := New(newRecord, resetRecord, 2)

	obj := p.Acquire()
	obj.x = 5
	obj.y = -3
	obj.life = 1.5
	obj.active = true

	p.Release(obj)

	got := p.Acquire()
	want := record{}
	if *got != want {
		t.Errorf("reacquired object = %+v, want zero record", *got)
	}
}

func TestMissFallsBackToFactory(t *testing.T) {
	p := New(newRecord, resetRecord, 1)

	a := p.Acquire()
	b := p.Acquire() // free list empty, factory allocation

	if a == b {
		t.Error("second Acquire() returned the same object")
	}
	if got := p.Stats().Misses; got != 1 {
		t.Errorf("Misses = %d, want 1", got)
	}
}

func TestStatsTracksInUse(t *testing.T) {
	p := New(newRecord, resetRecord, 4)

	a := p.Acquire()
	p.Acquire()

	st := p.Stats()
	if st.InUse != 2 {
		t.Errorf("InUse = %d, want 2", st.InUse)
	}
	if st.Free != 2 {
		t.Errorf("Free = %d, want 2", st.Free)
	}

	p.Release(a)
	if got := p.Stats().InUse; got != 1 {
		t.Errorf("InUse after release = %d, want 1", got)
	}
}

func TestClearEmptiesPool(t *testing.T) {
	p := New(newRecord, resetRecord, 4)
	p.Acquire()
	p.Clear()

	st := p.Stats()
	if st.Free != 0 || st.InUse != 0 || st.Misses != 0 {
		t.Errorf("Stats after Clear = %+v, want all zero", st)
	}
}
