// Package events provides the publish/subscribe hub all Spikepulse modules
// communicate through. Modules never hold references to each other; they
// emit named events on a shared Bus and subscribe to the names (or wildcard
// patterns) they care about.
package events

import (
	"regexp"
	"strings"
	"sync"
	"time"
)

// DefaultHistorySize bounds the event history ring buffer.
const DefaultHistorySize = 100

// Event is a single published message.
type Event struct {
	Name      string
	Payload   any
	Timestamp time.Time
}

// Handler is a subscriber callback.
type Handler func(Event)

// ListenerID identifies a single subscription for targeted removal.
type ListenerID int64

// Stats tracks per-event emission statistics.
type Stats struct {
	Count int
	First time.Time
	Last  time.Time
}

type listener struct {
	id      ListenerID
	name    string
	fn      Handler
	owner   any
	once    bool
	pattern *regexp.Regexp // non-nil for wildcard subscriptions
}

// Bus is the event hub. Emission is synchronous: all matching listeners run
// before Emit returns, exact-name subscribers first (in registration order),
// then wildcard subscribers. A panicking listener is isolated so one buggy
// subscriber cannot prevent the others from running.
//
// The mutex only guards registry mutation; listeners are invoked outside the
// lock, so a listener may itself emit further events on the same bus.
type Bus struct {
	mu        sync.Mutex
	nextID    ListenerID
	exact     map[string][]*listener
	wildcards []*listener
	patterns  map[string]*regexp.Regexp

	history    []Event
	historyMax int
	stats      map[string]*Stats

	// errFn receives recovered listener panics. Wired to the engine logger;
	// nil means panics are swallowed after recovery.
	errFn func(event string, recovered any)
}

// NewBus creates an event bus with the default history size.
func NewBus() *Bus {
	return NewBusWithHistory(DefaultHistorySize)
}

// NewBusWithHistory creates an event bus with a custom history bound.
// A size of 0 disables history.
func NewBusWithHistory(historySize int) *Bus {
	return &Bus{
		exact:      make(map[string][]*listener),
		patterns:   make(map[string]*regexp.Regexp),
		historyMax: historySize,
		stats:      make(map[string]*Stats),
	}
}

// SetErrorHandler installs a callback invoked with recovered listener panics.
func (b *Bus) SetErrorHandler(fn func(event string, recovered any)) {
	b.mu.Lock()
	b.errFn = fn
	b.mu.Unlock()
}

// On registers a persistent listener for the given event name.
// Names containing '*' are treated as wildcard patterns matched against
// every emitted event name ("input:*" matches "input:jump:start").
func (b *Bus) On(name string, fn Handler) ListenerID {
	return b.subscribe(name, fn, nil, false)
}

// OnOwned registers a persistent listener tied to an owner. All listeners
// sharing an owner can be removed at once with OffOwner, which modules use
// in their Destroy to drop every subscription they made.
func (b *Bus) OnOwned(name string, fn Handler, owner any) ListenerID {
	return b.subscribe(name, fn, owner, false)
}

// Once registers a listener that removes itself after its first invocation.
func (b *Bus) Once(name string, fn Handler) ListenerID {
	return b.subscribe(name, fn, nil, true)
}

// OnceOwned is Once with an owner reference for bulk removal.
func (b *Bus) OnceOwned(name string, fn Handler, owner any) ListenerID {
	return b.subscribe(name, fn, owner, true)
}

func (b *Bus) subscribe(name string, fn Handler, owner any, once bool) ListenerID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	l := &listener{
		id:    b.nextID,
		name:  name,
		fn:    fn,
		owner: owner,
		once:  once,
	}

	if strings.Contains(name, "*") {
		l.pattern = b.compilePattern(name)
		b.wildcards = append(b.wildcards, l)
	} else {
		b.exact[name] = append(b.exact[name], l)
	}
	return l.id
}

// compilePattern translates a glob pattern to an anchored regexp ('*' -> '.*').
// Compiled patterns are cached; callers must hold the mutex.
func (b *Bus) compilePattern(glob string) *regexp.Regexp {
	if re, ok := b.patterns[glob]; ok {
		return re
	}
	re := regexp.MustCompile("^" + strings.ReplaceAll(regexp.QuoteMeta(glob), `\*`, ".*") + "$")
	b.patterns[glob] = re
	return re
}

// Emit synchronously invokes all listeners matching name and returns the
// number of listeners invoked. Once-listeners are unregistered before their
// callback runs, so they fire exactly once even if the callback re-emits.
func (b *Bus) Emit(name string, payload any) int {
	ev := Event{Name: name, Payload: payload, Timestamp: time.Now()}

	b.mu.Lock()
	matched := b.collectLocked(name)
	b.recordLocked(ev)
	errFn := b.errFn
	b.mu.Unlock()

	for _, l := range matched {
		b.invoke(l, ev, errFn)
	}
	return len(matched)
}

// EmitAsync schedules an emission after the given delay. The returned
// channel receives the listener count once the emission has run.
func (b *Bus) EmitAsync(name string, payload any, delay time.Duration) <-chan int {
	done := make(chan int, 1)
	time.AfterFunc(delay, func() {
		done <- b.Emit(name, payload)
	})
	return done
}

// collectLocked gathers all listeners matching name and removes the
// once-listeners from the registry. Callers must hold the mutex.
func (b *Bus) collectLocked(name string) []*listener {
	var matched []*listener

	if ll := b.exact[name]; len(ll) > 0 {
		matched = append(matched, ll...)
	}
	for _, l := range b.wildcards {
		if l.pattern.MatchString(name) {
			matched = append(matched, l)
		}
	}

	for _, l := range matched {
		if l.once {
			b.removeLocked(l.id)
		}
	}
	return matched
}

func (b *Bus) invoke(l *listener, ev Event, errFn func(string, any)) {
	defer func() {
		if r := recover(); r != nil && errFn != nil {
			errFn(ev.Name, r)
		}
	}()
	l.fn(ev)
}

// recordLocked appends to history and updates stats. Callers hold the mutex.
func (b *Bus) recordLocked(ev Event) {
	if b.historyMax > 0 {
		b.history = append(b.history, ev)
		if len(b.history) > b.historyMax {
			b.history = b.history[len(b.history)-b.historyMax:]
		}
	}

	st, ok := b.stats[ev.Name]
	if !ok {
		st = &Stats{First: ev.Timestamp}
		b.stats[ev.Name] = st
	}
	st.Count++
	st.Last = ev.Timestamp
}

// Off removes all listeners registered for the exact name or pattern.
func (b *Bus) Off(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if strings.Contains(name, "*") {
		kept := b.wildcards[:0]
		for _, l := range b.wildcards {
			if l.name != name {
				kept = append(kept, l)
			}
		}
		b.wildcards = kept
		return
	}
	delete(b.exact, name)
}

// OffListener removes a single subscription by its ID.
func (b *Bus) OffListener(id ListenerID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(id)
}

// OffOwner removes every subscription registered with the given owner,
// exact and wildcard alike.
func (b *Bus) OffOwner(owner any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for name, ll := range b.exact {
		kept := ll[:0]
		for _, l := range ll {
			if l.owner != owner {
				kept = append(kept, l)
			}
		}
		if len(kept) == 0 {
			delete(b.exact, name)
		} else {
			b.exact[name] = kept
		}
	}

	kept := b.wildcards[:0]
	for _, l := range b.wildcards {
		if l.owner != owner {
			kept = append(kept, l)
		}
	}
	b.wildcards = kept
}

func (b *Bus) removeLocked(id ListenerID) {
	for name, ll := range b.exact {
		for i, l := range ll {
			if l.id == id {
				b.exact[name] = append(ll[:i], ll[i+1:]...)
				if len(b.exact[name]) == 0 {
					delete(b.exact, name)
				}
				return
			}
		}
	}
	for i, l := range b.wildcards {
		if l.id == id {
			b.wildcards = append(b.wildcards[:i], b.wildcards[i+1:]...)
			return
		}
	}
}

// History returns a copy of the bounded event history, oldest first.
func (b *Bus) History() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.history))
	copy(out, b.history)
	return out
}

// StatsFor returns emission statistics for an event name.
func (b *Bus) StatsFor(name string) (Stats, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.stats[name]
	if !ok {
		return Stats{}, false
	}
	return *st, true
}

// ListenerCount returns the number of listeners that would receive an
// emission of name right now.
func (b *Bus) ListenerCount(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.exact[name])
	for _, l := range b.wildcards {
		if l.pattern.MatchString(name) {
			n++
		}
	}
	return n
}

// Clear removes all listeners, history and statistics.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.exact = make(map[string][]*listener)
	b.wildcards = nil
	b.history = nil
	b.stats = make(map[string]*Stats)
}
