package events

import (
	"sort"
	"sync"
)

// Name identifies an event. The set of names is fixed at configuration time.
type Name string

const (
	NameA Name = "A"
	NameB Name = "B"
)

// DefaultNames are the event names used when none are configured.
var DefaultNames = []Name{NameA, NameB}

// ParseNames converts raw configuration values to names, skipping empty entries.
func ParseNames(raw []string) []Name {
	names := make([]Name, 0, len(raw))
	for _, r := range raw {
		if r == "" {
			continue
		}
		names = append(names, Name(r))
	}
	return names
}

// Callback is invoked once per occurrence.
type Callback func()

// Bus dispatches occurrences to one callback per event name.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Name]Callback
	emitted  map[Name]int64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Name]Callback),
		emitted:  make(map[Name]int64),
	}
}

// Subscribe registers fn for name, replacing any previous callback.
func (b *Bus) Subscribe(name Name, fn Callback) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = fn
}

// Unsubscribe removes the callback for name.
func (b *Bus) Unsubscribe(name Name) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, name)
}

// Emit records one occurrence of name and invokes its callback, if any.
// The callback runs outside the bus lock so it may emit other names.
func (b *Bus) Emit(name Name) {
	b.mu.Lock()
	b.emitted[name]++
	fn := b.handlers[name]
	b.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Tally counts one occurrence of name without invoking its callback. It is for
// callers that deliver the occurrence to the subscriber themselves and need its
// result.
func (b *Bus) Tally(name Name) {
	b.mu.Lock()
	b.emitted[name]++
	b.mu.Unlock()
}

// Emitted returns how many times name has been emitted.
func (b *Bus) Emitted(name Name) int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.emitted[name]
}

// Subscribed reports whether name has a callback.
func (b *Bus) Subscribed(name Name) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.handlers[name]
	return ok
}

// Names returns the subscribed names in sorted order.
func (b *Bus) Names() []Name {
	b.mu.RLock()
	names := make([]Name, 0, len(b.handlers))
	for n := range b.handlers {
		names = append(names, n)
	}
	b.mu.RUnlock()

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
