package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_EmitInvokesCallbackInOrder(t *testing.T) {
	bus := NewBus()

	var seen []int
	n := 0
	bus.Subscribe(NameA, func() {
		n++
		seen = append(seen, n)
	})

	for i := 0; i < 5; i++ {
		bus.Emit(NameA)
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, seen)
	assert.Equal(t, int64(5), bus.Emitted(NameA))
}

func TestBus_SubscribeReplaces(t *testing.T) {
	bus := NewBus()

	first, second := 0, 0
	bus.Subscribe(NameA, func() { first++ })
	bus.Subscribe(NameA, func() { second++ })

	bus.Emit(NameA)

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestBus_EmitWithoutSubscriber(t *testing.T) {
	bus := NewBus()

	assert.NotPanics(t, func() { bus.Emit(NameB) })
	assert.Equal(t, int64(1), bus.Emitted(NameB))
	assert.False(t, bus.Subscribed(NameB))
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	bus.Subscribe(NameA, func() { calls++ })
	bus.Unsubscribe(NameA)
	bus.Emit(NameA)

	assert.Equal(t, 0, calls)
}

func TestBus_NamesIndependent(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	counts := map[Name]int{}
	for _, name := range DefaultNames {
		name := name
		bus.Subscribe(name, func() {
			mu.Lock()
			counts[name]++
			mu.Unlock()
		})
	}

	var wg sync.WaitGroup
	for _, name := range DefaultNames {
		wg.Add(1)
		go func(name Name) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				bus.Emit(name)
			}
		}(name)
	}
	wg.Wait()

	assert.Equal(t, 100, counts[NameA])
	assert.Equal(t, 100, counts[NameB])
	assert.Equal(t, []Name{NameA, NameB}, bus.Names())
}

func TestParseNames(t *testing.T) {
	assert.Equal(t, []Name{"A", "C"}, ParseNames([]string{"A", "", "C"}))
	assert.Empty(t, ParseNames(nil))
}

func TestBus_Tally(t *testing.T) {
	bus := NewBus()
	calls := 0
	bus.Subscribe(NameA, func() { calls++ })

	bus.Tally(NameA)
	bus.Tally(NameA)
	bus.Emit(NameA)

	assert.Equal(t, int64(3), bus.Emitted(NameA))
	assert.Equal(t, 1, calls)
}
