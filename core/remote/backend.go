package remote

import (
	"context"
	"sync"

	"event-sync/core/events"
)

// Backend stores the remote counts.
type Backend interface {
	// Add increments the count for name by delta.
	Add(ctx context.Context, name events.Name, delta int64) error
	// Count returns the count for name, zero if absent.
	Count(ctx context.Context, name events.Name) (int64, error)
	// Reset removes all counts.
	Reset(ctx context.Context) error
}

// MemoryBackend keeps counts in a map.
type MemoryBackend struct {
	mu     sync.RWMutex
	counts map[events.Name]int64
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{counts: make(map[events.Name]int64)}
}

func (b *MemoryBackend) Add(_ context.Context, name events.Name, delta int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.counts[name] += delta
	return nil
}

func (b *MemoryBackend) Count(_ context.Context, name events.Name) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.counts[name], nil
}

func (b *MemoryBackend) Reset(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.counts = make(map[events.Name]int64)
	return nil
}
