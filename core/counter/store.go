// Package counter holds the local, authoritative per-event counts.
//
// MemoryStore has no concurrency control of its own. The synchronizer is its
// only writer and serializes access.
package counter

import "event-sync/core/events"

// Store reads and writes one integer count per event name.
type Store interface {
	// Get returns the count for name, zero if never set.
	Get(name events.Name) int64
	// Set replaces the count for name.
	Set(name events.Name, value int64)
}

// MemoryStore is a map-backed Store.
type MemoryStore struct {
	counts map[events.Name]int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[events.Name]int64)}
}

func (s *MemoryStore) Get(name events.Name) int64 {
	return s.counts[name]
}

func (s *MemoryStore) Set(name events.Name, value int64) {
	s.counts[name] = value
}
