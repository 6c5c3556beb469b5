package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-sync/core/events"
)

// ErrRejected is returned when the remote store declines to apply a delta.
var ErrRejected = errors.New("remote store rejected update")

// Store is the contract the synchronizer consumes.
type Store interface {
	// Apply adds delta to the remote count for name. It blocks until the
	// update is applied or rejected.
	Apply(ctx context.Context, name events.Name, delta int64) error
	// Count returns the remote count for name.
	Count(ctx context.Context, name events.Name) (int64, error)
}

// DelayedStore delays and randomly rejects updates before handing them to a Backend.
type DelayedStore struct {
	backend Backend
	policy  Policy
}

// NewDelayedStore creates a DelayedStore.
func NewDelayedStore(backend Backend, policy Policy) *DelayedStore {
	return &DelayedStore{backend: backend, policy: policy}
}

// Apply waits for the policy delay, then applies or rejects the update.
func (s *DelayedStore) Apply(ctx context.Context, name events.Name, delta int64) error {
	if d := s.policy.Delay(name); d > 0 {
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if s.policy.Reject(name) {
		return fmt.Errorf("apply %s by %d: %w", name, delta, ErrRejected)
	}

	if err := s.backend.Add(ctx, name, delta); err != nil {
		return fmt.Errorf("apply %s by %d: %w", name, delta, err)
	}
	return nil
}

// Count reads the backend directly, without delay or rejection.
func (s *DelayedStore) Count(ctx context.Context, name events.Name) (int64, error) {
	return s.backend.Count(ctx, name)
}

// Backend returns the underlying backend.
func (s *DelayedStore) Backend() Backend {
	return s.backend
}
