package stats

import (
	"context"
	"errors"
	"fmt"

	"event-sync/core/events"
	"event-sync/core/observer"
	"event-sync/core/propagation"

	"go.uber.org/zap"
)

// MaxEmitCount bounds the count accepted by Emit.
const MaxEmitCount = 10000

var (
	// ErrUnknownName is returned for a name outside the configured set.
	ErrUnknownName = errors.New("unknown event name")
	// ErrInvalidCount is returned for a count outside [1, MaxEmitCount].
	ErrInvalidCount = errors.New("invalid count")
)

// Service answers stats queries.
type Service struct {
	bus      *events.Bus
	sync     *propagation.Synchronizer
	observer *observer.Observer
	names    map[events.Name]struct{}
	logger   *zap.Logger
}

// NewService creates a new stats service.
func NewService(bus *events.Bus, sync *propagation.Synchronizer, obs *observer.Observer, logger *zap.Logger) *Service {
	names := make(map[events.Name]struct{}, len(obs.Names()))
	for _, n := range obs.Names() {
		names[n] = struct{}{}
	}
	return &Service{
		bus:      bus,
		sync:     sync,
		observer: obs,
		names:    names,
		logger:   logger,
	}
}

func (s *Service) known(name events.Name) error {
	if _, ok := s.names[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownName, name)
	}
	return nil
}

// Report returns the counts of every name.
func (s *Service) Report(ctx context.Context) (observer.Report, error) {
	return s.observer.Collect(ctx)
}

// Result returns the counts of one name.
func (s *Service) Result(ctx context.Context, name events.Name) (observer.Result, error) {
	if err := s.known(name); err != nil {
		return observer.Result{}, err
	}
	return s.observer.CollectOne(ctx, name)
}

// Emit records count occurrences of name and returns the local count after the
// last one. It stops at the first occurrence the synchronizer refuses.
func (s *Service) Emit(name events.Name, count int) (int64, error) {
	if err := s.known(name); err != nil {
		return 0, err
	}
	if count < 1 || count > MaxEmitCount {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	var local int64
	for i := 0; i < count; i++ {
		n, err := s.sync.Record(name)
		if err != nil {
			return 0, fmt.Errorf("record occurrence %d of %d: %w", i+1, count, err)
		}
		s.bus.Tally(name)
		local = n
	}
	return local, nil
}

// State returns the propagation state of name.
func (s *Service) State(name events.Name) (propagation.State, error) {
	if err := s.known(name); err != nil {
		return propagation.State{}, err
	}
	return s.sync.Snapshot(name), nil
}

// Redrive requeues the parked deltas of name and returns their sum.
func (s *Service) Redrive(name events.Name) (int64, error) {
	if err := s.known(name); err != nil {
		return 0, err
	}
	return s.sync.Redrive(name), nil
}
