package propagation

import (
	"errors"
	"fmt"

	"event-sync/core/events"
)

var (
	// ErrInvalidDelta is returned for a non-positive delta.
	ErrInvalidDelta = errors.New("delta must be positive")
	// ErrClosed is returned when recording after Close.
	ErrClosed = errors.New("synchronizer is closed")
)

// ExhaustedError reports a batch that was parked after MaxAttempts failures.
// The remote count for Name may be behind the local count until it is redriven.
type ExhaustedError struct {
	Name     events.Name
	Delta    int64
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("propagation of %d to %s exhausted after %d attempts, count may be inconsistent: %v",
		e.Delta, e.Name, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}
