package propagation

import (
	"event-sync/core/metrics"

	"go.uber.org/zap"
)

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithConfig sets batching and retry configuration.
func WithConfig(cfg Config) Option {
	return func(s *Synchronizer) {
		s.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Synchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(rec metrics.Recorder) Option {
	return func(s *Synchronizer) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithOnExhausted sets a callback for batches parked after exhausting retries.
// It runs on the goroutine that completed the final attempt.
func WithOnExhausted(fn func(err *ExhaustedError)) Option {
	return func(s *Synchronizer) {
		s.onExhausted = fn
	}
}
