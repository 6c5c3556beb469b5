package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const meterName = "event-sync"

// Recorder records propagation metrics per event name.
type Recorder interface {
	// RecordDispatch records one remote call carrying delta.
	RecordDispatch(ctx context.Context, name string, delta int64)
	// RecordApply records a completed remote call and its latency.
	RecordApply(ctx context.Context, name string, duration time.Duration, err error)
	// RecordParked records a batch parked after exhausting its retries.
	RecordParked(ctx context.Context, name string, delta int64)
}

type otelRecorder struct {
	dispatches   metric.Int64Counter
	delta        metric.Int64Counter
	rejections   metric.Int64Counter
	parked       metric.Int64Counter
	applyLatency metric.Float64Histogram
}

var (
	defaultRecorder     *otelRecorder
	defaultRecorderOnce sync.Once
	defaultRecorderErr  error
)

func getDefaultRecorder() (*otelRecorder, error) {
	defaultRecorderOnce.Do(func() {
		defaultRecorder, defaultRecorderErr = newOtelRecorder()
	})
	return defaultRecorder, defaultRecorderErr
}

func newOtelRecorder() (*otelRecorder, error) {
	meter := otel.Meter(meterName)

	dispatches, err := meter.Int64Counter("eventsync.propagation.dispatches",
		metric.WithDescription("Number of remote apply calls issued"),
	)
	if err != nil {
		return nil, err
	}

	delta, err := meter.Int64Counter("eventsync.propagation.delta",
		metric.WithDescription("Sum of deltas carried by remote apply calls"),
	)
	if err != nil {
		return nil, err
	}

	rejections, err := meter.Int64Counter("eventsync.propagation.rejections",
		metric.WithDescription("Number of remote apply calls that failed"),
	)
	if err != nil {
		return nil, err
	}

	parked, err := meter.Int64Counter("eventsync.propagation.parked",
		metric.WithDescription("Number of batches parked after exhausting retries"),
	)
	if err != nil {
		return nil, err
	}

	applyLatency, err := meter.Float64Histogram("eventsync.propagation.apply_latency_ms",
		metric.WithDescription("Remote apply latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelRecorder{
		dispatches:   dispatches,
		delta:        delta,
		rejections:   rejections,
		parked:       parked,
		applyLatency: applyLatency,
	}, nil
}

// NewRecorder returns an OpenTelemetry Recorder, or Noop if the instruments
// cannot be created.
func NewRecorder(logger *zap.Logger) Recorder {
	r, err := getDefaultRecorder()
	if err != nil {
		if logger != nil {
			logger.Warn("metrics initialization failed, using no-op recorder", zap.Error(err))
		}
		return Noop{}
	}
	return r
}

func (r *otelRecorder) RecordDispatch(ctx context.Context, name string, delta int64) {
	attrs := metric.WithAttributes(attribute.String("event", name))
	r.dispatches.Add(ctx, 1, attrs)
	r.delta.Add(ctx, delta, attrs)
}

func (r *otelRecorder) RecordApply(ctx context.Context, name string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("event", name),
		attribute.Bool("success", err == nil),
	}
	r.applyLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		r.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("event", name)))
	}
}

func (r *otelRecorder) RecordParked(ctx context.Context, name string, delta int64) {
	r.parked.Add(ctx, 1, metric.WithAttributes(attribute.String("event", name), attribute.Int64("delta", delta)))
}

// Noop discards all metrics.
type Noop struct{}

func (Noop) RecordDispatch(context.Context, string, int64)             {}
func (Noop) RecordApply(context.Context, string, time.Duration, error) {}
func (Noop) RecordParked(context.Context, string, int64)               {}
