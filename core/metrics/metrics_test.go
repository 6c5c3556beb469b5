package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

// setupMetricsTest installs a manual-reader meter provider for the test.
func setupMetricsTest(t *testing.T) *sdkmetric.ManualReader {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	original := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	t.Cleanup(func() {
		otel.SetMeterProvider(original)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	})

	return reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumInt64(t *testing.T, m *metricdata.Metrics) int64 {
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected Sum[int64], got %T", m.Data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewRecorder(t *testing.T) {
	setupMetricsTest(t)

	rec := NewRecorder(zap.NewNop())
	require.NotNil(t, rec)

	_, isNoop := rec.(Noop)
	assert.False(t, isNoop, "expected real recorder, got noop")
}

func TestRecorder_Dispatch(t *testing.T) {
	reader := setupMetricsTest(t)

	r, err := newOtelRecorder()
	require.NoError(t, err)

	ctx := context.Background()
	r.RecordDispatch(ctx, "A", 3)
	r.RecordDispatch(ctx, "A", 2)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(2), sumInt64(t, findMetric(rm, "eventsync.propagation.dispatches")))
	assert.Equal(t, int64(5), sumInt64(t, findMetric(rm, "eventsync.propagation.delta")))
}

func TestRecorder_Apply(t *testing.T) {
	reader := setupMetricsTest(t)

	r, err := newOtelRecorder()
	require.NoError(t, err)

	ctx := context.Background()
	r.RecordApply(ctx, "A", 10*time.Millisecond, nil)
	r.RecordApply(ctx, "A", 20*time.Millisecond, errors.New("rejected"))

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(1), sumInt64(t, findMetric(rm, "eventsync.propagation.rejections")))

	latency := findMetric(rm, "eventsync.propagation.apply_latency_ms")
	require.NotNil(t, latency)
	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok)

	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}

func TestRecorder_Parked(t *testing.T) {
	reader := setupMetricsTest(t)

	r, err := newOtelRecorder()
	require.NoError(t, err)

	r.RecordParked(context.Background(), "B", 7)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(1), sumInt64(t, findMetric(rm, "eventsync.propagation.parked")))
}

func TestNoop(t *testing.T) {
	var r Recorder = Noop{}
	assert.NotPanics(t, func() {
		r.RecordDispatch(context.Background(), "A", 1)
		r.RecordApply(context.Background(), "A", time.Millisecond, nil)
		r.RecordParked(context.Background(), "A", 1)
	})
}
