// Package metrics records propagation metrics through OpenTelemetry.
//
// Use NewRecorder for the global OTel meter provider or Noop when metrics are
// disabled. Configure the provider before creating the recorder:
//
//	otel.SetMeterProvider(provider)
//	rec := metrics.NewRecorder(logger)
package metrics
