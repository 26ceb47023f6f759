// Package otel publishes accountcore metrics through OpenTelemetry.
//
// [NewOTelExporter] registers one Int64ObservableCounter per counter and one
// Int64ObservableGauge per histogram bucket, all fed by a single callback that
// reads MetricsSnapshot on each collection. Callers own the MeterProvider.
package otel
