// Package prometheus renders accountcore metrics in Prometheus text exposition
// format.
//
// [NewPrometheusExporter] accepts any [MetricsSource], typically an
// *accountcore.Manager, and exposes an [http.Handler] for mounting on a
// metrics route. Nothing is registered globally.
package prometheus
