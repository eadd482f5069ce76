// Package prometheus provides Prometheus collectors for goSignin metrics.
//
// [NewPrometheusExporter] accepts a [goSignin.Engine] and exposes an [http.Handler]
// that renders all goSignin counters and histograms in Prometheus text exposition format.
// Counter names are prefixed gosignin_*_total; the single histogram is
// gosignin_signin_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
