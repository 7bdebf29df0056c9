// Package prometheus renders kapici engine metrics in Prometheus text
// exposition format.
//
// [NewExporter] accepts a [kapici.Engine] and exposes an [http.Handler]
// that renders all counters and the verify latency histogram. Counter
// names are prefixed kapici_*_total; the histogram is
// kapici_verify_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount
//     the Handler.
//   - Mutate engine state.
package prometheus
