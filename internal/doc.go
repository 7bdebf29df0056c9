// Package internal groups the implementation packages that are private to
// kapici.
//
// # Sub-packages
//
//   - audit — async event dispatch (Dispatcher + Sink implementations)
//   - metrics — lock-free counters and the verify latency histogram
//   - rate — Redis-backed failed-login counters shared across instances
//   - server — the HTTP surface (routes, status mapping, localization)
//
// # What this package must NOT do
//
//   - Export types that appear in the public kapici API.
//   - Be imported by any package outside the kapici module.
package internal
