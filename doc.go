// Package kapici implements the admin session authority for a bilingual
// (Turkish/English) SaaS site: static admin credential verification,
// per-client failed-attempt lockout, issuance of signed 24-hour admin
// tokens, and token verification with an optional revocation denylist.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// kapici is the public surface. It exposes [Engine], [Builder], [Config],
// [AttemptTracker], and value types ([VerifyResult], [MetricsSnapshot]).
// All internal coordination (Redis counters, audit dispatch, metric
// storage) lives under internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Expose Redis clients or key layouts in its public API.
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
//   - Render HTTP responses; status mapping and message localization
//     belong to internal/server and the locale package.
package kapici
