// Package middleware exposes the HTTP route guard built on top of
// kapici.Engine verification.
//
// # Guards
//
//   - [Guard] — verifies the bearer token on every request and injects the
//     [kapici.VerifyResult] into the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// Engine.Verify.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from Engine.Verify.
package middleware
