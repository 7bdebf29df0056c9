// Package rate provides the Redis-backed failed-login counter used by the
// shared attempt tracker.
//
// # Window semantics
//
// One counter per client key under prefix "alock:". INCR + EXPIRE on every
// failure, so the lockout window is measured from the most recent failed
// attempt. DEL on successful login. Expiry replaces the in-memory
// tracker's lazy deletion.
//
// # What this package must NOT do
//
//   - Decide lockout policy constants (those live in the root Config).
//   - Be imported outside the kapici module.
package rate
