// Package audit provides structured audit events and an asynchronous
// dispatcher for the admin session authority.
//
// # Design
//
// Events are emitted on login, verification, and revocation paths and
// forwarded to a caller-supplied Sink from a single dispatcher goroutine.
// When DropIfFull is set, a full buffer drops the event and increments a
// counter instead of blocking the request path.
//
// # What this package must NOT do
//
//   - Block engine operations on a slow sink (unless DropIfFull is off
//     and the caller's context allows it).
//   - Import the kapici root package.
package audit
