package kapici

import (
	"context"
	"sync"
	"time"
)

// AttemptTracker throttles repeated failed login attempts per client key.
// Implementations must be safe for concurrent use.
//
// The tracker is advisory: the client key derives from proxy-controlled
// headers and can be varied by a determined attacker. It defends against
// naive brute force, not a distributed one.
type AttemptTracker interface {
	// Locked reports whether the key has accumulated MaxAttempts failures
	// and the lockout window since the last failure has not yet elapsed.
	Locked(ctx context.Context, clientKey string) (bool, error)
	// RecordFailure counts one failed attempt against the key.
	RecordFailure(ctx context.Context, clientKey string) error
	// Clear removes all failure state for the key.
	Clear(ctx context.Context, clientKey string) error
}

type attemptRecord struct {
	count       int
	lastAttempt time.Time
}

// MemoryTracker is the process-local [AttemptTracker]: a mutex-protected
// map of failure counts. Lockout state is lost on restart and is not
// shared across instances; use the Redis-backed tracker (a Builder with
// WithRedis) when the deployment is horizontally scaled.
type MemoryTracker struct {
	mu      sync.Mutex
	entries map[string]attemptRecord
	config  ThrottleConfig

	now func() time.Time // test seam
}

// NewMemoryTracker creates an in-memory tracker with the given thresholds.
func NewMemoryTracker(cfg ThrottleConfig) *MemoryTracker {
	return &MemoryTracker{
		entries: make(map[string]attemptRecord),
		config:  cfg,
		now:     time.Now,
	}
}

// Locked implements [AttemptTracker]. A record whose window has elapsed is
// deleted as a side effect, so the next failure restarts the count from
// zero.
func (t *MemoryTracker) Locked(_ context.Context, clientKey string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries[clientKey]
	if !ok {
		return false, nil
	}
	if t.now().Sub(entry.lastAttempt) >= t.config.LockoutWindow {
		delete(t.entries, clientKey)
		return false, nil
	}

	return entry.count >= t.config.MaxAttempts, nil
}

// RecordFailure implements [AttemptTracker]. The window is measured from
// the most recent failure, so repeated attempts keep an entry alive.
func (t *MemoryTracker) RecordFailure(_ context.Context, clientKey string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := t.entries[clientKey]
	if entry.count > 0 && t.now().Sub(entry.lastAttempt) >= t.config.LockoutWindow {
		entry = attemptRecord{}
	}

	entry.count++
	entry.lastAttempt = t.now()
	t.entries[clientKey] = entry

	return nil
}

// Clear implements [AttemptTracker].
func (t *MemoryTracker) Clear(_ context.Context, clientKey string) error {
	t.mu.Lock()
	delete(t.entries, clientKey)
	t.mu.Unlock()
	return nil
}
