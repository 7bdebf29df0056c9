package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	limiter := New(rdb, Config{
		MaxAttempts:   5,
		LockoutWindow: 15 * time.Minute,
	})
	return limiter, mr
}

func TestLimiterLocksAtMaxAttempts(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := limiter.RecordFailure(ctx, "1.2.3.4"); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}
	locked, err := limiter.Locked(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("locked check: %v", err)
	}
	if locked {
		t.Fatal("locked below threshold")
	}

	if err := limiter.RecordFailure(ctx, "1.2.3.4"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	locked, err = limiter.Locked(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("locked check: %v", err)
	}
	if !locked {
		t.Fatal("expected lock at threshold")
	}
}

func TestLimiterMissingKeyNotLocked(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	locked, err := limiter.Locked(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("locked check: %v", err)
	}
	if locked {
		t.Fatal("missing key must not be locked")
	}
}

func TestLimiterCounterExpiresWithWindow(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = limiter.RecordFailure(ctx, "1.2.3.4")
	}

	mr.FastForward(14 * time.Minute)
	locked, _ := limiter.Locked(ctx, "1.2.3.4")
	if !locked {
		t.Fatal("expected lock to hold inside window")
	}

	mr.FastForward(2 * time.Minute)
	locked, _ = limiter.Locked(ctx, "1.2.3.4")
	if locked {
		t.Fatal("expected counter to expire with the window")
	}
}

func TestLimiterWindowRefreshesOnEachFailure(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	_ = limiter.RecordFailure(ctx, "1.2.3.4")
	mr.FastForward(14 * time.Minute)
	_ = limiter.RecordFailure(ctx, "1.2.3.4")
	mr.FastForward(14 * time.Minute)

	// Neither gap exceeded the window, so both failures still count.
	n, err := limiter.Attempts(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if n != 2 {
		t.Fatalf("attempts = %d, want 2", n)
	}
}

func TestLimiterClear(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = limiter.RecordFailure(ctx, "1.2.3.4")
	}
	if err := limiter.Clear(ctx, "1.2.3.4"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	locked, _ := limiter.Locked(ctx, "1.2.3.4")
	if locked {
		t.Fatal("expected clear to reset the counter")
	}
	n, _ := limiter.Attempts(ctx, "1.2.3.4")
	if n != 0 {
		t.Fatalf("attempts after clear = %d, want 0", n)
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = limiter.RecordFailure(ctx, "1.2.3.4")
	}

	locked, _ := limiter.Locked(ctx, "5.6.7.8")
	if locked {
		t.Fatal("lockout must not leak across client keys")
	}
}

func TestLimiterRedisDownSurfacesError(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()
	mr.Close()

	if _, err := limiter.Locked(ctx, "1.2.3.4"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("Locked error = %v, want ErrRedisUnavailable", err)
	}
	if err := limiter.RecordFailure(ctx, "1.2.3.4"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("RecordFailure error = %v, want ErrRedisUnavailable", err)
	}
	if err := limiter.Clear(ctx, "1.2.3.4"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("Clear error = %v, want ErrRedisUnavailable", err)
	}
}
