package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds lockout tuning parameters.
type Config struct {
	MaxAttempts   int
	LockoutWindow time.Duration
	KeyPrefix     string
}

// Limiter tracks failed admin login attempts per client key using Redis
// counters, so the lockout holds across horizontally scaled instances.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "alock"
	}
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// Locked reports whether the client key has reached the attempt budget
// inside the lockout window. Expired counters vanish via TTL, so a missing
// key simply means "not locked".
func (l *Limiter) Locked(ctx context.Context, clientKey string) (bool, error) {
	count, err := l.redis.Get(ctx, l.key(clientKey)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return count >= int64(l.config.MaxAttempts), nil
}

// RecordFailure increments the failure counter for the client key. The
// window TTL is refreshed on every failure: the lockout is measured from
// the most recent attempt, not the first.
func (l *Limiter) RecordFailure(ctx context.Context, clientKey string) error {
	key := l.key(clientKey)

	if err := l.redis.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if err := l.redis.Expire(ctx, key, l.config.LockoutWindow).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Clear removes the failure counter for the client key. Called after a
// successful login.
func (l *Limiter) Clear(ctx context.Context, clientKey string) error {
	if err := l.redis.Del(ctx, l.key(clientKey)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Attempts returns the current failure count for a client key. Missing
// keys return zero.
func (l *Limiter) Attempts(ctx context.Context, clientKey string) (int, error) {
	count, err := l.redis.Get(ctx, l.key(clientKey)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

func (l *Limiter) key(clientKey string) string {
	return l.config.KeyPrefix + ":" + clientKey
}
