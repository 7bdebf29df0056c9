package kapici

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// revocationStore is the token denylist: one Redis key per revoked jti,
// expiring when the token itself would have expired. A token absent from
// the store is not revoked.
type revocationStore struct {
	redis  redis.UniversalClient
	prefix string
}

func newRevocationStore(redisClient redis.UniversalClient, cfg RevocationConfig) *revocationStore {
	return &revocationStore{
		redis:  redisClient,
		prefix: cfg.RedisPrefix,
	}
}

func (s *revocationStore) Revoke(ctx context.Context, tokenID string, remaining time.Duration) error {
	if remaining <= 0 {
		// already expired, nothing to deny
		return nil
	}

	if err := s.redis.Set(ctx, s.key(tokenID), "1", remaining).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (s *revocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return n > 0, nil
}

func (s *revocationStore) key(tokenID string) string {
	return s.prefix + ":" + tokenID
}
