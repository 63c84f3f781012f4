package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/clasit/syllabus-manager/internal/pkg/apperrors"
)

// RedisStore backs the catalog cache with redis.
type RedisStore struct {
	rdb *goredis.Client
}

// NewRedisStore wraps a connected redis client as a cache Store.
func NewRedisStore(rdb *goredis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Get reads one entry. Absent keys report ErrCacheMiss; anything else is
// an unavailable store, which the cache treats as a forced miss.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCacheUnavailable, err)
	}
	return data, nil
}

// Set writes one entry with an expiration.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrCacheUnavailable, err)
	}
	return nil
}
