package redisStore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func (s *Store) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *Store) IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// these are for the history store
func (s *Store) ListPush(ctx context.Context, key string, value interface{}) error {
	return s.client.RPush(ctx, key, value).Err()
}

// ListTrim drops everything but the newest keep entries.
func (s *Store) ListTrim(ctx context.Context, key string, keep int64) error {
	return s.client.LTrim(ctx, key, -keep, -1).Err()
}

// ListGetRecent returns the newest n entries, oldest first.
func (s *Store) ListGetRecent(ctx context.Context, key string, n int64) ([]string, error) {
	return s.client.LRange(ctx, key, -n, -1).Result()
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.client.Exists(ctx, key).Result()
	return count > 0, err
}
