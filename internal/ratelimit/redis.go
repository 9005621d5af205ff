package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisStore shares buckets across instances. Entries expire shortly
// after their window so the keyspace does not grow unbounded.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (Bucket, bool, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Bucket{}, false, nil
	}
	if err != nil {
		return Bucket{}, false, err
	}

	var bucket Bucket
	if err := json.Unmarshal(data, &bucket); err != nil {
		return Bucket{}, false, err
	}
	return bucket, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, bucket Bucket) error {
	data, err := json.Marshal(bucket)
	if err != nil {
		return err
	}

	ttl := time.Until(bucket.ExpiresAt) + time.Minute
	return s.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
