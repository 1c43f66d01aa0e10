package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mj1618/a11y-audit/internal/model"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces baseline keys.
const DefaultRedisPrefix = "a11y-audit:baseline:"

// RedisStore keeps baselines as JSON values in Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
	// TTL expires baselines; zero keeps them forever.
	TTL time.Duration
}

// NewRedisStore connects to redisURL and verifies the connection.
// URL format: redis://[:password@]host:port/db
func NewRedisStore(ctx context.Context, redisURL, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.PoolSize = 4
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return NewRedisStoreFromClient(client, prefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, key string) (model.Baseline, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Baseline{}, ErrNotFound
	}
	if err != nil {
		return model.Baseline{}, fmt.Errorf("redis get: %w", err)
	}
	var b model.Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return model.Baseline{}, fmt.Errorf("decode baseline: %w", err)
	}
	return b, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, key string, b model.Baseline) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode baseline: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), data, s.TTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
