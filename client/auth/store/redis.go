package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisTimeout = 3 * time.Second

// RedisStore shares credentials between processes; keys are namespaced by prefix
type RedisStore struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
}

func (r *RedisStore) key(key string) string {
	return r.prefix + key
}

func (r *RedisStore) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

// Get returns value; lookup failures are reported as absent
func (r *RedisStore) Get(key string) (string, bool) {
	ctx, cancel := r.withTimeout()
	defer cancel()
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

func (r *RedisStore) Set(key, value string) error {
	ctx, cancel := r.withTimeout()
	defer cancel()
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *RedisStore) Remove(key string) error {
	ctx, cancel := r.withTimeout()
	defer cancel()
	err := r.client.Del(ctx, r.key(key)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// Ping checks connectivity
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// NewRedisStore creates redis backed store
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, timeout: defaultRedisTimeout}
}
