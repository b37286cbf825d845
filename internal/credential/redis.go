package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPersister stores values as plain Redis strings under a key prefix.
type RedisPersister struct {
	client *redis.Client
	prefix string
}

// RedisOptions configures NewRedisPersister.
type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

// NewRedisPersister connects to Redis and verifies the connection with PING.
func NewRedisPersister(ctx context.Context, opts RedisOptions) (*RedisPersister, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "glance:"
	}
	return &RedisPersister{client: client, prefix: prefix}, nil
}

// Load implements Persister.
func (r *RedisPersister) Load(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, nil
}

// Save implements Persister.
func (r *RedisPersister) Save(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete implements Persister.
func (r *RedisPersister) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// Close closes the Redis client.
func (r *RedisPersister) Close() error {
	return r.client.Close()
}
