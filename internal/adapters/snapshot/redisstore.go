package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists snapshots as opaque blobs in Redis, one key per
// session. Suitable when several service instances share a user base and
// snapshots must outlive any single process.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// RedisOption applies a configuration option to the RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix sets the Redis key namespace. Default "panel:snapshot:".
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *RedisStore) {
		if prefix != "" {
			r.keyPrefix = prefix
		}
	}
}

// WithTTL expires idle sessions after d. Zero means no expiry.
func WithTTL(d time.Duration) RedisOption {
	return func(r *RedisStore) {
		if d > 0 {
			r.ttl = d
		}
	}
}

// NewRedisStore creates a Redis-backed store on an existing client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	r := &RedisStore{
		client:    client,
		keyPrefix: "panel:snapshot:",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load implements Store.
func (r *RedisStore) Load(ctx context.Context, key string) (*Snapshot, error) {
	data, err := r.client.Get(ctx, r.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis load: %w", err)
	}
	return Decode(data)
}

// Save implements Store.
func (r *RedisStore) Save(ctx context.Context, key string, s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.keyPrefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis save: %w", err)
	}
	return nil
}
