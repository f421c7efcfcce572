package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// RedisCache backs the result cache with Redis, for deployments where the
// dashboard and a refresh job share cached bundles across hosts. TTL is
// enforced server-side on each SET.
type RedisCache struct {
	c   *redis.Client
	ttl time.Duration
}

// NewRedis creates a Redis-backed cache.
func NewRedis(addr string, db int, ttl time.Duration) *RedisCache {
	return &RedisCache{
		c:   redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		ttl: ttl,
	}
}

// NewRedisWithClient wraps an existing client; used by tests.
func NewRedisWithClient(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{c: c, ttl: ttl}
}

// Get returns the entry for key; any Redis error is a miss.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.c.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("redis get failed, treating as miss")
		}
		return nil, false
	}
	return data, true
}

// Set stores the entry for key with the configured TTL.
func (r *RedisCache) Set(ctx context.Context, key string, data []byte) {
	if err := r.c.Set(ctx, key, data, r.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}
