package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/noteforge/noteforge/internal/config"
	"github.com/noteforge/noteforge/internal/observability"
)

// releaseScript deletes the lock only when it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const lockPollInterval = 50 * time.Millisecond

// RedisLocker is a Locker shared by every API replica pointing at the same Redis.
// A lock expires after ttl if its holder dies.
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *observability.Logger
}

// NewRedisLocker connects to Redis and verifies the connection.
func NewRedisLocker(cfg config.RedisConfig, ttl time.Duration, logger *observability.Logger) (*RedisLocker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "noteforge:lock:"
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = observability.Nop()
	}

	return &RedisLocker{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.WithComponent("redis-locker"),
	}, nil
}

// Lock polls SET NX PX until the key is acquired or ctx ends.
func (r *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := r.prefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis setnx: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The caller's context may already be done; release regardless.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := releaseScript.Run(releaseCtx, r.client, []string{redisKey}, token).Err(); err != nil {
				r.logger.Warn().Err(err).Str("key", key).Msg("failed to release lock")
			}
		})
	}, nil
}

// Close closes the Redis connection.
func (r *RedisLocker) Close() error {
	return r.client.Close()
}
