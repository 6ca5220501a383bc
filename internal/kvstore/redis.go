// internal/kvstore/redis.go
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cleanearth/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore is a Store backed by Redis
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(cfg config.StoreConfig, logger *zap.Logger) (*RedisStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var options *redis.Options
	if cfg.RedisURL != "" {
		var err error
		options, err = redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
	} else {
		options = &redis.Options{
			Addr:     "localhost:6379",
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}

	if cfg.PoolSize > 0 {
		options.PoolSize = cfg.PoolSize
	}

	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis key/value store",
		zap.String("addr", options.Addr),
		zap.Int("db", options.DB),
	)

	return &RedisStore{client: client, logger: logger}, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("redis exists %s: %w", key, err)
	}
	return n > 0, nil
}

// Increment bumps key and starts its window on first use. INCR and the
// expiry run in one MULTI block.
func (r *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		if window > 0 {
			// NX keeps a running window and repairs a key left without a TTL
			pipe.ExpireNX(ctx, key, window)
		}
		return nil
	})
	if err != nil {
		r.logger.Warn("Failed to increment counter", zap.String("key", key), zap.Error(err))
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	return incr.Val(), nil
}

// TTL returns the remaining lifetime of key
func (r *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	return r.client.TTL(ctx, key).Result()
}

func (r *RedisStore) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
