// internal/kvstore/store.go
package kvstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cleanearth/internal/config"

	"go.uber.org/zap"
)

// ===============================
// STORE INTERFACE
// ===============================

// Store is a small expiring key/value store. It backs token revocation
// and the credential rate limiter.
type Store interface {
	// Set stores value under key. A non-positive ttl keeps the key until
	// it is overwritten.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)

	// Increment bumps a counter and starts its window on first use. The
	// window is not extended by later increments.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)

	Health(ctx context.Context) error
	Close() error
}

// New creates a store for the configured provider
func New(cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(cfg.Provider) {
	case "redis":
		return NewRedisStore(cfg, logger)
	case "memory", "":
		logger.Info("Using in-memory key/value store")
		return NewMemoryStore(cfg.CleanupInterval, logger), nil
	default:
		return nil, fmt.Errorf("unsupported store provider: %s", cfg.Provider)
	}
}
