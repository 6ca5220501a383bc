package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cleanearth/internal/config"
	"cleanearth/internal/kvstore"
	"cleanearth/internal/repositories"

	"go.uber.org/zap"
)

// TokenRevoker records logged-out token ids until the tokens expire
type TokenRevoker interface {
	// Revoke is a no-op for tokens that have already expired
	Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Close() error
}

// NewTokenRevoker builds the revoker for the configured backend. The
// memory backend owns a private store; the redis backend shares store.
func NewTokenRevoker(cfg config.RevocationConfig, repo repositories.RevokedTokenRepository, store kvstore.Store, logger *zap.Logger) (TokenRevoker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case "postgres", "":
		if repo == nil {
			return nil, fmt.Errorf("postgres revocation backend needs a repository")
		}
		return NewDatabaseRevoker(repo, logger), nil
	case "redis":
		if store == nil {
			return nil, fmt.Errorf("redis revocation backend needs a store")
		}
		return NewStoreRevoker(store, false, logger), nil
	case "memory":
		return NewStoreRevoker(kvstore.NewMemoryStore(cfg.CleanupInterval, logger), true, logger), nil
	default:
		return nil, fmt.Errorf("unsupported revocation backend: %s", cfg.Backend)
	}
}

// ===============================
// DATABASE BACKEND
// ===============================

type databaseRevoker struct {
	repo   repositories.RevokedTokenRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewDatabaseRevoker stores revocations in the revoked_tokens table
func NewDatabaseRevoker(repo repositories.RevokedTokenRepository, logger *zap.Logger) TokenRevoker {
	return &databaseRevoker{repo: repo, logger: logger, now: time.Now}
}

func (r *databaseRevoker) Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	if !expiresAt.After(r.now()) {
		return nil
	}
	return r.repo.Revoke(ctx, jti, userID, expiresAt)
}

func (r *databaseRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return r.repo.IsRevoked(ctx, jti)
}

func (r *databaseRevoker) Close() error {
	return nil
}

// ===============================
// KEY/VALUE STORE BACKEND
// ===============================

const revokedKeyPrefix = "revoked:"

type storeRevoker struct {
	store  kvstore.Store
	owned  bool
	logger *zap.Logger
	now    func() time.Time
}

// NewStoreRevoker keeps revocations in a key/value store with a TTL equal
// to the token's remaining lifetime. When owned is true Close closes the
// store.
func NewStoreRevoker(store kvstore.Store, owned bool, logger *zap.Logger) TokenRevoker {
	return &storeRevoker{store: store, owned: owned, logger: logger, now: time.Now}
}

func (r *storeRevoker) Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.store.Set(ctx, revokedKeyPrefix+jti, strconv.FormatInt(userID, 10), ttl)
}

func (r *storeRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return r.store.Exists(ctx, revokedKeyPrefix+jti)
}

func (r *storeRevoker) Close() error {
	if r.owned {
		return r.store.Close()
	}
	return nil
}

// ===============================
// JANITOR
// ===============================

// RevocationJanitor periodically deletes expired rows from revoked_tokens
type RevocationJanitor struct {
	repo     repositories.RevokedTokenRepository
	interval time.Duration
	logger   *zap.Logger
}

// NewRevocationJanitor creates a janitor running every interval
func NewRevocationJanitor(repo repositories.RevokedTokenRepository, interval time.Duration, logger *zap.Logger) *RevocationJanitor {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RevocationJanitor{repo: repo, interval: interval, logger: logger}
}

// Start runs the janitor until ctx is cancelled. The returned channel is
// closed when the loop has exited.
func (j *RevocationJanitor) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.RunOnce(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	return done
}

// RunOnce purges expired revocations and returns how many were removed
func (j *RevocationJanitor) RunOnce(ctx context.Context) int64 {
	n, err := j.repo.PurgeExpired(ctx)
	if err != nil {
		j.logger.Warn("Failed to purge revoked tokens", zap.Error(err))
		return 0
	}
	if n > 0 {
		j.logger.Info("Purged expired revoked tokens", zap.Int64("count", n))
	}
	return n
}
