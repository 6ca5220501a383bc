package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"cleanearth/internal/config"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// InitDB connects to PostgreSQL, applies migrations and waits until the
// database answers health checks.
func InitDB(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*Manager, error) {
	var manager *Manager

	connect := func() error {
		m, err := NewManager(cfg, logger)
		if err != nil {
			return err
		}
		manager = m
		return nil
	}

	if err := retry(ctx, connect, cfg.ConnectTimeout, 0, logger, "connect"); err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}

	migrationsPath := determineMigrationsPath(cfg.MigrationsPath)
	logger.Info("Using migrations path", zap.String("path", migrationsPath))

	migrateUp := func() error { return manager.Migrate(migrationsPath) }
	if err := retry(ctx, migrateUp, 0, cfg.MigrationRetries, logger, "migrate"); err != nil {
		manager.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	healthCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if status := Health(healthCtx, manager); status.Status != StatusHealthy {
		manager.Close()
		return nil, fmt.Errorf("database failed to become healthy: %v", status.Errors)
	}

	return manager, nil
}

// retry runs op with exponential backoff, bounded either by elapsed time or
// by a number of retries.
func retry(ctx context.Context, op func() error, maxElapsed time.Duration, maxRetries int, logger *zap.Logger, step string) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = maxElapsed

	var policy backoff.BackOff = b
	if maxRetries > 0 {
		policy = backoff.WithMaxRetries(b, uint64(maxRetries))
	}

	return backoff.RetryNotify(op, backoff.WithContext(policy, ctx), func(err error, d time.Duration) {
		logger.Warn("Database step failed, retrying",
			zap.String("step", step),
			zap.Error(err),
			zap.Duration("retry_in", d),
		)
	})
}

func determineMigrationsPath(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	paths := []string{
		"./migrations",
		"../migrations",
		"../../migrations",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "./migrations"
}
