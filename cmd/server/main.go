// @title           CleanEarth API
// @version         1.0.0
// @description     Community waste-cleanup requests, campaigns and volunteer participation.

// @contact.name   CleanEarth Maintainers

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cleanearth/internal/config"
	"cleanearth/internal/database"
	"cleanearth/internal/kvstore"
	"cleanearth/internal/repositories"
	"cleanearth/internal/response"
	"cleanearth/internal/router"
	"cleanearth/internal/services"
	"cleanearth/internal/utils"
	"cleanearth/internal/utils/appinfo"

	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Bootstrap logger until configuration is loaded
	logger, err := initLogger(os.Getenv("GO_ENV"), config.LoggingConfig{})
	if err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger, err = initLogger(cfg.Server.Environment, cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Starting CleanEarth API",
		zap.String("version", appinfo.Version()),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Application stopped with error", zap.Error(err))
	}
	logger.Info("Application stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	dbManager, err := database.InitDB(ctx, &cfg.Database, logger.Named("database"))
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			logger.Error("Failed to close database connections", zap.Error(err))
		}
	}()
	logger.Info("Database initialized successfully")

	// Key/value store for rate limiting and the redis revocation backend
	store, err := kvstore.New(cfg.Store, logger.Named("kvstore"))
	if err != nil {
		return fmt.Errorf("initialize key/value store: %w", err)
	}
	defer store.Close()

	repos, err := repositories.NewCollection(dbManager, logger.Named("repositories"))
	if err != nil {
		return fmt.Errorf("initialize repositories: %w", err)
	}

	revoker, err := services.NewTokenRevoker(cfg.Revocation, repos.RevokedToken, store, logger.Named("revocation"))
	if err != nil {
		return fmt.Errorf("initialize token revocation: %w", err)
	}
	defer revoker.Close()

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	janitorDone := startJanitor(janitorCtx, cfg, repos, logger)

	// Must stay a nil interface when uploads are not configured
	var images services.ImageStorage
	if cfg.Cloudinary.Enabled() {
		cloudinary, err := utils.NewCloudinaryService(cfg.Cloudinary, logger.Named("cloudinary"))
		if err != nil {
			logger.Warn("Cloudinary initialization failed, image uploads disabled", zap.Error(err))
		} else {
			images = cloudinary
			logger.Info("Cloudinary service initialized successfully")
		}
	} else {
		logger.Info("Cloudinary is not configured, image uploads disabled")
	}

	serviceCollection, err := services.NewServiceCollection(services.Dependencies{
		Repositories: repos,
		Revoker:      revoker,
		Images:       images,
		Auth:         cfg.Auth,
		Logger:       logger.Named("services"),
	})
	if err != nil {
		return fmt.Errorf("initialize services: %w", err)
	}

	responseConfig := response.DefaultConfig()
	responseConfig.PrettyJSON = cfg.IsDevelopment()
	responseBuilder := response.NewBuilder(responseConfig, logger.Named("response"))

	handler := router.SetupRouter(router.Dependencies{
		Services: serviceCollection,
		Config:   cfg,
		Store:    store,
		HealthChecks: map[string]router.HealthCheck{
			"database": router.DatabaseCheck(dbManager),
			"store":    store.Health,
		},
		ResponseBuilder: responseBuilder,
		Logger:          logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("address", server.Addr),
			zap.String("health_check", "/health"),
			zap.String("swagger_ui", "/swagger/index.html"),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		stopJanitor()
		<-janitorDone
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down application...")

	drain := shutdownTimeout
	if cfg.Server.GracefulTimeout > 0 {
		drain = cfg.Server.GracefulTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	} else {
		logger.Info("Server shutdown completed")
	}

	stopJanitor()
	<-janitorDone

	stats := dbManager.Stats()
	logger.Info("Final database statistics",
		zap.Int("open_connections", stats.OpenConnections),
		zap.Int64("wait_count", stats.WaitCount),
		zap.Duration("wait_duration", stats.WaitDuration),
	)
	return nil
}

// startJanitor purges expired revocations when they live in postgres.
// The returned channel closes once the janitor has stopped.
func startJanitor(ctx context.Context, cfg *config.Config, repos *repositories.Collection, logger *zap.Logger) <-chan struct{} {
	switch cfg.Revocation.Backend {
	case "postgres", "":
		janitor := services.NewRevocationJanitor(repos.RevokedToken, cfg.Revocation.CleanupInterval, logger.Named("revocation_janitor"))
		return janitor.Start(ctx)
	default:
		done := make(chan struct{})
		close(done)
		return done
	}
}

func initLogger(env string, logging config.LoggingConfig) (*zap.Logger, error) {
	var zapConfig zap.Config

	switch env {
	case "production":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "staging":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	default:
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	if logging.Level != "" {
		level, err := zap.ParseAtomicLevel(logging.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", logging.Level, err)
		}
		zapConfig.Level = level
	}
	if logging.Format == "json" || logging.Format == "console" {
		zapConfig.Encoding = logging.Format
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
