package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	Revocation RevocationConfig
	Store      StoreConfig
	RateLimit  RateLimitConfig
	Cloudinary CloudinaryConfig
	Logging    LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Environment     string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
	MaxHeaderBytes  int
	CORSOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
	SlowQueryThreshold time.Duration
	MigrationsPath     string
	MigrationRetries   int
	ConnectTimeout     time.Duration
}

// AuthConfig holds token and password hashing settings
type AuthConfig struct {
	JWTSecret  string
	JWTIssuer  string
	JWTExpiry  time.Duration
	BCryptCost int
}

// RevocationConfig selects where revoked token identifiers are kept
type RevocationConfig struct {
	Backend         string // "postgres", "redis", "memory"
	CleanupInterval time.Duration
}

// StoreConfig configures the key/value store shared by the redis
// revocation backend and the auth rate limiter.
type StoreConfig struct {
	Provider        string // "memory", "redis"
	RedisURL        string
	RedisDB         int
	RedisPassword   string
	PoolSize        int
	CleanupInterval time.Duration
}

// RateLimitConfig holds limits for the credential endpoints
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
}

// CloudinaryConfig holds Cloudinary configuration
type CloudinaryConfig struct {
	CloudName   string
	APIKey      string
	APISecret   string
	Folder      string
	MaxFileSize int64
	MaxRetries  int
}

// Enabled reports whether image uploads can be served
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment, loading .env.<GO_ENV>
// (or .env) first outside production.
func Load() (*Config, error) {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
		} else {
			_ = godotenv.Load()
		}
	}

	config := &Config{
		Server:     loadServerConfig(env),
		Database:   loadDatabaseConfig(),
		Auth:       loadAuthConfig(),
		Revocation: loadRevocationConfig(),
		Store:      loadStoreConfig(),
		RateLimit:  loadRateLimitConfig(),
		Cloudinary: loadCloudinaryConfig(),
		Logging:    loadLoggingConfig(env),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadServerConfig(env string) ServerConfig {
	config := ServerConfig{
		Port:            getEnv("PORT", "5000"),
		Environment:     env,
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
		GracefulTimeout: getDurationEnv("GRACEFUL_TIMEOUT", 30*time.Second),
		MaxHeaderBytes:  getIntEnv("MAX_HEADER_BYTES", 1<<20),
		CORSOrigins:     getListEnv("CORS_ORIGINS", []string{"*"}),
	}

	if env == "development" {
		config.GracefulTimeout = getDurationEnv("GRACEFUL_TIMEOUT", 10*time.Second)
	}

	return config
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:                getEnv("DATABASE_URL", ""),
		MaxOpenConns:       getIntEnv("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:       getIntEnv("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:    getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		ConnMaxIdleTime:    getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		SlowQueryThreshold: getDurationEnv("DB_SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "./migrations"),
		MigrationRetries:   getIntEnv("DB_MIGRATION_RETRIES", 3),
		ConnectTimeout:     getDurationEnv("DB_CONNECT_TIMEOUT", 30*time.Second),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTIssuer:  getEnv("JWT_ISSUER", "cleanearth"),
		JWTExpiry:  getDurationEnv("JWT_EXPIRY", 24*time.Hour),
		BCryptCost: getIntEnv("BCRYPT_COST", 12),
	}
}

func loadRevocationConfig() RevocationConfig {
	return RevocationConfig{
		Backend:         strings.ToLower(getEnv("REVOCATION_BACKEND", "postgres")),
		CleanupInterval: getDurationEnv("REVOCATION_CLEANUP_INTERVAL", 15*time.Minute),
	}
}

func loadStoreConfig() StoreConfig {
	provider := "memory"
	if os.Getenv("REDIS_URL") != "" {
		provider = "redis"
	}
	return StoreConfig{
		Provider:        strings.ToLower(getEnv("STORE_PROVIDER", provider)),
		RedisURL:        getEnv("REDIS_URL", ""),
		RedisDB:         getIntEnv("REDIS_DB", 0),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		PoolSize:        getIntEnv("REDIS_POOL_SIZE", 10),
		CleanupInterval: getDurationEnv("STORE_CLEANUP_INTERVAL", time.Minute),
	}
}

func loadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled: getBoolEnv("AUTH_RATE_LIMIT_ENABLED", true),
		Limit:   getIntEnv("AUTH_RATE_LIMIT", 10),
		Window:  getDurationEnv("AUTH_RATE_LIMIT_WINDOW", 15*time.Minute),
	}
}

func loadCloudinaryConfig() CloudinaryConfig {
	return CloudinaryConfig{
		CloudName:   getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:      getEnv("CLOUDINARY_API_KEY", ""),
		APISecret:   getEnv("CLOUDINARY_API_SECRET", ""),
		Folder:      getEnv("CLOUDINARY_FOLDER", "cleanearth/campaigns"),
		MaxFileSize: getInt64Env("MAX_FILE_SIZE", 10*1024*1024),
		MaxRetries:  getIntEnv("CLOUDINARY_MAX_RETRIES", 3),
	}
}

func loadLoggingConfig(env string) LoggingConfig {
	return LoggingConfig{
		Level:  getEnv("LOG_LEVEL", getDefaultLogLevel(env)),
		Format: getEnv("LOG_FORMAT", getDefaultLogFormat(env)),
	}
}

// Validate checks every configuration section
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}
	if err := c.Auth.Validate(c.IsProduction()); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}
	if err := c.Revocation.Validate(); err != nil {
		return fmt.Errorf("revocation config: %w", err)
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store config: %w", err)
	}
	if c.Revocation.Backend == "redis" && c.Store.Provider != "redis" {
		return fmt.Errorf("revocation config: redis backend requires REDIS_URL")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit config: limit and window must be positive")
	}
	return nil
}

// Validate validates server configuration
func (s *ServerConfig) Validate() error {
	if s.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if _, err := strconv.Atoi(s.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", s.Port)
	}
	if s.ReadTimeout <= 0 || s.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	return nil
}

// Validate validates database configuration
func (d *DatabaseConfig) Validate() error {
	if d.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if d.MaxOpenConns <= 0 {
		return fmt.Errorf("MaxOpenConns must be positive")
	}

	if d.MaxIdleConns < 0 {
		return fmt.Errorf("MaxIdleConns cannot be negative")
	}

	if d.MaxIdleConns > d.MaxOpenConns {
		return fmt.Errorf("MaxIdleConns cannot be greater than MaxOpenConns")
	}

	if d.ConnMaxLifetime <= 0 {
		return fmt.Errorf("ConnMaxLifetime must be positive")
	}

	return nil
}

// Validate validates auth configuration
func (a *AuthConfig) Validate(production bool) error {
	if a.JWTSecret == "" {
		if production {
			return fmt.Errorf("JWT_SECRET must be set for production")
		}
		a.JWTSecret = "dev-jwt-secret-change-me-in-production"
	}

	if production && len(a.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}

	if a.BCryptCost < 4 || a.BCryptCost > 31 {
		return fmt.Errorf("BCryptCost must be between 4 and 31")
	}

	if a.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive")
	}

	return nil
}

// Validate validates revocation configuration
func (r *RevocationConfig) Validate() error {
	switch r.Backend {
	case "postgres", "redis", "memory":
	default:
		return fmt.Errorf("unsupported REVOCATION_BACKEND %q", r.Backend)
	}
	if r.Backend == "postgres" && r.CleanupInterval <= 0 {
		return fmt.Errorf("REVOCATION_CLEANUP_INTERVAL must be positive")
	}
	return nil
}

// Validate validates store configuration
func (s *StoreConfig) Validate() error {
	switch s.Provider {
	case "memory":
		if s.CleanupInterval <= 0 {
			return fmt.Errorf("STORE_CLEANUP_INTERVAL must be positive")
		}
	case "redis":
		if s.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis provider")
		}
	default:
		return fmt.Errorf("unsupported STORE_PROVIDER %q", s.Provider)
	}
	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getDefaultLogLevel(env string) string {
	switch env {
	case "production":
		return "info"
	default:
		return "debug"
	}
}

func getDefaultLogFormat(env string) string {
	if env == "production" || env == "staging" {
		return "json"
	}
	return "console"
}
