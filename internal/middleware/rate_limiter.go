// file: internal/middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"cleanearth/internal/config"
	"cleanearth/internal/kvstore"
	"cleanearth/internal/response"
	"cleanearth/internal/services"

	"go.uber.org/zap"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimiter is a fixed-window limiter keyed by client IP and path,
// counting in the shared key/value store.
type RateLimiter struct {
	store     kvstore.Store
	limit     int
	window    time.Duration
	enabled   bool
	responder *response.Builder
	logger    *zap.Logger
}

// NewRateLimiter creates a limiter from configuration
func NewRateLimiter(store kvstore.Store, cfg config.RateLimitConfig, responder *response.Builder, logger *zap.Logger) *RateLimiter {
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		store:     store,
		limit:     cfg.Limit,
		window:    window,
		enabled:   cfg.Enabled && store != nil && cfg.Limit > 0,
		responder: responder,
		logger:    logger,
	}
}

// Middleware rejects requests over the limit with 429. Store errors let
// the request through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.enabled {
			next.ServeHTTP(w, r)
			return
		}

		key := rateLimitKeyPrefix + getClientIP(r) + ":" + r.URL.Path
		count, err := rl.store.Increment(r.Context(), key, rl.window)
		if err != nil {
			rl.logger.Warn("Rate limit store unavailable", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		remaining := rl.limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > int64(rl.limit) {
			GetRequestLogger(r.Context()).Warn("Rate limit exceeded",
				zap.Int64("count", count),
				zap.Int("limit", rl.limit),
			)
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			rl.responder.WriteError(w, r, services.NewRateLimitError("Too many requests, please try again later"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
