package router

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"cleanearth/internal/database"
	"cleanearth/internal/middleware"
	"cleanearth/internal/response"
	"cleanearth/internal/utils/appinfo"

	"go.uber.org/zap"
)

const healthTimeout = 5 * time.Second

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// DatabaseCheck reports the database unhealthy unless it answers pings
// and every critical table exists.
func DatabaseCheck(db *database.Manager) HealthCheck {
	return func(ctx context.Context) error {
		status := database.Health(ctx, db)
		if status.Status == database.StatusHealthy {
			return nil
		}
		return errors.New(strings.Join(status.Errors, "; "))
	}
}

// HealthHandler runs every check and answers 200 or 503
func HealthHandler(checks map[string]HealthCheck, responseBuilder *response.Builder) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := HealthResponse{
			Status:    database.StatusHealthy,
			Version:   appinfo.Version(),
			Checks:    make(map[string]string, len(names)),
			Timestamp: time.Now().UTC(),
		}
		code := http.StatusOK

		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				middleware.GetRequestLogger(r.Context()).Warn("Health check failed",
					zap.String("check", name),
					zap.Error(err),
				)
				resp.Status = database.StatusUnhealthy
				resp.Checks[name] = err.Error()
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		responseBuilder.WriteJSON(w, r, code, resp)
	}
}
