// file: internal/middleware/request_id.go
package middleware

import (
	"net/http"
	"time"

	"cleanearth/internal/contextutils"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// Request ID header constants
const (
	HeaderXRequestID     = "X-Request-ID"
	HeaderXCorrelationID = "X-Correlation-ID"
)

// RequestID assigns every request a correlation ID and a request-scoped
// logger carrying it.
func RequestID(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Reuse an upstream ID for distributed tracing
			requestID := r.Header.Get(HeaderXRequestID)
			if requestID == "" {
				requestID = r.Header.Get(HeaderXCorrelationID)
			}
			if requestID == "" {
				if id, err := uuid.NewV4(); err == nil {
					requestID = id.String()
				} else {
					requestID = "req_" + start.Format("20060102150405.000000")
				}
			}

			w.Header().Set(HeaderXRequestID, requestID)

			requestLogger := logger.With(
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", getClientIP(r)),
			)

			ctx := contextutils.WithRequestID(r.Context(), requestID)
			ctx = contextutils.WithLogger(ctx, requestLogger)
			ctx = contextutils.WithRequestStart(ctx, start)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
