// file: internal/middleware/middleware.go
package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"cleanearth/internal/contextutils"
	"cleanearth/internal/response"
	"cleanearth/internal/services"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

const slowRequestThreshold = 2 * time.Second

// Logging writes one access log line per request
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := contextutils.GetRequestStart(r.Context())
		requestLogger := GetRequestLogger(r.Context())

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		fields := []zap.Field{
			zap.Int("status", rw.status),
			zap.Duration("duration", duration),
			zap.Int64("response_size", rw.bytesWritten),
		}
		if user := GetUser(r.Context()); user != nil {
			fields = append(fields, zap.Int64("user_id", user.ID))
		}

		switch {
		case rw.status >= http.StatusInternalServerError:
			requestLogger.Error("Request completed", fields...)
		case duration > slowRequestThreshold:
			requestLogger.Warn("Slow request", fields...)
		default:
			requestLogger.Info("Request completed", fields...)
		}
	})
}

// RecoverPanic turns a handler panic into a 500 response
func RecoverPanic(responder *response.Builder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					GetRequestLogger(r.Context()).Error("Panic recovered",
						zap.Any("panic", rec),
						zap.ByteString("stack", debug.Stack()),
					)
					responder.WriteError(w, r, services.NewInternalError("internal server error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CORS allows the configured origins. A "*" entry allows any origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowAll := len(origins) == 0 || slices.Contains(origins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(origins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", strings.Join([]string{"Content-Type", "Authorization", HeaderXRequestID}, ", "))
			w.Header().Set("Access-Control-Expose-Headers", HeaderXRequestID)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecureHeaders sets conservative browser security headers
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status       int
	bytesWritten int64
	wroteHeader  bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(data []byte) (int, error) {
	rw.wroteHeader = true
	written, err := rw.ResponseWriter.Write(data)
	rw.bytesWritten += int64(written)
	return written, err
}
