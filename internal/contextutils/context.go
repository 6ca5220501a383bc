package contextutils

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type contextKey string

const (
	requestIDKey    contextKey = "request_id"
	loggerKey       contextKey = "logger"
	requestStartKey contextKey = "request_start"
)

// GetRequestID retrieves the request ID from the context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRequestID adds the request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetLogger returns the request-scoped logger, or fallback when none is set
func GetLogger(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	if fallback == nil {
		return zap.NewNop()
	}
	return fallback
}

// WithLogger adds a request-scoped logger to the context
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetRequestStart returns when the request started, or now if unknown
func GetRequestStart(ctx context.Context) time.Time {
	if start, ok := ctx.Value(requestStartKey).(time.Time); ok {
		return start
	}
	return time.Now()
}

// WithRequestStart records the request start time
func WithRequestStart(ctx context.Context, start time.Time) context.Context {
	return context.WithValue(ctx, requestStartKey, start)
}
