// file: internal/middleware/context.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"cleanearth/internal/contextutils"
	"cleanearth/internal/models"
	"cleanearth/internal/services"

	"go.uber.org/zap"
)

type contextKey string

const (
	userKey   contextKey = "user"
	claimsKey contextKey = "token_claims"
)

// GetRequestLogger extracts the request-scoped logger from context
func GetRequestLogger(ctx context.Context) *zap.Logger {
	return contextutils.GetLogger(ctx, nil)
}

// GetUser returns the authenticated user, or nil
func GetUser(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userKey).(*models.User); ok {
		return user
	}
	return nil
}

// GetClaims returns the claims of the presented token, or nil
func GetClaims(ctx context.Context) *services.TokenClaims {
	if claims, ok := ctx.Value(claimsKey).(*services.TokenClaims); ok {
		return claims
	}
	return nil
}

// WithAuth stores the authenticated user and token claims
func WithAuth(ctx context.Context, user *models.User, claims *services.TokenClaims) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, claimsKey, claims)
}

// getClientIP extracts the client address, preferring proxy headers
func getClientIP(r *http.Request) string {
	// X-Forwarded-For can be "client, proxy1, proxy2"
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		client, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(client)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}
