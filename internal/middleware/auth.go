// file: internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"cleanearth/internal/models"
	"cleanearth/internal/response"
	"cleanearth/internal/services"

	"go.uber.org/zap"
)

// AuthMiddleware resolves bearer tokens through the auth service
type AuthMiddleware struct {
	auth      services.AuthService
	responder *response.Builder
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(auth services.AuthService, responder *response.Builder, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, responder: responder, logger: logger}
}

// Authenticate puts the caller's user and token claims into the request
// context. When required is false a missing or unusable token lets the
// request through anonymously.
func (am *AuthMiddleware) Authenticate(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" && !required {
				next.ServeHTTP(w, r)
				return
			}

			user, claims, err := am.auth.Authenticate(r.Context(), token)
			if err != nil {
				if !required {
					GetRequestLogger(r.Context()).Debug("Ignoring unusable token on optional auth route", zap.Error(err))
					next.ServeHTTP(w, r)
					return
				}
				if services.IsAuthenticationError(err) {
					GetRequestLogger(r.Context()).Info("Authentication failed", zap.Error(err))
				} else {
					GetRequestLogger(r.Context()).Error("Token verification unavailable", zap.Error(err))
				}
				am.responder.WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), user, claims)))
		})
	}
}

// RequireAuth requires a valid token
func (am *AuthMiddleware) RequireAuth() func(http.Handler) http.Handler {
	return am.Authenticate(true)
}

// OptionalAuth authenticates when a token is presented
func (am *AuthMiddleware) OptionalAuth() func(http.Handler) http.Handler {
	return am.Authenticate(false)
}

// Require rejects authenticated callers that fail allowed with 403. It
// must run after RequireAuth.
func (am *AuthMiddleware) Require(allowed func(*models.User) bool, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			if user == nil {
				am.responder.WriteError(w, r, services.NewAuthenticationError("Authentication required", "missing_token", nil))
				return
			}
			if !allowed(user) {
				am.responder.WriteError(w, r, services.NewForbiddenError(message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin allows administrators only
func (am *AuthMiddleware) RequireAdmin() func(http.Handler) http.Handler {
	return am.Require(services.CanAdminister, "Not authorized")
}

// BearerToken extracts the token from an "Authorization: Bearer" header
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
