// ===============================
// FILE: internal/handlers/api/v1/auth/auth_controller.go
// ===============================

package auth

import (
	"context"
	"net/http"
	"time"

	"cleanearth/internal/handlers/api/v1/common"
	"cleanearth/internal/middleware"
	"cleanearth/internal/models"
	"cleanearth/internal/response"
	"cleanearth/internal/services"

	"go.uber.org/zap"
)

const requestTimeout = 30 * time.Second

// AuthController handles registration, login and token checks
type AuthController struct {
	auth            services.AuthService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewAuthController creates a new authentication controller
func NewAuthController(auth services.AuthService, logger *zap.Logger, responseBuilder *response.Builder) *AuthController {
	return &AuthController{
		auth:            auth,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// AuthCheckResponse is the body of GET /api/auth-check
type AuthCheckResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// ===============================
// AUTHENTICATION ENDPOINTS
// ===============================

// Register handles user registration
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.RegisterRequest true "Registration details"
// @Success 201 {object} services.AuthResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	logger := middleware.GetRequestLogger(r.Context()).With(zap.String("endpoint", "register"))

	var req services.RegisterRequest
	if err := common.DecodeJSON(r, &req, false); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	authResp, err := c.auth.Register(ctx, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	logger.Info("User registered", zap.Int64("user_id", authResp.UserID), zap.String("role", authResp.User.Role))
	c.responseBuilder.WriteCreated(w, r, authResp)
}

// Login handles credential login
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.LoginRequest true "Credentials"
// @Success 200 {object} services.AuthResponse
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	logger := middleware.GetRequestLogger(r.Context()).With(zap.String("endpoint", "login"))

	var req services.LoginRequest
	if err := common.DecodeJSON(r, &req, false); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	authResp, err := c.auth.Login(ctx, &req)
	if err != nil {
		logger.Info("Login rejected", zap.Error(err))
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, authResp)
}

// Logout revokes the presented token
// @Summary Log out
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Message
// @Failure 401 {object} response.ErrorBody
// @Router /logout [post]
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := c.auth.Logout(ctx, middleware.GetClaims(r.Context())); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteMessage(w, r, "Successfully logged out")
}

// AuthCheck reports whether the bearer token is usable. It resolves the
// token itself so failures keep the {authenticated, error} shape.
// @Summary Check authentication
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AuthCheckResponse
// @Failure 401 {object} AuthCheckResponse
// @Router /auth-check [get]
func (c *AuthController) AuthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, _, err := c.auth.Authenticate(ctx, middleware.BearerToken(r))
	if err != nil {
		body := c.responseBuilder.ErrorBody(r, err)
		c.responseBuilder.WriteJSON(w, r, services.GetServiceError(err).GetStatusCode(), AuthCheckResponse{
			Authenticated: false,
			Error:         body.Error,
		})
		return
	}

	c.responseBuilder.WriteSuccess(w, r, AuthCheckResponse{Authenticated: true, User: user})
}
