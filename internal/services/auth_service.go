// file: internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cleanearth/internal/config"
	"cleanearth/internal/models"
	"cleanearth/internal/repositories"
	"cleanearth/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// authService implements AuthService
type authService struct {
	userRepo   repositories.UserRepository
	tokens     *TokenManager
	revoker    TokenRevoker
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *TokenManager,
	revoker TokenRevoker,
	cfg config.AuthConfig,
	logger *zap.Logger,
) AuthService {
	cost := cfg.BCryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &authService{
		userRepo:   userRepo,
		tokens:     tokens,
		revoker:    revoker,
		bcryptCost: cost,
		logger:     logger,
	}
}

// ===============================
// AUTHENTICATION
// ===============================

// Register creates a new account and logs it in
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.ValidateStruct(req); err != nil {
		return nil, newRequestValidationError(err)
	}
	if (req.Latitude != nil && !req.Latitude.Valid) || (req.Longitude != nil && !req.Longitude.Valid) {
		return nil, NewBusinessError("Latitude and longitude must be valid numbers", "INVALID_COORDINATES")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error("Failed to check existing user", zap.Error(err))
		return nil, NewInternalError("registration failed")
	}
	if existing != nil {
		return nil, NewConflictError("User already exists", "EMAIL_TAKEN")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, NewInternalError("registration failed")
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         role,
		Address:      req.Address,
		Pincode:      req.Pincode,
	}
	if req.Latitude != nil && req.Latitude.Valid {
		user.Latitude = req.Latitude.Value
	}
	if req.Longitude != nil && req.Longitude.Valid {
		user.Longitude = req.Longitude.Value
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, NewConflictError("User already exists", "EMAIL_TAKEN")
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, NewInternalError("registration failed")
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return nil, NewInternalError("failed to generate access token")
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role),
	)

	return &AuthResponse{
		Message:     "User registered successfully",
		UserID:      user.ID,
		AccessToken: token,
		User:        user,
	}, nil
}

// Login verifies credentials and issues a token
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, NewValidationError("Missing email or password", nil)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to get user during login", zap.Error(err))
		return nil, NewInternalError("authentication failed")
	}
	if user == nil {
		return nil, NewAuthenticationError("Invalid credentials", "invalid_login", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Invalid password attempt", zap.Int64("user_id", user.ID))
		return nil, NewAuthenticationError("Invalid credentials", "invalid_password", &user.ID)
	}

	if req.Role != "" && user.Role != req.Role {
		return nil, NewForbiddenError(fmt.Sprintf("User is not a %s", req.Role))
	}

	if user.IsBlocked {
		return nil, NewForbiddenError("Your account has been blocked")
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return nil, NewInternalError("failed to generate access token")
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID))

	return &AuthResponse{
		Message:     "Login successful",
		AccessToken: token,
		User:        user,
	}, nil
}

// Logout revokes the presented token until it expires
func (s *authService) Logout(ctx context.Context, claims *TokenClaims) error {
	if claims == nil || claims.ID == "" {
		return NewAuthenticationError("Authentication required", "missing_token", nil)
	}

	userID, err := claims.UserID()
	if err != nil {
		return NewAuthenticationError("Invalid token", "invalid_token", nil)
	}

	if err := s.revoker.Revoke(ctx, claims.ID, userID, claims.ExpiresAtTime()); err != nil {
		s.logger.Error("Failed to revoke token", zap.Error(err), zap.Int64("user_id", userID))
		return NewInternalError("Failed to logout")
	}

	s.logger.Info("User logged out", zap.Int64("user_id", userID))
	return nil
}

// Authenticate resolves a bearer token to a user
func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, *TokenClaims, error) {
	if token == "" {
		return nil, nil, NewAuthenticationError("No token provided", "missing_token", nil)
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, nil, NewAuthenticationError("Token has expired", "token_expired", nil)
		}
		return nil, nil, NewAuthenticationError("Invalid token", "invalid_token", nil)
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Failed to check token revocation", zap.Error(err))
		return nil, nil, NewInternalError("authentication failed")
	}
	if revoked {
		return nil, nil, NewAuthenticationError("Token has been revoked", "token_revoked", nil)
	}

	userID, _ := claims.UserID()
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load token user", zap.Error(err), zap.Int64("user_id", userID))
		return nil, nil, NewInternalError("authentication failed")
	}
	if user == nil {
		return nil, nil, NewAuthenticationError("User not found", "user_not_found", &userID)
	}
	if user.IsBlocked {
		return nil, nil, NewForbiddenError("Your account has been blocked")
	}

	return user, claims, nil
}
