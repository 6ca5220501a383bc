package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"cleanearth/internal/config"
	"cleanearth/internal/models"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenClaims are the claims carried by access tokens. The subject is
// the user id as a string.
type TokenClaims struct {
	UserEmail string `json:"user_email"`
	UserRole  string `json:"user_role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim
func (c *TokenClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrTokenInvalid)
	}
	return id, nil
}

// ExpiresAtTime returns the expiry, or the zero time when absent
func (c *TokenClaims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// TokenManager issues and verifies HS256 access tokens
type TokenManager struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

// NewTokenManager creates a token manager from auth configuration
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	expiry := cfg.JWTExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		expiry: expiry,
		now:    time.Now,
	}
}

// Issue signs a new token for user with a fresh random JTI
func (m *TokenManager) Issue(user *models.User) (string, *TokenClaims, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token id: %w", err)
	}

	now := m.now()
	claims := &TokenClaims{
		UserEmail: user.Email,
		UserRole:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse verifies the signature, algorithm, issuer and expiry of a token
func (m *TokenManager) Parse(tokenString string) (*TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.ID == "" {
		return nil, ErrTokenInvalid
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}
