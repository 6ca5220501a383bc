package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cleanearth/internal/middleware"
	"cleanearth/internal/models"
	"cleanearth/internal/response"
	"cleanearth/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockAuthService records calls and returns canned results
type mockAuthService struct {
	registerReq *services.RegisterRequest
	loginReq    *services.LoginRequest
	loggedOut   *services.TokenClaims

	resp    *services.AuthResponse
	user    *models.User
	err     error
	authErr error
}

func (m *mockAuthService) Register(ctx context.Context, req *services.RegisterRequest) (*services.AuthResponse, error) {
	m.registerReq = req
	return m.resp, m.err
}

func (m *mockAuthService) Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error) {
	m.loginReq = req
	return m.resp, m.err
}

func (m *mockAuthService) Logout(ctx context.Context, claims *services.TokenClaims) error {
	m.loggedOut = claims
	return m.err
}

func (m *mockAuthService) Authenticate(ctx context.Context, token string) (*models.User, *services.TokenClaims, error) {
	if token == "" {
		return nil, nil, services.NewAuthenticationError("No token provided", "missing_token", nil)
	}
	if m.authErr != nil {
		return nil, nil, m.authErr
	}
	return m.user, &services.TokenClaims{}, nil
}

func newTestController(svc *mockAuthService) *AuthController {
	return NewAuthController(svc, zap.NewNop(), response.NewBuilder(response.DefaultConfig(), zap.NewNop()))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegister(t *testing.T) {
	user := &models.User{ID: 7, Name: "Asha", Email: "asha@example.com", Role: models.RoleVolunteer}

	t.Run("created", func(t *testing.T) {
		svc := &mockAuthService{resp: &services.AuthResponse{
			Message:     "User registered successfully",
			UserID:      7,
			AccessToken: "token",
			User:        user,
		}}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/register",
			strings.NewReader(`{"name":"Asha","email":"asha@example.com","password":"pw","role":"volunteer","latitude":"12.5"}`))

		newTestController(svc).Register(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, svc.registerReq)
		assert.Equal(t, "volunteer", svc.registerReq.Role)
		require.NotNil(t, svc.registerReq.Latitude)
		assert.InDelta(t, 12.5, svc.registerReq.Latitude.Value, 1e-9)

		body := decodeBody(t, rec)
		assert.Equal(t, "token", body["access_token"])
		assert.Equal(t, float64(7), body["user_id"])
		assert.NotContains(t, body["user"], "password_hash")
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := &mockAuthService{}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"name":`))

		newTestController(svc).Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body format", decodeBody(t, rec)["error"])
		assert.Nil(t, svc.registerReq)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := &mockAuthService{err: services.NewConflictError("User already exists", "DUPLICATE_EMAIL")}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"email":"a@b.c"}`))

		newTestController(svc).Register(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "User already exists", decodeBody(t, rec)["error"])
	})
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockAuthService{resp: &services.AuthResponse{
			Message:     "Login successful",
			AccessToken: "token",
			User:        &models.User{ID: 1, Role: models.RoleUser},
		}}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/login",
			strings.NewReader(`{"email":"a@b.c","password":"pw","role":"user"}`))

		newTestController(svc).Login(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user", svc.loginReq.Role)
		body := decodeBody(t, rec)
		assert.Equal(t, "Login successful", body["message"])
		assert.NotContains(t, body, "user_id")
	})

	t.Run("blocked", func(t *testing.T) {
		svc := &mockAuthService{err: services.NewForbiddenError("Your account has been blocked")}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"a@b.c","password":"pw"}`))

		newTestController(svc).Login(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", decodeBody(t, rec)["type"])
	})

	t.Run("empty body", func(t *testing.T) {
		svc := &mockAuthService{}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(""))

		newTestController(svc).Login(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, svc.loginReq)
	})
}

func TestLogout(t *testing.T) {
	svc := &mockAuthService{}
	claims := &services.TokenClaims{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req = req.WithContext(middleware.WithAuth(req.Context(), &models.User{ID: 1}, claims))

	newTestController(svc).Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, claims, svc.loggedOut)
	assert.Equal(t, "Successfully logged out", decodeBody(t, rec)["message"])
}

func TestAuthCheck(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		svc := &mockAuthService{user: &models.User{ID: 3, Name: "Ravi"}}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth-check", nil)
		req.Header.Set("Authorization", "Bearer abc")

		newTestController(svc).AuthCheck(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["authenticated"])
		assert.NotContains(t, body, "error")
	})

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth-check", nil)

		newTestController(&mockAuthService{}).AuthCheck(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["authenticated"])
		assert.Equal(t, "No token provided", body["error"])
	})

	t.Run("revoked token", func(t *testing.T) {
		svc := &mockAuthService{authErr: services.NewAuthenticationError("Token has been revoked", "token_revoked", nil)}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth-check", nil)
		req.Header.Set("Authorization", "Bearer abc")

		newTestController(svc).AuthCheck(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Token has been revoked", decodeBody(t, rec)["error"])
	})

	t.Run("internal failure is masked", func(t *testing.T) {
		svc := &mockAuthService{authErr: services.NewInternalError("authentication failed")}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth-check", nil)
		req.Header.Set("Authorization", "Bearer abc")

		newTestController(svc).AuthCheck(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "An internal error occurred", decodeBody(t, rec)["error"])
	})
}
