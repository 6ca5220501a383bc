package users

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

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockProfileService struct {
	update *services.UpdateProfileRequest
}

func (m *mockProfileService) Get(ctx context.Context, actor *models.User) (*models.User, error) {
	return actor, nil
}

func (m *mockProfileService) Update(ctx context.Context, actor *models.User, req *services.UpdateProfileRequest) (*models.User, error) {
	m.update = req
	if req.Latitude != nil && !req.Latitude.Valid {
		return nil, services.NewValidationError("Latitude and longitude must be valid numbers", nil)
	}
	updated := *actor
	if req.Name != nil {
		updated.Name = *req.Name
	}
	return &updated, nil
}

type mockAdminService struct {
	users   map[int64]*models.User
	toggled []int64
}

func (m *mockAdminService) ListUsers(ctx context.Context, actor *models.User) ([]*models.User, error) {
	if !actor.IsAdmin() {
		return nil, services.NewForbiddenError("Not authorized")
	}
	var out []*models.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockAdminService) ToggleBlock(ctx context.Context, actor *models.User, userID int64) (*models.User, error) {
	user, ok := m.users[userID]
	if !ok {
		return nil, services.NewNotFoundError("User not found")
	}
	m.toggled = append(m.toggled, userID)
	user.IsBlocked = !user.IsBlocked
	return user, nil
}

type mockBadgeService struct {
	badges  []*models.Badge
	awarded *services.AwardBadgeRequest
}

func (m *mockBadgeService) ListMine(ctx context.Context, actor *models.User) ([]*models.Badge, error) {
	return m.badges, nil
}

func (m *mockBadgeService) Award(ctx context.Context, actor *models.User, req *services.AwardBadgeRequest) (*models.Badge, error) {
	m.awarded = req
	if req.UserID == nil {
		return nil, services.NewValidationError("Missing required fields", nil)
	}
	return &models.Badge{ID: 1, Name: req.Name, Icon: models.DefaultBadgeIcon, UserID: req.UserID.Value}, nil
}

type mockLeaderboardService struct {
	entries []*models.LeaderboardEntry
}

func (m *mockLeaderboardService) Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	return m.entries, nil
}

type fixture struct {
	handler     http.Handler
	profile     *mockProfileService
	admin       *mockAdminService
	badges      *mockBadgeService
	leaderboard *mockLeaderboardService
}

var adminCaller = &models.User{ID: 1, Name: "Root", Role: models.RoleAdmin}

func newFixture(caller *models.User) *fixture {
	f := &fixture{
		profile: &mockProfileService{},
		admin: &mockAdminService{users: map[int64]*models.User{
			5: {ID: 5, Name: "Kiran", Role: models.RoleVolunteer},
		}},
		badges:      &mockBadgeService{},
		leaderboard: &mockLeaderboardService{},
	}
	collection := &services.ServiceCollection{
		Profile:     f.profile,
		Admin:       f.admin,
		Badge:       f.badges,
		Leaderboard: f.leaderboard,
	}
	controller := NewUserController(collection, zap.NewNop(), response.NewBuilder(response.DefaultConfig(), zap.NewNop()))

	r := chi.NewRouter()
	r.Get("/api/leaderboard", controller.Leaderboard)
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(middleware.WithAuth(req.Context(), caller, &services.TokenClaims{})))
			})
		})
		r.Get("/api/profile", controller.GetProfile)
		r.Put("/api/profile", controller.UpdateProfile)
		r.Get("/api/badges", controller.ListBadges)
		r.Get("/api/admin/users", controller.ListUsers)
		r.Post("/api/admin/toggle_block/{id}", controller.ToggleBlock)
		r.Post("/api/admin/award_badge", controller.AwardBadge)
	})
	f.handler = r
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestProfile(t *testing.T) {
	caller := &models.User{ID: 8, Name: "Lata", Email: "lata@example.com", PasswordHash: "secret"}
	f := newFixture(caller)

	t.Run("get returns the bare user", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/api/profile", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "lata@example.com", body["email"])
		assert.NotContains(t, body, "password_hash")
		assert.NotContains(t, body, "message")
	})

	t.Run("update", func(t *testing.T) {
		rec := f.do(http.MethodPut, "/api/profile", `{"name":"Lata R","longitude":"77.1"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Profile updated successfully", body.Message)
		assert.Equal(t, "Lata R", body.User.Name)
		assert.Nil(t, f.profile.update.Address)
		require.NotNil(t, f.profile.update.Longitude)
		assert.True(t, f.profile.update.Longitude.Valid)
	})

	t.Run("non numeric coordinate", func(t *testing.T) {
		rec := f.do(http.MethodPut, "/api/profile", `{"latitude":"north"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBadges(t *testing.T) {
	f := newFixture(&models.User{ID: 2})

	rec := f.do(http.MethodGet, "/api/badges", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	f = newFixture(adminCaller)
	rec = f.do(http.MethodPost, "/api/admin/award_badge", `{"user_id":"5","name":"Early bird"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body BadgeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Badge awarded successfully", body.Message)
	assert.Equal(t, int64(5), body.Badge.UserID)
	assert.Equal(t, models.DefaultBadgeIcon, body.Badge.Icon)

	rec = f.do(http.MethodPost, "/api/admin/award_badge", `{"name":"Early bird"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminUsers(t *testing.T) {
	rec := newFixture(adminCaller).do(http.MethodGet, "/api/admin/users", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Kiran"`)

	rec = newFixture(&models.User{ID: 3, Role: models.RoleUser}).do(http.MethodGet, "/api/admin/users", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestToggleBlock(t *testing.T) {
	f := newFixture(adminCaller)

	rec := f.do(http.MethodPost, "/api/admin/toggle_block/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "User blocked successfully", body.Message)
	assert.True(t, body.User.IsBlocked)

	rec = f.do(http.MethodPost, "/api/admin/toggle_block/5", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "User unblocked successfully", body.Message)

	rec = f.do(http.MethodPost, "/api/admin/toggle_block/77", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodPost, "/api/admin/toggle_block/x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []int64{5, 5}, f.admin.toggled)
}

func TestLeaderboard(t *testing.T) {
	f := newFixture(nil)
	f.leaderboard.entries = []*models.LeaderboardEntry{
		{ID: 2, Name: "A", CampsAttended: 3, CampsCompleted: 2, Points: 20, Badges: 1},
	}

	rec := f.do(http.MethodGet, "/api/leaderboard", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":2,"name":"A","campsAttended":3,"campsCompleted":2,"points":20,"badges":1}]`, rec.Body.String())
}
