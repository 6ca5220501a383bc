// ===============================
// FILE: internal/handlers/api/v1/users/users_controller.go
// ===============================

package users

import (
	"context"
	"fmt"
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

// UserController serves profile, badge, admin and leaderboard endpoints
type UserController struct {
	serviceCollection *services.ServiceCollection
	responseBuilder   *response.Builder
	logger            *zap.Logger
}

// NewUserController creates a new user API controller
func NewUserController(
	serviceCollection *services.ServiceCollection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *UserController {
	return &UserController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// ===============================
// PROFILE
// ===============================

// GetProfile returns the caller's account
// @Summary Get my profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /profile [get]
func (c *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := c.serviceCollection.Profile.Get(ctx, middleware.GetUser(r.Context()))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, user)
}

// UpdateProfile applies a partial profile update
// @Summary Update my profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 422 {object} response.ErrorBody
// @Router /profile [put]
func (c *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req services.UpdateProfileRequest
	if err := common.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	user, err := c.serviceCollection.Profile.Update(ctx, middleware.GetUser(r.Context()), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, UserResponse{Message: "Profile updated successfully", User: user})
}

// ===============================
// BADGES
// ===============================

// ListBadges returns the caller's badges
// @Summary List my badges
// @Tags badges
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Badge
// @Router /badges [get]
func (c *UserController) ListBadges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	badges, err := c.serviceCollection.Badge.ListMine(ctx, middleware.GetUser(r.Context()))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if badges == nil {
		badges = []*models.Badge{}
	}
	c.responseBuilder.WriteSuccess(w, r, badges)
}

// AwardBadge grants a badge to a user
// @Summary Award a badge
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.AwardBadgeRequest true "Badge"
// @Success 200 {object} BadgeResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /admin/award_badge [post]
func (c *UserController) AwardBadge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req services.AwardBadgeRequest
	if err := common.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	badge, err := c.serviceCollection.Badge.Award(ctx, middleware.GetUser(r.Context()), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	middleware.GetRequestLogger(r.Context()).Info("Badge awarded",
		zap.Int64("badge_id", badge.ID),
		zap.Int64("user_id", badge.UserID),
	)
	c.responseBuilder.WriteSuccess(w, r, BadgeResponse{Message: "Badge awarded successfully", Badge: badge})
}

// ===============================
// ADMIN
// ===============================

// ListUsers returns every account
// @Summary List all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 403 {object} response.ErrorBody
// @Router /admin/users [get]
func (c *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	users, err := c.serviceCollection.Admin.ListUsers(ctx, middleware.GetUser(r.Context()))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	c.responseBuilder.WriteSuccess(w, r, users)
}

// ToggleBlock flips a user's blocked flag
// @Summary Block or unblock a user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} UserResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /admin/toggle_block/{id} [post]
func (c *UserController) ToggleBlock(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := common.PathID(r, "id", "user")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	user, err := c.serviceCollection.Admin.ToggleBlock(ctx, middleware.GetUser(r.Context()), id)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	state := "unblocked"
	if user.IsBlocked {
		state = "blocked"
	}
	middleware.GetRequestLogger(r.Context()).Info("User block toggled",
		zap.Int64("user_id", user.ID),
		zap.Bool("blocked", user.IsBlocked),
	)
	c.responseBuilder.WriteSuccess(w, r, UserResponse{
		Message: fmt.Sprintf("User %s successfully", state),
		User:    user,
	})
}

// ===============================
// LEADERBOARD
// ===============================

// Leaderboard ranks volunteers by points
// @Summary Volunteer leaderboard
// @Tags leaderboard
// @Produce json
// @Success 200 {array} models.LeaderboardEntry
// @Router /leaderboard [get]
func (c *UserController) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entries, err := c.serviceCollection.Leaderboard.Leaderboard(ctx)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*models.LeaderboardEntry{}
	}
	c.responseBuilder.WriteSuccess(w, r, entries)
}
