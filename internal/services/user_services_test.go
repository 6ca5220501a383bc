package services

import (
	"context"
	"net/http"
	"testing"

	"cleanearth/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProfileUpdate(t *testing.T) {
	f := newFixture(plainUser)
	svc := NewProfileService(f.users, zap.NewNop())
	ctx := context.Background()

	updated, err := svc.Update(ctx, plainUser, &UpdateProfileRequest{
		Name:     strPtr("  New Name "),
		Pincode:  strPtr("110001"),
		Latitude: models.NewFlexFloat(28.6),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "110001", updated.Pincode)
	assert.Equal(t, plainUser.Email, updated.Email, "unset fields are kept")

	stored, err := svc.Get(ctx, plainUser)
	require.NoError(t, err)
	assert.InDelta(t, 28.6, stored.Latitude, 1e-9)

	_, err = svc.Update(ctx, plainUser, &UpdateProfileRequest{Name: strPtr("   ")})
	assertServiceError(t, err, http.StatusBadRequest, "Name cannot be empty")

	_, err = svc.Update(ctx, plainUser, &UpdateProfileRequest{Longitude: &models.FlexFloat{}})
	assertServiceError(t, err, http.StatusUnprocessableEntity, "Latitude and longitude must be valid numbers")
}

func TestAdminToggleBlock(t *testing.T) {
	f := newFixture(plainUser, adminUser)
	svc := NewAdminService(f.users, zap.NewNop())
	ctx := context.Background()

	users, err := svc.ListUsers(ctx, adminUser)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = svc.ListUsers(ctx, plainUser)
	assertServiceError(t, err, http.StatusForbidden, "Not authorized")

	blocked, err := svc.ToggleBlock(ctx, adminUser, plainUser.ID)
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked)

	unblocked, err := svc.ToggleBlock(ctx, adminUser, plainUser.ID)
	require.NoError(t, err)
	assert.False(t, unblocked.IsBlocked)

	_, err = svc.ToggleBlock(ctx, adminUser, adminUser.ID)
	assertServiceError(t, err, http.StatusBadRequest, "You cannot block your own account")

	_, err = svc.ToggleBlock(ctx, adminUser, 404)
	assertServiceError(t, err, http.StatusNotFound, "User not found")
}

func TestAwardBadge(t *testing.T) {
	f := newFixture(volunteerA, adminUser)
	svc := NewBadgeService(f.badges, f.users, zap.NewNop())
	ctx := context.Background()

	badge, err := svc.Award(ctx, adminUser, &AwardBadgeRequest{
		UserID: models.NewFlexInt(volunteerA.ID),
		Name:   "First Cleanup",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultBadgeIcon, badge.Icon)

	mine, err := svc.ListMine(ctx, volunteerA)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "First Cleanup", mine[0].Name)

	_, err = svc.Award(ctx, volunteerA, &AwardBadgeRequest{UserID: models.NewFlexInt(1), Name: "Self"})
	assertServiceError(t, err, http.StatusForbidden, "Not authorized")

	_, err = svc.Award(ctx, adminUser, &AwardBadgeRequest{UserID: models.NewFlexInt(404), Name: "Ghost"})
	assertServiceError(t, err, http.StatusNotFound, "User not found")

	_, err = svc.Award(ctx, adminUser, &AwardBadgeRequest{UserID: &models.FlexInt{}, Name: "Bad"})
	assertServiceError(t, err, http.StatusBadRequest, "Invalid value for field: user_id")
}

func TestGetServiceErrorWrapsUnknown(t *testing.T) {
	err := GetServiceError(assert.AnError)
	assert.Equal(t, ErrorTypeInternal, err.Type)
	assert.Equal(t, "An unexpected error occurred", err.Message)
	assert.ErrorIs(t, err, assert.AnError)

	assert.Nil(t, GetServiceError(nil))
	assert.True(t, IsErrorType(NewNotFoundError("x"), ErrorTypeNotFound))
}
