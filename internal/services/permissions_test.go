package services

import (
	"testing"

	"cleanearth/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPermissionPredicates(t *testing.T) {
	owner := volunteerA.ID
	campaign := &models.Campaign{ID: 1, CreatorID: &owner}
	orphan := &models.Campaign{ID: 2}
	reporter := plainUser.ID
	request := &models.Request{ID: 1, UserID: &reporter}

	assert.True(t, CanManageCampaign(volunteerA, campaign))
	assert.True(t, CanManageCampaign(adminUser, campaign))
	assert.True(t, CanManageCampaign(adminUser, orphan))
	assert.False(t, CanManageCampaign(volunteerB, campaign))
	assert.False(t, CanManageCampaign(volunteerA, orphan))
	assert.False(t, CanManageCampaign(nil, campaign))

	assert.True(t, CanCreateCampaign(volunteerA))
	assert.True(t, CanCreateCampaign(adminUser))
	assert.False(t, CanCreateCampaign(plainUser))
	assert.False(t, CanCreateCampaign(nil))

	assert.True(t, CanBrowseVolunteerArea(adminUser))
	assert.False(t, CanBrowseVolunteerArea(plainUser))

	assert.True(t, CanJoinAsVolunteer(volunteerB))
	assert.False(t, CanJoinAsVolunteer(adminUser))
	assert.False(t, CanJoinAsVolunteer(nil))

	assert.True(t, CanManageRequest(plainUser, request))
	assert.True(t, CanManageRequest(adminUser, request))
	assert.False(t, CanManageRequest(volunteerA, request))
	assert.False(t, CanManageRequest(volunteerA, &models.Request{}))

	assert.True(t, CanAdminister(adminUser))
	assert.False(t, CanAdminister(volunteerA))
	assert.False(t, CanAdminister(nil))
}
