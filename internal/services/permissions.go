package services

import "cleanearth/internal/models"

// Permission predicates. Every role and ownership decision goes through
// these; a nil actor is never permitted.

// CanManageCampaign allows admins and the campaign's creator
func CanManageCampaign(actor *models.User, campaign *models.Campaign) bool {
	if actor == nil || campaign == nil {
		return false
	}
	return actor.IsAdmin() || campaign.IsCreatedBy(actor.ID)
}

// CanCreateCampaign allows volunteers and admins
func CanCreateCampaign(actor *models.User) bool {
	return actor.HasRole(models.RoleVolunteer, models.RoleAdmin)
}

// CanBrowseVolunteerArea allows volunteers and admins to list work in
// their pincode.
func CanBrowseVolunteerArea(actor *models.User) bool {
	return actor.HasRole(models.RoleVolunteer, models.RoleAdmin)
}

// CanJoinAsVolunteer allows volunteers only
func CanJoinAsVolunteer(actor *models.User) bool {
	return actor.HasRole(models.RoleVolunteer)
}

// CanManageRequest allows admins and the reporter
func CanManageRequest(actor *models.User, req *models.Request) bool {
	if actor == nil || req == nil {
		return false
	}
	return actor.IsAdmin() || (req.UserID != nil && *req.UserID == actor.ID)
}

// CanAdminister allows admins only
func CanAdminister(actor *models.User) bool {
	return actor.IsAdmin()
}
