// file: internal/services/interfaces.go
package services

import (
	"context"

	"cleanearth/internal/models"
)

// Actor arguments are the authenticated caller; permission checks are
// made against them inside each service.

// AuthService handles accounts and tokens
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, claims *TokenClaims) error

	// Authenticate resolves a bearer token to its user. Expired, revoked
	// and unknown-user tokens are authentication errors; a blocked user
	// is forbidden.
	Authenticate(ctx context.Context, token string) (*models.User, *TokenClaims, error)
}

// RequestService manages cleanup requests
type RequestService interface {
	// Create registers a request for actor, or for the user owning
	// req.Email when actor is nil.
	Create(ctx context.Context, actor *models.User, req *CreateRequestRequest) (*models.Request, error)
	Get(ctx context.Context, id int64) (*models.Request, error)
	ListMine(ctx context.Context, actor *models.User) ([]*models.Request, error)
	ListForVolunteer(ctx context.Context, actor *models.User) ([]*models.Request, error)
	ListAll(ctx context.Context, actor *models.User) ([]*models.Request, error)
	UpdateStatus(ctx context.Context, actor *models.User, id int64, req *UpdateRequestStatusRequest) (*models.Request, error)
}

// CampaignService manages campaigns
type CampaignService interface {
	Register(ctx context.Context, actor *models.User, req *CampRegisterRequest) (*models.Campaign, error)
	Create(ctx context.Context, actor *models.User, req *CreateCampaignRequest) (*models.Campaign, error)
	Get(ctx context.Context, id int64) (*models.Campaign, error)
	List(ctx context.Context) ([]*models.Campaign, error)
	Update(ctx context.Context, actor *models.User, id int64, req *UpdateCampaignRequest) (*models.Campaign, error)
	Delete(ctx context.Context, actor *models.User, id int64) error
	Complete(ctx context.Context, actor *models.User, id int64, req *CompleteCampaignRequest) (*models.Campaign, error)
}

// ParticipationService manages campaign membership
type ParticipationService interface {
	// Join is the volunteer-only join
	Join(ctx context.Context, actor *models.User, campaignID int64) (*JoinResponse, error)
	// Participate lets any authenticated user join
	Participate(ctx context.Context, actor *models.User, campaignID int64) (*JoinResponse, error)
	Leave(ctx context.Context, actor *models.User, campaignID int64) error
	Volunteers(ctx context.Context, actor *models.User, campaignID int64) ([]*models.CampaignVolunteer, error)
	CampsNearUser(ctx context.Context, actor *models.User) ([]*models.CampaignListing, error)
	CampsNearVolunteer(ctx context.Context, actor *models.User) ([]*models.CampaignListing, error)
}

// ProfileService reads and edits the caller's own account
type ProfileService interface {
	Get(ctx context.Context, actor *models.User) (*models.User, error)
	Update(ctx context.Context, actor *models.User, req *UpdateProfileRequest) (*models.User, error)
}

// AdminService holds administrator-only user management
type AdminService interface {
	ListUsers(ctx context.Context, actor *models.User) ([]*models.User, error)
	ToggleBlock(ctx context.Context, actor *models.User, userID int64) (*models.User, error)
}

// BadgeService lists and awards badges
type BadgeService interface {
	ListMine(ctx context.Context, actor *models.User) ([]*models.Badge, error)
	Award(ctx context.Context, actor *models.User, req *AwardBadgeRequest) (*models.Badge, error)
}

// LeaderboardService ranks volunteers
type LeaderboardService interface {
	Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error)
}

// ImageStorage stores completion photos and returns their public URL
type ImageStorage interface {
	UploadImage(ctx context.Context, upload *ImageUpload) (string, error)
}
