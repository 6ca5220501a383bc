// file: internal/repositories/interfaces.go
package repositories

import (
	"context"
	"time"

	"cleanearth/internal/models"
)

// Lookups by id return (nil, nil) when the row does not exist.

// UserRepository stores accounts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	SetBlocked(ctx context.Context, id int64, blocked bool) error
}

// RequestRepository stores cleanup requests
type RequestRepository interface {
	Create(ctx context.Context, req *models.Request) error
	GetByID(ctx context.Context, id int64) (*models.Request, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*models.Request, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Request, error)
	ListByPincode(ctx context.Context, pincode string) ([]*models.Request, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// CampaignRepository stores campaigns
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	GetByID(ctx context.Context, id int64) (*models.Campaign, error)
	List(ctx context.Context) ([]*models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign) error
	Delete(ctx context.Context, id int64) error

	// Complete marks the campaign and its request completed in one
	// transaction. It returns ErrCampaignNotFound when id is unknown.
	Complete(ctx context.Context, id int64, details models.CompletionDetails) (*models.Campaign, error)

	// ListPlannedByPincode lists planned campaigns whose request is in
	// pincode, flagged with whether viewerID has joined them.
	ListPlannedByPincode(ctx context.Context, pincode string, viewerID int64) ([]*models.CampaignListing, error)
}

// JoinResult describes a successful join
type JoinResult struct {
	Volunteer        *models.CampaignVolunteer
	ParticipantCount int
	Capacity         int
}

// ParticipationRepository stores campaign memberships
type ParticipationRepository interface {
	// Join adds volunteerID to the campaign under a row lock. It returns
	// ErrCampaignNotFound, ErrCampaignClosed, ErrAlreadyJoined or
	// ErrCampaignFull.
	Join(ctx context.Context, campaignID, volunteerID int64) (*JoinResult, error)

	// Leave reports whether a membership was removed
	Leave(ctx context.Context, campaignID, volunteerID int64) (bool, error)
	ListByCampaign(ctx context.Context, campaignID int64) ([]*models.CampaignVolunteer, error)
	Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error)
}

// BadgeRepository stores awarded badges
type BadgeRepository interface {
	Create(ctx context.Context, badge *models.Badge) error
	ListByUser(ctx context.Context, userID int64) ([]*models.Badge, error)
}

// RevokedTokenRepository stores revoked token ids until they expire
type RevokedTokenRepository interface {
	Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PurgeExpired(ctx context.Context) (int64, error)
}
