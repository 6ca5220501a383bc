// file: internal/models/models.go
package models

import (
	"time"

	"golang.org/x/exp/slices"
)

// ===============================
// ROLES AND STATUSES
// ===============================

const (
	RoleUser      = "user"
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"
)

const (
	RequestStatusPending    = "pending"
	RequestStatusInProgress = "in-progress"
	RequestStatusCompleted  = "completed"
)

const (
	CampaignStatusPlanned    = "planned"
	CampaignStatusInProgress = "in-progress"
	CampaignStatusCompleted  = "completed"
)

const (
	ParticipationJoined    = "joined"
	ParticipationConfirmed = "confirmed"
	ParticipationDeclined  = "declined"
)

var (
	requestStatuses  = []string{RequestStatusPending, RequestStatusInProgress, RequestStatusCompleted}
	campaignStatuses = []string{CampaignStatusPlanned, CampaignStatusInProgress, CampaignStatusCompleted}
)

// IsValidRequestStatus reports whether s is a known request status
func IsValidRequestStatus(s string) bool {
	return slices.Contains(requestStatuses, s)
}

// IsValidCampaignStatus reports whether s is a known campaign status
func IsValidCampaignStatus(s string) bool {
	return slices.Contains(campaignStatuses, s)
}

// ===============================
// CORE ENTITIES
// ===============================

// User is a registered account. Volunteers and admins are users with a
// different role.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Address      string    `json:"address" db:"address"`
	Pincode      string    `json:"pincode" db:"pincode"`
	Latitude     float64   `json:"latitude" db:"latitude"`
	Longitude    float64   `json:"longitude" db:"longitude"`
	IsBlocked    bool      `json:"is_blocked" db:"is_blocked"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// HasRole reports whether the user holds any of the given roles
func (u *User) HasRole(roles ...string) bool {
	return u != nil && slices.Contains(roles, u.Role)
}

// IsAdmin reports whether the user is an administrator
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// Request is a reported location that needs cleaning up
type Request struct {
	ID          int64     `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	Pincode     string    `json:"pincode" db:"pincode"`
	Latitude    float64   `json:"latitude" db:"latitude"`
	Longitude   float64   `json:"longitude" db:"longitude"`
	Description string    `json:"description" db:"description"`
	Address     string    `json:"address" db:"address"`
	Link        string    `json:"link" db:"link"`
	Status      string    `json:"status" db:"status"`
	UserID      *int64    `json:"user_id" db:"user_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Campaign is a scheduled cleanup event addressing one request
type Campaign struct {
	ID                 int64      `json:"id" db:"id"`
	Name               string     `json:"name" db:"name"`
	RequestID          int64      `json:"request_id" db:"request_id"`
	Date               Date       `json:"date" db:"date"`
	NumVolunteers      int        `json:"num_volunteers" db:"num_volunteers"`
	Timing             string     `json:"timing" db:"timing"`
	Description        string     `json:"description" db:"description"`
	Status             string     `json:"status" db:"status"`
	CreatorID          *int64     `json:"creator_id" db:"creator_id"`
	VolunteerCount     int        `json:"volunteer_count" db:"volunteer_count"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	ActualParticipants int        `json:"actual_participants" db:"actual_participants"`
	WasteCollected     string     `json:"waste_collected" db:"waste_collected"`
	ImageLink          string     `json:"image_link" db:"image_link"`
	CompletionNotes    string     `json:"completion_notes" db:"completion_notes"`
	CompletedAt        *time.Time `json:"completed_at" db:"completed_at"`
	Location           *string    `json:"location" db:"location"`
}

// IsOpen reports whether volunteers may still join
func (c *Campaign) IsOpen() bool {
	return c.Status == CampaignStatusPlanned || c.Status == CampaignStatusInProgress
}

// SpotsLeft returns the remaining capacity given the current participant count
func (c *Campaign) SpotsLeft(participants int) int {
	if left := c.NumVolunteers - participants; left > 0 {
		return left
	}
	return 0
}

// IsCreatedBy reports whether userID created the campaign
func (c *Campaign) IsCreatedBy(userID int64) bool {
	return c.CreatorID != nil && *c.CreatorID == userID
}

// CampaignListing is a campaign as seen by a particular viewer
type CampaignListing struct {
	*Campaign
	IsParticipating    bool `json:"isParticipating"`
	ParticipationCount int  `json:"participationCount"`
	SpotsLeft          int  `json:"spotsLeft"`
}

// NewCampaignListing derives the viewer-specific counters from a campaign
func NewCampaignListing(c *Campaign, participating bool) *CampaignListing {
	return &CampaignListing{
		Campaign:           c,
		IsParticipating:    participating,
		ParticipationCount: c.VolunteerCount,
		SpotsLeft:          c.SpotsLeft(c.VolunteerCount),
	}
}

// CampaignVolunteer links a volunteer to a campaign they joined
type CampaignVolunteer struct {
	ID            int64     `json:"id" db:"id"`
	CampaignID    int64     `json:"campaign_id" db:"campaign_id"`
	VolunteerID   int64     `json:"volunteer_id" db:"volunteer_id"`
	VolunteerName string    `json:"volunteer_name" db:"volunteer_name"`
	Status        string    `json:"status" db:"status"`
	JoinedAt      time.Time `json:"joined_at" db:"joined_at"`
}

// CompletionDetails are recorded when a campaign is marked completed.
// Nil fields keep their stored value.
type CompletionDetails struct {
	ActualParticipants *int
	WasteCollected     *string
	ImageLink          *string
	CompletionNotes    *string
}
