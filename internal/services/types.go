package services

import (
	"io"

	"cleanearth/internal/models"
)

// ===============================
// AUTH
// ===============================

// RegisterRequest is the body of POST /api/register
type RegisterRequest struct {
	Name      string            `json:"name" validate:"required,max=100"`
	Email     string            `json:"email" validate:"required,email,max=100"`
	Password  string            `json:"password" validate:"required"`
	Role      string            `json:"role" validate:"omitempty,oneof=user volunteer"`
	Address   string            `json:"address" validate:"max=255"`
	Pincode   string            `json:"pincode" validate:"max=10"`
	Latitude  *models.FlexFloat `json:"latitude"`
	Longitude *models.FlexFloat `json:"longitude"`
}

// LoginRequest is the body of POST /api/login. Role, when present, must
// match the account's role.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Message     string       `json:"message"`
	UserID      int64        `json:"user_id,omitempty"`
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

// ===============================
// REQUESTS
// ===============================

// CreateRequestRequest is the body of POST /api/request_register
type CreateRequestRequest struct {
	Email       string            `json:"email" validate:"required,max=100"`
	Pincode     string            `json:"pincode" validate:"required,max=10"`
	Latitude    *models.FlexFloat `json:"latitude" validate:"required"`
	Longitude   *models.FlexFloat `json:"longitude" validate:"required"`
	Description string            `json:"description" validate:"required"`
	Address     string            `json:"address" validate:"required,max=255"`
	Link        string            `json:"link" validate:"max=255"`
}

// UpdateRequestStatusRequest is the body of PUT /api/managerequest
type UpdateRequestStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ===============================
// CAMPAIGNS
// ===============================

// CampRegisterRequest is the camelCase body of POST /api/camp_register
type CampRegisterRequest struct {
	RequestID          *models.FlexInt `json:"requestId" validate:"required"`
	CampName           string          `json:"campName" validate:"required,max=100"`
	DateOfCamp         string          `json:"dateOfCamp" validate:"required"`
	TimeOfCamp         string          `json:"timeOfCamp" validate:"required,max=50"`
	NumberOfVolunteers *models.FlexInt `json:"numberOfVolunteers" validate:"required"`
	Description        string          `json:"description" validate:"required"`
}

// CreateCampaignRequest is the snake_case body of POST /api/managecamp
type CreateCampaignRequest struct {
	RequestID     *models.FlexInt `json:"request_id" validate:"required"`
	Date          string          `json:"date" validate:"required"`
	NumVolunteers *models.FlexInt `json:"num_volunteers" validate:"required"`
	Timing        string          `json:"timing" validate:"required,max=50"`
	Name          string          `json:"name" validate:"required,max=100"`
	Description   string          `json:"description"`
}

// UpdateCampaignRequest is a partial update; nil fields are unchanged
type UpdateCampaignRequest struct {
	Name          *string         `json:"name" validate:"omitempty,max=100"`
	RequestID     *models.FlexInt `json:"request_id"`
	Date          *string         `json:"date"`
	NumVolunteers *models.FlexInt `json:"num_volunteers"`
	Timing        *string         `json:"timing" validate:"omitempty,max=50"`
	Description   *string         `json:"description"`
	Status        *string         `json:"status"`
}

// ImageUpload is a file submitted with a completion form
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// CompleteCampaignRequest carries optional completion details
type CompleteCampaignRequest struct {
	ActualParticipants *models.FlexInt `json:"actual_participants"`
	WasteCollected     *string         `json:"waste_collected" validate:"omitempty,max=255"`
	ImageLink          *string         `json:"image_link" validate:"omitempty,max=255"`
	CompletionNotes    *string         `json:"completion_notes"`

	Image *ImageUpload `json:"-"`
}

// JoinResponse is returned by both join endpoints
type JoinResponse struct {
	Message            string           `json:"message"`
	ParticipationCount int              `json:"participationCount"`
	SpotsLeft          int              `json:"spotsLeft"`
	CampDetails        *models.Campaign `json:"campDetails"`
	Campaign           *models.Campaign `json:"campaign"`
}

// ===============================
// PROFILE AND ADMIN
// ===============================

// UpdateProfileRequest is a partial profile update
type UpdateProfileRequest struct {
	Name      *string           `json:"name" validate:"omitempty,max=100"`
	Address   *string           `json:"address" validate:"omitempty,max=255"`
	Pincode   *string           `json:"pincode" validate:"omitempty,max=10"`
	Latitude  *models.FlexFloat `json:"latitude"`
	Longitude *models.FlexFloat `json:"longitude"`
}

// AwardBadgeRequest is the body of POST /api/admin/award_badge
type AwardBadgeRequest struct {
	UserID      *models.FlexInt `json:"user_id" validate:"required"`
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=255"`
	Icon        string          `json:"icon" validate:"max=100"`
}
