// ===============================
// FILE: internal/handlers/api/v1/users/types.go
// ===============================

package users

import "cleanearth/internal/models"

// UserResponse pairs a message with the affected account
type UserResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

// BadgeResponse is returned after a badge is awarded
type BadgeResponse struct {
	Message string        `json:"message"`
	Badge   *models.Badge `json:"badge"`
}
