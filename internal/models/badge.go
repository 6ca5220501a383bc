package models

import "time"

// DefaultBadgeIcon is used when an award does not name an icon
const DefaultBadgeIcon = "🏆"

// Badge is an award granted to a user by an administrator
type Badge struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Icon        string    `json:"icon" db:"icon"`
	UserID      int64     `json:"user_id" db:"user_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PointsPerCompletedCampaign is the leaderboard score for each completed
// campaign a volunteer joined.
const PointsPerCompletedCampaign = 10

// LeaderboardEntry ranks one volunteer
type LeaderboardEntry struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	CampsAttended  int    `json:"campsAttended"`
	CampsCompleted int    `json:"campsCompleted"`
	Points         int    `json:"points"`
	Badges         int    `json:"badges"`
}
