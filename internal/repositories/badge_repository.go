// file: internal/repositories/badge_repository.go
package repositories

import (
	"context"
	"fmt"

	"cleanearth/internal/database"
	"cleanearth/internal/models"

	"go.uber.org/zap"
)

type badgeRepository struct {
	*BaseRepository
}

// NewBadgeRepository creates a new badge repository
func NewBadgeRepository(db *database.Manager, logger *zap.Logger) BadgeRepository {
	return &badgeRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Create awards a badge
func (r *badgeRepository) Create(ctx context.Context, badge *models.Badge) error {
	if badge.Icon == "" {
		badge.Icon = models.DefaultBadgeIcon
	}

	err := r.QueryRowContext(ctx, `
		INSERT INTO badges (name, description, icon, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		badge.Name, badge.Description, badge.Icon, badge.UserID,
	).Scan(&badge.ID, &badge.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to award badge: %w", err)
	}

	r.GetLogger().Info("Badge awarded",
		zap.Int64("badge_id", badge.ID),
		zap.Int64("user_id", badge.UserID),
	)
	return nil
}

// ListByUser returns a user's badges, newest first
func (r *badgeRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Badge, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT id, name, description, icon, user_id, created_at
		FROM badges
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	defer rows.Close()

	badges := make([]*models.Badge, 0)
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &b.UserID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, &b)
	}
	return badges, rows.Err()
}
