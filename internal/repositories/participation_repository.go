// file: internal/repositories/participation_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"cleanearth/internal/database"
	"cleanearth/internal/models"

	"go.uber.org/zap"
)

type participationRepository struct {
	*BaseRepository
}

// NewParticipationRepository creates a new participation repository
func NewParticipationRepository(db *database.Manager, logger *zap.Logger) ParticipationRepository {
	return &participationRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Join locks the campaign row so that concurrent joins see each other's
// inserts before the capacity check.
func (r *participationRepository) Join(ctx context.Context, campaignID, volunteerID int64) (*JoinResult, error) {
	var result *JoinResult

	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		var capacity int
		var status string
		err := tx.QueryRowContext(ctx,
			`SELECT num_volunteers, status FROM campaigns WHERE id = $1 FOR UPDATE`,
			campaignID,
		).Scan(&capacity, &status)
		if err != nil {
			if r.IsNotFound(err) {
				return ErrCampaignNotFound
			}
			return fmt.Errorf("failed to lock campaign: %w", err)
		}

		if status != models.CampaignStatusPlanned && status != models.CampaignStatusInProgress {
			return ErrCampaignClosed
		}

		var joined bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM campaign_volunteers WHERE campaign_id = $1 AND volunteer_id = $2)`,
			campaignID, volunteerID,
		).Scan(&joined)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if joined {
			return ErrAlreadyJoined
		}

		var count int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM campaign_volunteers WHERE campaign_id = $1`,
			campaignID,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to count volunteers: %w", err)
		}
		if count >= capacity {
			return ErrCampaignFull
		}

		cv := &models.CampaignVolunteer{
			CampaignID:  campaignID,
			VolunteerID: volunteerID,
			Status:      models.ParticipationJoined,
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO campaign_volunteers (campaign_id, volunteer_id, status)
			VALUES ($1, $2, $3)
			RETURNING id, joined_at`,
			campaignID, volunteerID, cv.Status,
		).Scan(&cv.ID, &cv.JoinedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyJoined
			}
			return fmt.Errorf("failed to join campaign: %w", err)
		}

		result = &JoinResult{
			Volunteer:        cv,
			ParticipantCount: count + 1,
			Capacity:         capacity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.GetLogger().Info("Volunteer joined campaign",
		zap.Int64("campaign_id", campaignID),
		zap.Int64("volunteer_id", volunteerID),
		zap.Int("participants", result.ParticipantCount),
	)
	return result, nil
}

// Leave removes a membership
func (r *participationRepository) Leave(ctx context.Context, campaignID, volunteerID int64) (bool, error) {
	result, err := r.ExecContext(ctx,
		`DELETE FROM campaign_volunteers WHERE campaign_id = $1 AND volunteer_id = $2`,
		campaignID, volunteerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to leave campaign: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to leave campaign: %w", err)
	}
	return n > 0, nil
}

// ListByCampaign returns the members of a campaign with their names
func (r *participationRepository) ListByCampaign(ctx context.Context, campaignID int64) ([]*models.CampaignVolunteer, error) {
	query := `
		SELECT cv.id, cv.campaign_id, cv.volunteer_id, u.name, cv.status, cv.joined_at
		FROM campaign_volunteers cv
		JOIN users u ON u.id = cv.volunteer_id
		WHERE cv.campaign_id = $1
		ORDER BY cv.joined_at, cv.id`

	rows, err := r.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign volunteers: %w", err)
	}
	defer rows.Close()

	volunteers := make([]*models.CampaignVolunteer, 0)
	for rows.Next() {
		var cv models.CampaignVolunteer
		if err := rows.Scan(
			&cv.ID, &cv.CampaignID, &cv.VolunteerID, &cv.VolunteerName, &cv.Status, &cv.JoinedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan campaign volunteer: %w", err)
		}
		volunteers = append(volunteers, &cv)
	}
	return volunteers, rows.Err()
}

// Leaderboard aggregates participation for every volunteer in one query.
// Points and ordering are left to the caller.
func (r *participationRepository) Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT
			u.id, u.name,
			COUNT(cv.id) AS camps_attended,
			COUNT(cv.id) FILTER (WHERE c.status = 'completed') AS camps_completed,
			(SELECT COUNT(*) FROM badges b WHERE b.user_id = u.id) AS badges
		FROM users u
		LEFT JOIN campaign_volunteers cv ON cv.volunteer_id = u.id
		LEFT JOIN campaigns c ON c.id = cv.campaign_id
		WHERE u.role = 'volunteer'
		GROUP BY u.id, u.name
		ORDER BY u.id`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.LeaderboardEntry, 0)
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.CampsAttended, &e.CampsCompleted, &e.Badges); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
