// file: internal/repositories/campaign_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"cleanearth/internal/database"
	"cleanearth/internal/models"

	"go.uber.org/zap"
)

type campaignRepository struct {
	*BaseRepository
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *database.Manager, logger *zap.Logger) CampaignRepository {
	return &campaignRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// campaignSelect carries the live volunteer count and the request address
const campaignSelect = `
		SELECT
			c.id, c.name, c.request_id, c.date, c.num_volunteers, c.timing,
			c.description, c.status, c.creator_id,
			(SELECT COUNT(*) FROM campaign_volunteers cv WHERE cv.campaign_id = c.id) AS volunteer_count,
			c.created_at, c.actual_participants, c.waste_collected, c.image_link,
			c.completion_notes, c.completed_at, r.address AS location`

func scanCampaign(row rowScanner, extra ...interface{}) (*models.Campaign, error) {
	var c models.Campaign
	dest := []interface{}{
		&c.ID, &c.Name, &c.RequestID, &c.Date.Time, &c.NumVolunteers, &c.Timing,
		&c.Description, &c.Status, &c.CreatorID,
		&c.VolunteerCount,
		&c.CreatedAt, &c.ActualParticipants, &c.WasteCollected, &c.ImageLink,
		&c.CompletionNotes, &c.CompletedAt, &c.Location,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a campaign in the planned state
func (r *campaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	if campaign.Status == "" {
		campaign.Status = models.CampaignStatusPlanned
	}

	query := `
		INSERT INTO campaigns (name, request_id, date, num_volunteers, timing, description, status, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.QueryRowContext(ctx, query,
		campaign.Name, campaign.RequestID, campaign.Date.Time, campaign.NumVolunteers,
		campaign.Timing, campaign.Description, campaign.Status, campaign.CreatorID,
	).Scan(&campaign.ID, &campaign.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	r.GetLogger().Info("Campaign created",
		zap.Int64("campaign_id", campaign.ID),
		zap.Int64("request_id", campaign.RequestID),
	)
	return nil
}

// GetByID retrieves a campaign by ID
func (r *campaignRepository) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	query := campaignSelect + `
		FROM campaigns c
		LEFT JOIN requests r ON r.id = c.request_id
		WHERE c.id = $1`

	campaign, err := scanCampaign(r.QueryRowContext(ctx, query, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get campaign by ID: %w", err)
	}
	return campaign, nil
}

// List returns all campaigns ordered by date
func (r *campaignRepository) List(ctx context.Context) ([]*models.Campaign, error) {
	query := campaignSelect + `
		FROM campaigns c
		LEFT JOIN requests r ON r.id = c.request_id
		ORDER BY c.date, c.id`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := make([]*models.Campaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// Update saves the editable campaign fields
func (r *campaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	query := `
		UPDATE campaigns
		SET name = $2, request_id = $3, date = $4, num_volunteers = $5,
			timing = $6, description = $7, status = $8
		WHERE id = $1`

	result, err := r.ExecContext(ctx, query,
		campaign.ID, campaign.Name, campaign.RequestID, campaign.Date.Time,
		campaign.NumVolunteers, campaign.Timing, campaign.Description, campaign.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

// Delete removes a campaign and, through the foreign key, its volunteers
func (r *campaignRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrCampaignNotFound
	}

	r.GetLogger().Info("Campaign deleted", zap.Int64("campaign_id", id))
	return nil
}

// Complete marks the campaign completed, records the outcome and closes
// the linked request.
func (r *campaignRepository) Complete(ctx context.Context, id int64, details models.CompletionDetails) (*models.Campaign, error) {
	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		var requestID int64
		err := tx.QueryRowContext(ctx, `
			UPDATE campaigns
			SET status = 'completed',
				completed_at = NOW(),
				actual_participants = COALESCE($2, actual_participants),
				waste_collected = COALESCE($3, waste_collected),
				image_link = COALESCE($4, image_link),
				completion_notes = COALESCE($5, completion_notes)
			WHERE id = $1
			RETURNING request_id`,
			id, details.ActualParticipants, details.WasteCollected,
			details.ImageLink, details.CompletionNotes,
		).Scan(&requestID)
		if err != nil {
			if r.IsNotFound(err) {
				return ErrCampaignNotFound
			}
			return fmt.Errorf("failed to complete campaign: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE requests SET status = 'completed' WHERE id = $1`, requestID,
		); err != nil {
			return fmt.Errorf("failed to complete request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.GetLogger().Info("Campaign completed", zap.Int64("campaign_id", id))
	return r.GetByID(ctx, id)
}

// ListPlannedByPincode lists planned campaigns in an area for a viewer
func (r *campaignRepository) ListPlannedByPincode(ctx context.Context, pincode string, viewerID int64) ([]*models.CampaignListing, error) {
	query := campaignSelect + `,
			EXISTS(
				SELECT 1 FROM campaign_volunteers p
				WHERE p.campaign_id = c.id AND p.volunteer_id = $2
			) AS is_participating
		FROM campaigns c
		JOIN requests r ON r.id = c.request_id
		WHERE c.status = 'planned' AND r.pincode = $1
		ORDER BY c.date, c.id`

	rows, err := r.QueryContext(ctx, query, pincode, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns by pincode: %w", err)
	}
	defer rows.Close()

	listings := make([]*models.CampaignListing, 0)
	for rows.Next() {
		var participating bool
		c, err := scanCampaign(rows, &participating)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		listings = append(listings, models.NewCampaignListing(c, participating))
	}
	return listings, rows.Err()
}
