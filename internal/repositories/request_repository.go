// file: internal/repositories/request_repository.go
package repositories

import (
	"context"
	"fmt"

	"cleanearth/internal/database"
	"cleanearth/internal/models"

	"go.uber.org/zap"
)

type requestRepository struct {
	*BaseRepository
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *database.Manager, logger *zap.Logger) RequestRepository {
	return &requestRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const requestColumns = `id, email, pincode, latitude, longitude, description,
		address, link, status, user_id, created_at`

func scanRequest(row rowScanner) (*models.Request, error) {
	var req models.Request
	err := row.Scan(
		&req.ID, &req.Email, &req.Pincode, &req.Latitude, &req.Longitude,
		&req.Description, &req.Address, &req.Link, &req.Status,
		&req.UserID, &req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) queryRequests(ctx context.Context, query string, args ...interface{}) ([]*models.Request, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Create inserts a request. Status defaults to pending when empty.
func (r *requestRepository) Create(ctx context.Context, req *models.Request) error {
	if req.Status == "" {
		req.Status = models.RequestStatusPending
	}

	query := `
		INSERT INTO requests (email, pincode, latitude, longitude, description, address, link, status, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.QueryRowContext(ctx, query,
		req.Email, req.Pincode, req.Latitude, req.Longitude,
		req.Description, req.Address, req.Link, req.Status, req.UserID,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	r.GetLogger().Info("Request registered",
		zap.Int64("request_id", req.ID),
		zap.String("pincode", req.Pincode),
	)
	return nil
}

// GetByID retrieves a request by ID
func (r *requestRepository) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`

	req, err := scanRequest(r.QueryRowContext(ctx, query, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get request by ID: %w", err)
	}
	return req, nil
}

// Exists reports whether a request with id exists
func (r *requestRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM requests WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check request: %w", err)
	}
	return exists, nil
}

// List returns all requests, newest first
func (r *requestRepository) List(ctx context.Context) ([]*models.Request, error) {
	return r.queryRequests(ctx, `SELECT `+requestColumns+` FROM requests ORDER BY created_at DESC, id DESC`)
}

// ListByUser returns the requests reported by userID, newest first
func (r *requestRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Request, error) {
	return r.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
}

// ListByPincode returns the requests in an area, newest first
func (r *requestRepository) ListByPincode(ctx context.Context, pincode string) ([]*models.Request, error) {
	return r.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE pincode = $1 ORDER BY created_at DESC, id DESC`,
		pincode,
	)
}

// UpdateStatus sets the request status
func (r *requestRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.ExecContext(ctx, `UPDATE requests SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	return nil
}
