// file: internal/repositories/user_repository.go
package repositories

import (
	"context"
	"fmt"
	"strings"

	"cleanearth/internal/database"
	"cleanearth/internal/models"

	"go.uber.org/zap"
)

// userRepository implements UserRepository
type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const userColumns = `id, name, email, password_hash, role, address, pincode,
		latitude, longitude, is_blocked, created_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.Address, &u.Pincode, &u.Latitude, &u.Longitude,
		&u.IsBlocked, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user. ErrEmailTaken is returned when the email is
// already registered, regardless of case.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, address, pincode, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_blocked, created_at`

	err := r.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role,
		user.Address, user.Pincode, user.Latitude, user.Longitude,
	).Scan(&user.ID, &user.IsBlocked, &user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		r.GetLogger().Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.GetLogger().Info("User created successfully",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role),
	)
	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.QueryRowContext(ctx, query, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	user, err := scanUser(r.QueryRowContext(ctx, query, strings.TrimSpace(email)))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// List returns every user ordered by id
func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateProfile saves the editable profile fields
func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $2, address = $3, pincode = $4, latitude = $5, longitude = $6
		WHERE id = $1`

	result, err := r.ExecContext(ctx, query,
		user.ID, user.Name, user.Address, user.Pincode, user.Latitude, user.Longitude,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d not found", user.ID)
	}
	return nil
}

// SetBlocked sets the blocked flag
func (r *userRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	_, err := r.ExecContext(ctx, `UPDATE users SET is_blocked = $2 WHERE id = $1`, id, blocked)
	if err != nil {
		return fmt.Errorf("failed to update blocked flag: %w", err)
	}

	r.GetLogger().Info("User blocked flag changed",
		zap.Int64("user_id", id),
		zap.Bool("blocked", blocked),
	)
	return nil
}
