// file: internal/repositories/revoked_token_repository.go
package repositories

import (
	"context"
	"fmt"
	"time"

	"cleanearth/internal/database"

	"go.uber.org/zap"
)

type revokedTokenRepository struct {
	*BaseRepository
}

// NewRevokedTokenRepository creates a repository over revoked_tokens
func NewRevokedTokenRepository(db *database.Manager, logger *zap.Logger) RevokedTokenRepository {
	return &revokedTokenRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Revoke records jti until expiresAt. Revoking twice is not an error.
func (r *revokedTokenRepository) Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	_, err := r.ExecContext(ctx, `
		INSERT INTO revoked_tokens (jti, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (jti) DO NOTHING`,
		jti, userID, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked ignores rows whose expiry has passed
func (r *revokedTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := r.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE jti = $1 AND expires_at > NOW())`,
		jti,
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return revoked, nil
}

// PurgeExpired deletes rows whose tokens can no longer be presented
func (r *revokedTokenRepository) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := r.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge revoked tokens: %w", err)
	}
	n, _ := result.RowsAffected()
	if n > 0 {
		r.GetLogger().Debug("Purged expired revoked tokens", zap.Int64("count", n))
	}
	return n, nil
}
