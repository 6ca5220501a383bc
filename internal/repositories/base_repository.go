package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cleanearth/internal/database"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Errors reported by repositories for conditions the service layer maps
// to client errors.
var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrCampaignClosed   = errors.New("campaign is not accepting volunteers")
	ErrCampaignFull     = errors.New("campaign is full")
	ErrAlreadyJoined    = errors.New("already joined this campaign")
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation
const uniqueViolation = "23505"

// BaseRepository provides common database operations
type BaseRepository struct {
	db     *database.Manager
	logger *zap.Logger
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *database.Manager, logger *zap.Logger) *BaseRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseRepository{
		db:     db,
		logger: logger,
	}
}

// ===============================
// CORE DATABASE OPERATIONS
// ===============================

// ExecContext executes a statement through the manager, which logs slow
// and failed queries.
func (r *BaseRepository) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return r.db.ExecContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows
func (r *BaseRepository) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, query, args...)
}

// QueryRowContext executes a query that returns a single row
func (r *BaseRepository) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return r.db.QueryRowContext(ctx, query, args...)
}

// ===============================
// TRANSACTION HELPERS
// ===============================

// WithTransaction executes fn within a database transaction. The
// transaction is rolled back when fn returns an error or panics.
func (r *BaseRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("Failed to rollback transaction",
				zap.Error(rbErr),
				zap.NamedError("cause", err),
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ===============================
// UTILITY METHODS
// ===============================

// IsNotFound checks if error is a "not found" error
func (r *BaseRepository) IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// GetLogger returns the logger instance
func (r *BaseRepository) GetLogger() *zap.Logger {
	return r.logger
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}
