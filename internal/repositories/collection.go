// file: internal/repositories/collection.go
package repositories

import (
	"fmt"

	"cleanearth/internal/database"

	"go.uber.org/zap"
)

// Collection holds all repository instances for dependency injection
type Collection struct {
	User          UserRepository
	Request       RequestRepository
	Campaign      CampaignRepository
	Participation ParticipationRepository
	Badge         BadgeRepository
	RevokedToken  RevokedTokenRepository

	db     *database.Manager
	logger *zap.Logger
}

// NewCollection creates a new repository collection
func NewCollection(db *database.Manager, logger *zap.Logger) (*Collection, error) {
	if db == nil {
		return nil, fmt.Errorf("database manager is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	collection := &Collection{
		User:          NewUserRepository(db, logger),
		Request:       NewRequestRepository(db, logger),
		Campaign:      NewCampaignRepository(db, logger),
		Participation: NewParticipationRepository(db, logger),
		Badge:         NewBadgeRepository(db, logger),
		RevokedToken:  NewRevokedTokenRepository(db, logger),
		db:            db,
		logger:        logger,
	}

	logger.Info("Repository collection initialized")
	return collection, nil
}

// DB returns the database manager
func (c *Collection) DB() *database.Manager {
	return c.db
}
