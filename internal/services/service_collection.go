// file: internal/services/service_collection.go
package services

import (
	"fmt"

	"cleanearth/internal/config"
	"cleanearth/internal/repositories"

	"go.uber.org/zap"
)

// ServiceCollection holds all service instances for dependency injection
type ServiceCollection struct {
	Auth          AuthService
	Request       RequestService
	Campaign      CampaignService
	Participation ParticipationService
	Profile       ProfileService
	Admin         AdminService
	Badge         BadgeService
	Leaderboard   LeaderboardService

	Tokens  *TokenManager
	Revoker TokenRevoker
}

// Dependencies are the collaborators shared across services
type Dependencies struct {
	Repositories *repositories.Collection
	Revoker      TokenRevoker
	Images       ImageStorage
	Auth         config.AuthConfig
	Logger       *zap.Logger
}

// NewServiceCollection wires every service
func NewServiceCollection(deps Dependencies) (*ServiceCollection, error) {
	if deps.Repositories == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.Revoker == nil {
		return nil, fmt.Errorf("token revoker is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	repos := deps.Repositories
	tokens := NewTokenManager(deps.Auth)

	collection := &ServiceCollection{
		Auth:          NewAuthService(repos.User, tokens, deps.Revoker, deps.Auth, logger.Named("auth")),
		Request:       NewRequestService(repos.Request, repos.User, logger.Named("requests")),
		Campaign:      NewCampaignService(repos.Campaign, repos.Request, deps.Images, logger.Named("campaigns")),
		Participation: NewParticipationService(repos.Participation, repos.Campaign, logger.Named("participation")),
		Profile:       NewProfileService(repos.User, logger.Named("profile")),
		Admin:         NewAdminService(repos.User, logger.Named("admin")),
		Badge:         NewBadgeService(repos.Badge, repos.User, logger.Named("badges")),
		Leaderboard:   NewLeaderboardService(repos.Participation, logger.Named("leaderboard")),
		Tokens:        tokens,
		Revoker:       deps.Revoker,
	}

	logger.Info("Service collection initialized",
		zap.Bool("image_uploads", deps.Images != nil),
	)
	return collection, nil
}
