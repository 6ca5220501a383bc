package services

import (
	"context"
	"strings"

	"cleanearth/internal/models"
	"cleanearth/internal/repositories"
	"cleanearth/internal/validation"

	"go.uber.org/zap"
)

type badgeService struct {
	badgeRepo repositories.BadgeRepository
	userRepo  repositories.UserRepository
	logger    *zap.Logger
}

// NewBadgeService creates a new badge service
func NewBadgeService(badgeRepo repositories.BadgeRepository, userRepo repositories.UserRepository, logger *zap.Logger) BadgeService {
	return &badgeService{badgeRepo: badgeRepo, userRepo: userRepo, logger: logger}
}

func (s *badgeService) ListMine(ctx context.Context, actor *models.User) ([]*models.Badge, error) {
	badges, err := s.badgeRepo.ListByUser(ctx, actor.ID)
	if err != nil {
		s.logger.Error("Failed to list badges", zap.Error(err), zap.Int64("user_id", actor.ID))
		return nil, NewInternalError("Failed to process request")
	}
	return badges, nil
}

func (s *badgeService) Award(ctx context.Context, actor *models.User, req *AwardBadgeRequest) (*models.Badge, error) {
	if !CanAdminister(actor) {
		return nil, NewForbiddenError("Not authorized")
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.ValidateStruct(req); err != nil {
		return nil, newRequestValidationError(err)
	}
	if !req.UserID.Valid {
		return nil, NewValidationError("Invalid value for field: user_id", nil)
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID.Value)
	if err != nil {
		s.logger.Error("Failed to get badge recipient", zap.Error(err))
		return nil, NewInternalError("failed to award badge")
	}
	if user == nil {
		return nil, NewNotFoundError("User not found")
	}

	badge := &models.Badge{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		UserID:      user.ID,
	}
	if badge.Icon == "" {
		badge.Icon = models.DefaultBadgeIcon
	}

	if err := s.badgeRepo.Create(ctx, badge); err != nil {
		s.logger.Error("Failed to award badge", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, NewInternalError("failed to award badge")
	}
	return badge, nil
}
