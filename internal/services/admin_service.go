package services

import (
	"context"

	"cleanearth/internal/models"
	"cleanearth/internal/repositories"

	"go.uber.org/zap"
)

type adminService struct {
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo repositories.UserRepository, logger *zap.Logger) AdminService {
	return &adminService{userRepo: userRepo, logger: logger}
}

func (s *adminService) ListUsers(ctx context.Context, actor *models.User) ([]*models.User, error) {
	if !CanAdminister(actor) {
		return nil, NewForbiddenError("Not authorized")
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, NewInternalError("failed to list users")
	}
	return users, nil
}

// ToggleBlock flips the target's blocked flag. Admins cannot block
// themselves.
func (s *adminService) ToggleBlock(ctx context.Context, actor *models.User, userID int64) (*models.User, error) {
	if !CanAdminister(actor) {
		return nil, NewForbiddenError("Not authorized")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to get user", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewInternalError("failed to update user")
	}
	if user == nil {
		return nil, NewNotFoundError("User not found")
	}
	if user.ID == actor.ID {
		return nil, NewValidationError("You cannot block your own account", nil)
	}

	blocked := !user.IsBlocked
	if err := s.userRepo.SetBlocked(ctx, user.ID, blocked); err != nil {
		s.logger.Error("Failed to toggle block", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewInternalError("failed to update user")
	}
	user.IsBlocked = blocked

	s.logger.Info("User block toggled",
		zap.Int64("user_id", user.ID),
		zap.Int64("admin_id", actor.ID),
		zap.Bool("blocked", blocked),
	)
	return user, nil
}
