package services

import (
	"context"
	"strings"

	"cleanearth/internal/models"
	"cleanearth/internal/repositories"
	"cleanearth/internal/validation"

	"go.uber.org/zap"
)

type profileService struct {
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo repositories.UserRepository, logger *zap.Logger) ProfileService {
	return &profileService{userRepo: userRepo, logger: logger}
}

func (s *profileService) Get(ctx context.Context, actor *models.User) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		s.logger.Error("Failed to get profile", zap.Error(err), zap.Int64("user_id", actor.ID))
		return nil, NewInternalError("failed to get profile")
	}
	if user == nil {
		return nil, NewNotFoundError("User not found")
	}
	return user, nil
}

func (s *profileService) Update(ctx context.Context, actor *models.User, req *UpdateProfileRequest) (*models.User, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, newRequestValidationError(err)
	}
	if (req.Latitude != nil && !req.Latitude.Valid) || (req.Longitude != nil && !req.Longitude.Valid) {
		return nil, NewBusinessError("Latitude and longitude must be valid numbers", "INVALID_COORDINATES")
	}

	user, err := s.Get(ctx, actor)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, NewValidationError("Name cannot be empty", nil)
		}
		user.Name = name
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Pincode != nil {
		user.Pincode = strings.TrimSpace(*req.Pincode)
	}
	if req.Latitude != nil {
		user.Latitude = req.Latitude.Value
	}
	if req.Longitude != nil {
		user.Longitude = req.Longitude.Value
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		s.logger.Error("Failed to update profile", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, NewInternalError("failed to update profile")
	}
	return user, nil
}
