// file: internal/services/request_service.go
package services

import (
	"context"
	"strings"

	"cleanearth/internal/models"
	"cleanearth/internal/repositories"
	"cleanearth/internal/validation"

	"go.uber.org/zap"
)

type requestService struct {
	requestRepo repositories.RequestRepository
	userRepo    repositories.UserRepository
	logger      *zap.Logger
}

// NewRequestService creates a new request service
func NewRequestService(
	requestRepo repositories.RequestRepository,
	userRepo repositories.UserRepository,
	logger *zap.Logger,
) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

func (s *requestService) Create(ctx context.Context, actor *models.User, req *CreateRequestRequest) (*models.Request, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.ValidateStruct(req); err != nil {
		return nil, newRequestValidationError(err)
	}
	if !req.Latitude.Valid || !req.Longitude.Valid {
		return nil, NewBusinessError("Latitude and longitude must be valid numbers", "INVALID_COORDINATES")
	}

	reporter := actor
	if reporter == nil {
		user, err := s.userRepo.GetByEmail(ctx, req.Email)
		if err != nil {
			s.logger.Error("Failed to look up reporter", zap.Error(err))
			return nil, NewInternalError("failed to register request")
		}
		if user == nil {
			return nil, NewNotFoundError("User not found")
		}
		reporter = user
	}

	request := &models.Request{
		Email:       req.Email,
		Pincode:     strings.TrimSpace(req.Pincode),
		Latitude:    req.Latitude.Value,
		Longitude:   req.Longitude.Value,
		Description: req.Description,
		Address:     req.Address,
		Link:        req.Link,
		Status:      models.RequestStatusPending,
		UserID:      &reporter.ID,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		s.logger.Error("Failed to create request", zap.Error(err))
		return nil, NewInternalError("failed to register request")
	}
	return request, nil
}

func (s *requestService) Get(ctx context.Context, id int64) (*models.Request, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get request", zap.Error(err), zap.Int64("request_id", id))
		return nil, NewInternalError("failed to get request")
	}
	if request == nil {
		return nil, NewNotFoundError("Request not found")
	}
	return request, nil
}

func (s *requestService) ListMine(ctx context.Context, actor *models.User) ([]*models.Request, error) {
	requests, err := s.requestRepo.ListByUser(ctx, actor.ID)
	if err != nil {
		s.logger.Error("Failed to list user requests", zap.Error(err))
		return nil, NewInternalError("failed to list requests")
	}
	return requests, nil
}

func (s *requestService) ListForVolunteer(ctx context.Context, actor *models.User) ([]*models.Request, error) {
	if !CanBrowseVolunteerArea(actor) {
		return nil, NewForbiddenError("Not authorized")
	}
	if actor.Pincode == "" {
		return nil, NewValidationError("No pincode associated with your account", nil)
	}

	requests, err := s.requestRepo.ListByPincode(ctx, actor.Pincode)
	if err != nil {
		s.logger.Error("Failed to list area requests", zap.Error(err))
		return nil, NewInternalError("failed to list requests")
	}
	return requests, nil
}

func (s *requestService) ListAll(ctx context.Context, actor *models.User) ([]*models.Request, error) {
	if !CanAdminister(actor) {
		return nil, NewForbiddenError("Not authorized")
	}

	requests, err := s.requestRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list requests", zap.Error(err))
		return nil, NewInternalError("failed to list requests")
	}
	return requests, nil
}

func (s *requestService) UpdateStatus(ctx context.Context, actor *models.User, id int64, req *UpdateRequestStatusRequest) (*models.Request, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, newRequestValidationError(err)
	}
	if !models.IsValidRequestStatus(req.Status) {
		return nil, NewValidationError("Invalid status", nil)
	}

	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManageRequest(actor, request) {
		return nil, NewForbiddenError("Not authorized to update this request")
	}

	if err := s.requestRepo.UpdateStatus(ctx, id, req.Status); err != nil {
		s.logger.Error("Failed to update request status", zap.Error(err), zap.Int64("request_id", id))
		return nil, NewInternalError("failed to update request")
	}
	request.Status = req.Status
	return request, nil
}
