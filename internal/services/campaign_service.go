// file: internal/services/campaign_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"cleanearth/internal/models"
	"cleanearth/internal/repositories"
	"cleanearth/internal/validation"

	"go.uber.org/zap"
)

type campaignService struct {
	campaignRepo repositories.CampaignRepository
	requestRepo  repositories.RequestRepository
	images       ImageStorage
	logger       *zap.Logger
}

// NewCampaignService creates a new campaign service. images may be nil,
// in which case completion uploads are rejected.
func NewCampaignService(
	campaignRepo repositories.CampaignRepository,
	requestRepo repositories.RequestRepository,
	images ImageStorage,
	logger *zap.Logger,
) CampaignService {
	return &campaignService{
		campaignRepo: campaignRepo,
		requestRepo:  requestRepo,
		images:       images,
		logger:       logger,
	}
}

// campaignDraft is the normalised form of both create payloads
type campaignDraft struct {
	requestID     *models.FlexInt
	requestField  string
	name          string
	date          string
	numVolunteers *models.FlexInt
	volField      string
	timing        string
	description   string
}

func (s *campaignService) Register(ctx context.Context, actor *models.User, req *CampRegisterRequest) (*models.Campaign, error) {
	if !CanCreateCampaign(actor) {
		return nil, NewForbiddenError("Not authorized to create camps")
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, newRequestValidationError(err)
	}

	return s.create(ctx, actor, campaignDraft{
		requestID:     req.RequestID,
		requestField:  "requestId",
		name:          req.CampName,
		date:          req.DateOfCamp,
		numVolunteers: req.NumberOfVolunteers,
		volField:      "numberOfVolunteers",
		timing:        req.TimeOfCamp,
		description:   req.Description,
	})
}

func (s *campaignService) Create(ctx context.Context, actor *models.User, req *CreateCampaignRequest) (*models.Campaign, error) {
	if !CanCreateCampaign(actor) {
		return nil, NewForbiddenError("Not authorized to create camps")
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, newRequestValidationError(err)
	}

	return s.create(ctx, actor, campaignDraft{
		requestID:     req.RequestID,
		requestField:  "request_id",
		name:          req.Name,
		date:          req.Date,
		numVolunteers: req.NumVolunteers,
		volField:      "num_volunteers",
		timing:        req.Timing,
		description:   req.Description,
	})
}

func (s *campaignService) create(ctx context.Context, actor *models.User, d campaignDraft) (*models.Campaign, error) {
	if !d.requestID.Valid {
		return nil, NewValidationError("Invalid value for field: "+d.requestField, nil)
	}
	if !d.numVolunteers.Valid || d.numVolunteers.Value < 0 {
		return nil, NewValidationError("Invalid value for field: "+d.volField, nil)
	}

	date, err := models.ParseDate(d.date)
	if err != nil {
		return nil, NewValidationError("Invalid date format. Use YYYY-MM-DD", err)
	}

	if err := s.ensureRequestExists(ctx, d.requestID.Value); err != nil {
		return nil, err
	}

	creatorID := actor.ID
	campaign := &models.Campaign{
		Name:          strings.TrimSpace(d.name),
		RequestID:     d.requestID.Value,
		Date:          date,
		NumVolunteers: int(d.numVolunteers.Value),
		Timing:        d.timing,
		Description:   d.description,
		Status:        models.CampaignStatusPlanned,
		CreatorID:     &creatorID,
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		s.logger.Error("Failed to create campaign", zap.Error(err))
		return nil, NewInternalError("failed to create campaign")
	}

	return s.reload(ctx, campaign)
}

func (s *campaignService) Get(ctx context.Context, id int64) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get campaign", zap.Error(err), zap.Int64("campaign_id", id))
		return nil, NewInternalError("failed to get campaign")
	}
	if campaign == nil {
		return nil, NewNotFoundError("Campaign not found")
	}
	return campaign, nil
}

func (s *campaignService) List(ctx context.Context) ([]*models.Campaign, error) {
	campaigns, err := s.campaignRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list campaigns", zap.Error(err))
		return nil, NewInternalError("failed to list campaigns")
	}
	return campaigns, nil
}

func (s *campaignService) Update(ctx context.Context, actor *models.User, id int64, req *UpdateCampaignRequest) (*models.Campaign, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, newRequestValidationError(err)
	}

	campaign, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManageCampaign(actor, campaign) {
		return nil, NewForbiddenError("Not authorized to update this campaign")
	}

	if req.Name != nil {
		campaign.Name = strings.TrimSpace(*req.Name)
	}
	if req.RequestID != nil {
		if !req.RequestID.Valid {
			return nil, NewValidationError("Invalid value for field: request_id", nil)
		}
		if err := s.ensureRequestExists(ctx, req.RequestID.Value); err != nil {
			return nil, err
		}
		campaign.RequestID = req.RequestID.Value
	}
	if req.Date != nil {
		date, err := models.ParseDate(*req.Date)
		if err != nil {
			return nil, NewValidationError("Invalid date format. Use YYYY-MM-DD", err)
		}
		campaign.Date = date
	}
	if req.NumVolunteers != nil {
		if !req.NumVolunteers.Valid || req.NumVolunteers.Value < 0 {
			return nil, NewValidationError("Invalid value for field: num_volunteers", nil)
		}
		campaign.NumVolunteers = int(req.NumVolunteers.Value)
	}
	if req.Timing != nil {
		campaign.Timing = *req.Timing
	}
	if req.Description != nil {
		campaign.Description = *req.Description
	}
	if req.Status != nil {
		if !models.IsValidCampaignStatus(*req.Status) {
			return nil, NewValidationError("Invalid status", nil)
		}
		campaign.Status = *req.Status
	}

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		if errors.Is(err, repositories.ErrCampaignNotFound) {
			return nil, NewNotFoundError("Campaign not found")
		}
		s.logger.Error("Failed to update campaign", zap.Error(err), zap.Int64("campaign_id", id))
		return nil, NewInternalError("failed to update campaign")
	}

	return s.reload(ctx, campaign)
}

func (s *campaignService) Delete(ctx context.Context, actor *models.User, id int64) error {
	campaign, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanManageCampaign(actor, campaign) {
		return NewForbiddenError("Not authorized to delete this campaign")
	}

	if err := s.campaignRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrCampaignNotFound) {
			return NewNotFoundError("Campaign not found")
		}
		s.logger.Error("Failed to delete campaign", zap.Error(err), zap.Int64("campaign_id", id))
		return NewInternalError("failed to delete campaign")
	}
	return nil
}

func (s *campaignService) Complete(ctx context.Context, actor *models.User, id int64, req *CompleteCampaignRequest) (*models.Campaign, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, newRequestValidationError(err)
	}

	campaign, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManageCampaign(actor, campaign) {
		return nil, NewForbiddenError("Not authorized to complete this campaign")
	}

	var details models.CompletionDetails
	if req.ActualParticipants != nil {
		if !req.ActualParticipants.Valid || req.ActualParticipants.Value < 0 {
			return nil, NewValidationError("Invalid value for field: actual_participants", nil)
		}
		n := int(req.ActualParticipants.Value)
		details.ActualParticipants = &n
	}
	details.WasteCollected = req.WasteCollected
	details.ImageLink = req.ImageLink
	details.CompletionNotes = req.CompletionNotes

	if req.Image != nil {
		if s.images == nil {
			return nil, NewServiceUnavailableError("Image uploads are not configured")
		}
		url, err := s.images.UploadImage(ctx, req.Image)
		if err != nil {
			if serviceErr := GetServiceError(err); serviceErr.Type != ErrorTypeInternal {
				return nil, serviceErr
			}
			s.logger.Error("Failed to upload completion image", zap.Error(err), zap.Int64("campaign_id", id))
			return nil, NewInternalError("failed to upload image")
		}
		details.ImageLink = &url
	}

	completed, err := s.campaignRepo.Complete(ctx, id, details)
	if err != nil {
		if errors.Is(err, repositories.ErrCampaignNotFound) {
			return nil, NewNotFoundError("Campaign not found")
		}
		s.logger.Error("Failed to complete campaign", zap.Error(err), zap.Int64("campaign_id", id))
		return nil, NewInternalError("Failed to complete campaign")
	}

	s.logger.Info("Campaign completed",
		zap.Int64("campaign_id", id),
		zap.Int64("actor_id", actor.ID),
	)
	return completed, nil
}

func (s *campaignService) ensureRequestExists(ctx context.Context, requestID int64) error {
	exists, err := s.requestRepo.Exists(ctx, requestID)
	if err != nil {
		s.logger.Error("Failed to check request", zap.Error(err), zap.Int64("request_id", requestID))
		return NewInternalError("failed to check request")
	}
	if !exists {
		return NewValidationError("Referenced waste request does not exist", nil)
	}
	return nil
}

// reload returns the stored campaign with its derived columns, falling
// back to the in-memory copy if the read fails.
func (s *campaignService) reload(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	fresh, err := s.campaignRepo.GetByID(ctx, campaign.ID)
	if err != nil || fresh == nil {
		s.logger.Warn("Failed to reload campaign", zap.Error(err), zap.Int64("campaign_id", campaign.ID))
		return campaign, nil
	}
	return fresh, nil
}
