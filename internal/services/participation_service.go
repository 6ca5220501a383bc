// file: internal/services/participation_service.go
package services

import (
	"context"
	"errors"

	"cleanearth/internal/models"
	"cleanearth/internal/repositories"

	"go.uber.org/zap"
)

type participationService struct {
	participationRepo repositories.ParticipationRepository
	campaignRepo      repositories.CampaignRepository
	logger            *zap.Logger
}

// NewParticipationService creates a new participation service
func NewParticipationService(
	participationRepo repositories.ParticipationRepository,
	campaignRepo repositories.CampaignRepository,
	logger *zap.Logger,
) ParticipationService {
	return &participationService{
		participationRepo: participationRepo,
		campaignRepo:      campaignRepo,
		logger:            logger,
	}
}

func (s *participationService) Join(ctx context.Context, actor *models.User, campaignID int64) (*JoinResponse, error) {
	if !CanJoinAsVolunteer(actor) {
		return nil, NewForbiddenError("Only volunteers can join campaigns")
	}
	return s.join(ctx, actor, campaignID, "Already joined this campaign")
}

func (s *participationService) Participate(ctx context.Context, actor *models.User, campaignID int64) (*JoinResponse, error) {
	return s.join(ctx, actor, campaignID, "Already participating in this camp")
}

func (s *participationService) join(ctx context.Context, actor *models.User, campaignID int64, duplicateMsg string) (*JoinResponse, error) {
	result, err := s.participationRepo.Join(ctx, campaignID, actor.ID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrCampaignNotFound):
			return nil, NewNotFoundError("Campaign not found")
		case errors.Is(err, repositories.ErrCampaignClosed):
			return nil, NewJoinConflictError("Cannot join campaign that is not active", "CAMPAIGN_CLOSED")
		case errors.Is(err, repositories.ErrAlreadyJoined):
			return nil, NewJoinConflictError(duplicateMsg, "ALREADY_JOINED")
		case errors.Is(err, repositories.ErrCampaignFull):
			return nil, NewJoinConflictError("This camp is already full", "CAMPAIGN_FULL")
		}
		s.logger.Error("Failed to join campaign",
			zap.Error(err),
			zap.Int64("campaign_id", campaignID),
			zap.Int64("user_id", actor.ID),
		)
		return nil, NewInternalError("Failed to process request")
	}

	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		// The join is committed; report it even if the detail read fails
		s.logger.Warn("Failed to load joined campaign", zap.Error(err), zap.Int64("campaign_id", campaignID))
	}

	spotsLeft := result.Capacity - result.ParticipantCount
	if spotsLeft < 0 {
		spotsLeft = 0
	}

	return &JoinResponse{
		Message:            "Successfully joined the campaign",
		ParticipationCount: result.ParticipantCount,
		SpotsLeft:          spotsLeft,
		CampDetails:        campaign,
		Campaign:           campaign,
	}, nil
}

func (s *participationService) Leave(ctx context.Context, actor *models.User, campaignID int64) error {
	left, err := s.participationRepo.Leave(ctx, campaignID, actor.ID)
	if err != nil {
		s.logger.Error("Failed to leave campaign", zap.Error(err), zap.Int64("campaign_id", campaignID))
		return NewInternalError("Failed to process request")
	}
	if !left {
		return NewNotFoundError("You have not joined this campaign")
	}
	return nil
}

func (s *participationService) Volunteers(ctx context.Context, actor *models.User, campaignID int64) ([]*models.CampaignVolunteer, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		s.logger.Error("Failed to get campaign", zap.Error(err), zap.Int64("campaign_id", campaignID))
		return nil, NewInternalError("failed to get campaign")
	}
	if campaign == nil {
		return nil, NewNotFoundError("Campaign not found")
	}
	if !CanManageCampaign(actor, campaign) {
		return nil, NewForbiddenError("Not authorized to view volunteers for this campaign")
	}

	volunteers, err := s.participationRepo.ListByCampaign(ctx, campaignID)
	if err != nil {
		s.logger.Error("Failed to list volunteers", zap.Error(err), zap.Int64("campaign_id", campaignID))
		return nil, NewInternalError("failed to list volunteers")
	}
	return volunteers, nil
}

func (s *participationService) CampsNearUser(ctx context.Context, actor *models.User) ([]*models.CampaignListing, error) {
	return s.campsNear(ctx, actor)
}

func (s *participationService) CampsNearVolunteer(ctx context.Context, actor *models.User) ([]*models.CampaignListing, error) {
	if !CanBrowseVolunteerArea(actor) {
		return nil, NewForbiddenError("Not authorized")
	}
	return s.campsNear(ctx, actor)
}

func (s *participationService) campsNear(ctx context.Context, actor *models.User) ([]*models.CampaignListing, error) {
	if actor.Pincode == "" {
		return nil, NewValidationError("No pincode associated with your account", nil)
	}

	listings, err := s.campaignRepo.ListPlannedByPincode(ctx, actor.Pincode, actor.ID)
	if err != nil {
		s.logger.Error("Failed to list nearby campaigns", zap.Error(err))
		return nil, NewInternalError("Failed to process request")
	}
	return listings, nil
}
