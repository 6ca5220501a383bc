package services

import (
	"cmp"
	"context"

	"cleanearth/internal/models"
	"cleanearth/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

type leaderboardService struct {
	participationRepo repositories.ParticipationRepository
	logger            *zap.Logger
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(participationRepo repositories.ParticipationRepository, logger *zap.Logger) LeaderboardService {
	return &leaderboardService{participationRepo: participationRepo, logger: logger}
}

// Leaderboard scores each volunteer by completed campaigns, highest first
// and lowest id first on ties.
func (s *leaderboardService) Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	entries, err := s.participationRepo.Leaderboard(ctx)
	if err != nil {
		s.logger.Error("Failed to build leaderboard", zap.Error(err))
		return nil, NewInternalError("failed to build leaderboard")
	}

	for _, e := range entries {
		e.Points = e.CampsCompleted * models.PointsPerCompletedCampaign
	}

	slices.SortStableFunc(entries, func(a, b *models.LeaderboardEntry) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return entries, nil
}
