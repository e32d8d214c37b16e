package service

import (
	"context"

	"github.com/Evgen-Mutagen/tapcash/internal/model"
	"github.com/Evgen-Mutagen/tapcash/internal/repository"
)

// CoinsPerTap is credited on every tap, with no upper bound.
const CoinsPerTap = 100

type StatsService interface {
	GetStats(ctx context.Context, userID int64) (*model.UserStats, error)
	Tap(ctx context.Context, userID int64) (*model.UserStats, error)
	Tiers(ctx context.Context, userID int64) ([]model.TierView, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
}

func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) GetStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	return s.statsRepo.GetOrCreate(ctx, userID)
}

func (s *statsService) Tap(ctx context.Context, userID int64) (*model.UserStats, error) {
	return s.statsRepo.AddCoins(ctx, userID, CoinsPerTap)
}

func (s *statsService) Tiers(ctx context.Context, userID int64) ([]model.TierView, error) {
	stats, err := s.statsRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return model.TierViews(stats.Coins), nil
}
