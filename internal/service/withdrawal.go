package service

import (
	"context"

	"github.com/Evgen-Mutagen/tapcash/internal/model"
	"github.com/Evgen-Mutagen/tapcash/internal/repository"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
)

type WithdrawalService interface {
	GetWithdrawals(ctx context.Context, userID int64, limit int) ([]*model.Withdrawal, error)
}

type withdrawalService struct {
	withdrawalRepo repository.WithdrawalRepository
}

func NewWithdrawalService(withdrawalRepo repository.WithdrawalRepository) WithdrawalService {
	return &withdrawalService{withdrawalRepo: withdrawalRepo}
}

func (s *withdrawalService) GetWithdrawals(ctx context.Context, userID int64, limit int) ([]*model.Withdrawal, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.withdrawalRepo.GetByUserID(ctx, userID, limit)
}
