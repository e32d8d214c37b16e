package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Evgen-Mutagen/tapcash/internal/core"
	"github.com/Evgen-Mutagen/tapcash/internal/model"
	"github.com/Evgen-Mutagen/tapcash/internal/repository"
	"github.com/Evgen-Mutagen/tapcash/internal/util/email"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUnknownTier           = errors.New("unknown redeem tier")
	ErrInvalidEmail          = errors.New("invalid email")
	ErrInsufficientCoins     = errors.New("insufficient coins")
	ErrRedemptionInProgress  = errors.New("redemption already in progress")
	ErrPayoutFailed          = errors.New("payout failed")
	ErrWithdrawalNotRecorded = errors.New("payout sent but withdrawal not recorded")
)

type RedeemResult struct {
	Withdrawal *model.Withdrawal `json:"withdrawal"`
	Stats      *model.UserStats  `json:"stats"`
}

type RedemptionService interface {
	Redeem(ctx context.Context, userID int64, tierCoins int64, paypalEmail string) (*RedeemResult, error)
}

type redemptionService struct {
	statsRepo      repository.StatsRepository
	withdrawalRepo repository.WithdrawalRepository
	executor       core.PayoutExecutor
	logger         *zap.Logger
	now            func() time.Time

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

func NewRedemptionService(
	statsRepo repository.StatsRepository,
	withdrawalRepo repository.WithdrawalRepository,
	executor core.PayoutExecutor,
	logger *zap.Logger,
) RedemptionService {
	return &redemptionService{
		statsRepo:      statsRepo,
		withdrawalRepo: withdrawalRepo,
		executor:       executor,
		logger:         logger,
		now:            time.Now,
		inFlight:       make(map[int64]struct{}),
	}
}

// Redeem validates the request, pays out through the executor and then debits
// the user's coins together with appending a completed withdrawal. Nothing is
// persisted unless the payout succeeds.
func (s *redemptionService) Redeem(ctx context.Context, userID int64, tierCoins int64, paypalEmail string) (*RedeemResult, error) {
	tier, ok := model.TierByCoins(tierCoins)
	if !ok {
		return nil, ErrUnknownTier
	}

	paypalEmail = strings.TrimSpace(paypalEmail)
	if !email.Validate(paypalEmail) {
		return nil, ErrInvalidEmail
	}

	if !s.acquire(userID) {
		return nil, ErrRedemptionInProgress
	}
	defer s.release(userID)

	stats, err := s.statsRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	if !model.Affordable(stats.Coins, tier.Coins) {
		return nil, ErrInsufficientCoins
	}

	withdrawal := &model.Withdrawal{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      tier.Amount,
		CoinsSpent:  tier.Coins,
		PayPalEmail: paypalEmail,
		Status:      model.WithdrawalPending,
	}

	// Once the gateway is called the attempt runs to completion: a client
	// disconnect must not stop the debit after money has left.
	payCtx := context.WithoutCancel(ctx)

	payout, err := s.executor.ExecuteCorrelatedPayout(payCtx, core.PayoutRequest{
		CorrelationID: withdrawal.ID.String(),
		UserID:        strconv.FormatInt(userID, 10),
		Email:         paypalEmail,
		Amount:        tier.Amount,
		Coins:         tier.Coins,
	})
	if err != nil {
		s.logger.Warn("Payout failed",
			zap.Int64("user_id", userID),
			zap.String("withdrawal_id", withdrawal.ID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPayoutFailed, err)
	}

	withdrawal.Status = model.WithdrawalCompleted
	withdrawal.BatchID = payout.BatchID
	withdrawal.CreatedAt = s.now()

	updated, err := s.withdrawalRepo.Apply(payCtx, withdrawal)
	if err != nil {
		// The money has left; only the logs tie this batch to the user now.
		s.logger.Error("Payout sent but withdrawal not recorded",
			zap.Int64("user_id", userID),
			zap.String("withdrawal_id", withdrawal.ID.String()),
			zap.String("batch_id", payout.BatchID),
			zap.String("amount", withdrawal.Amount.StringFixed(2)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrWithdrawalNotRecorded, err)
	}

	s.logger.Info("Withdrawal completed",
		zap.Int64("user_id", userID),
		zap.String("withdrawal_id", withdrawal.ID.String()),
		zap.String("batch_id", payout.BatchID),
		zap.String("batch_status", payout.Status),
		zap.Int64("coins", tier.Coins))

	return &RedeemResult{Withdrawal: withdrawal, Stats: updated}, nil
}

func (s *redemptionService) acquire(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[userID]; busy {
		return false
	}
	s.inFlight[userID] = struct{}{}
	return true
}

func (s *redemptionService) release(userID int64) {
	s.mu.Lock()
	delete(s.inFlight, userID)
	s.mu.Unlock()
}
