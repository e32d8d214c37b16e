package service

import (
	"context"
	"testing"
	"time"

	"github.com/Evgen-Mutagen/tapcash/internal/model"
	"github.com/Evgen-Mutagen/tapcash/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestWithdrawalHistoryLimits(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewWithdrawalService(store)
	ctx := context.Background()

	list, err := svc.GetWithdrawals(ctx, 1, 0)
	if err != nil {
		t.Fatalf("GetWithdrawals: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty history, got %d", len(list))
	}

	store.AddCoins(ctx, 1, int64(MaxHistoryLimit+10)*5_000)
	start := time.Now()
	for i := 0; i < MaxHistoryLimit+10; i++ {
		if _, err := store.Apply(ctx, &model.Withdrawal{
			ID:         uuid.New(),
			UserID:     1,
			Amount:     decimal.NewFromInt(1),
			CoinsSpent: 5_000,
			Status:     model.WithdrawalCompleted,
			CreatedAt:  start.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}

	if list, _ = svc.GetWithdrawals(ctx, 1, 0); len(list) != DefaultHistoryLimit {
		t.Errorf("expected default limit %d, got %d", DefaultHistoryLimit, len(list))
	}
	if list, _ = svc.GetWithdrawals(ctx, 1, 1000); len(list) != MaxHistoryLimit {
		t.Errorf("expected max limit %d, got %d", MaxHistoryLimit, len(list))
	}
	if list, _ = svc.GetWithdrawals(ctx, 1, 3); len(list) != 3 {
		t.Errorf("expected 3, got %d", len(list))
	}
}
