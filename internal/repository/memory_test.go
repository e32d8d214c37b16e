package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Evgen-Mutagen/tapcash/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	_ UserRepository       = (*MemoryStore)(nil)
	_ StatsRepository      = (*MemoryStore)(nil)
	_ WithdrawalRepository = (*MemoryStore)(nil)
)

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u := &model.User{Login: "player", PasswordHash: "hash"}
	if err := s.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("expected id to be assigned")
	}
	if err := s.Create(ctx, &model.User{Login: "player"}); !errors.Is(err, ErrDuplicateLogin) {
		t.Fatalf("expected ErrDuplicateLogin, got %v", err)
	}

	got, err := s.GetByLogin(ctx, "player")
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetByLogin = %+v, %v", got, err)
	}
	if missing, _ := s.GetByID(ctx, 999); missing != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestMemoryStatsLazyAndTap(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	st, err := s.GetOrCreate(ctx, 1)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if st.Coins != 0 || !st.TotalWithdrawn.IsZero() {
		t.Errorf("expected zero stats, got %+v", st)
	}

	again, _ := s.GetOrCreate(ctx, 1)
	if again.ID != st.ID {
		t.Error("GetOrCreate must not create a second row")
	}

	st, _ = s.AddCoins(ctx, 1, 100)
	st, _ = s.AddCoins(ctx, 1, 100)
	if st.Coins != 200 {
		t.Errorf("expected 200 coins, got %d", st.Coins)
	}
}

func TestMemoryApplyWithdrawal(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.AddCoins(ctx, 1, 10_000)

	w := &model.Withdrawal{
		ID:          uuid.New(),
		UserID:      1,
		Amount:      decimal.NewFromInt(5),
		CoinsSpent:  10_000,
		PayPalEmail: "a@b.com",
		Status:      model.WithdrawalCompleted,
		CreatedAt:   time.Now(),
	}
	st, err := s.Apply(ctx, w)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if st.Coins != 0 || !st.TotalWithdrawn.Equal(decimal.NewFromInt(5)) {
		t.Errorf("unexpected stats %+v", st)
	}

	w2 := *w
	w2.ID = uuid.New()
	if _, err := s.Apply(ctx, &w2); !errors.Is(err, ErrInsufficientCoins) {
		t.Fatalf("expected ErrInsufficientCoins, got %v", err)
	}

	list, _ := s.GetByUserID(ctx, 1, 50)
	if len(list) != 1 || list[0].ID != w.ID {
		t.Fatalf("expected the single applied withdrawal, got %+v", list)
	}
}

func TestMemoryWithdrawalsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.AddCoins(ctx, 1, 50_000)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		s.Apply(ctx, &model.Withdrawal{
			ID:         uuid.New(),
			UserID:     1,
			Amount:     decimal.NewFromInt(1),
			CoinsSpent: 5_000,
			Status:     model.WithdrawalCompleted,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		})
	}

	list, _ := s.GetByUserID(ctx, 1, 2)
	if len(list) != 2 {
		t.Fatalf("expected limit 2, got %d", len(list))
	}
	if !list[0].CreatedAt.After(list[1].CreatedAt) {
		t.Error("expected newest first")
	}
	if other, _ := s.GetByUserID(ctx, 2, 10); len(other) != 0 {
		t.Error("withdrawals leaked across users")
	}
}
