package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Evgen-Mutagen/tapcash/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Runs against a real Postgres when TEST_DATABASE_URI is set.
func openTestDatabase(t *testing.T) *Database {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URI")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URI not set")
	}
	db, err := NewDatabase(context.Background(), DatabaseConfig{DSN: dsn})
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgresRedeemFlow(t *testing.T) {
	db := openTestDatabase(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	stats := NewStatsRepository(db)
	withdrawals := NewWithdrawalRepository(db)

	login := fmt.Sprintf("pg-test-%d", time.Now().UnixNano())
	u := &model.User{Login: login, PasswordHash: "x"}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := users.Create(ctx, &model.User{Login: login, PasswordHash: "x"}); !errors.Is(err, ErrDuplicateLogin) {
		t.Fatalf("expected ErrDuplicateLogin, got %v", err)
	}

	st, err := stats.GetOrCreate(ctx, u.ID)
	if err != nil || st.Coins != 0 {
		t.Fatalf("GetOrCreate = %+v, %v", st, err)
	}
	if st, err = stats.AddCoins(ctx, u.ID, 10_000); err != nil || st.Coins != 10_000 {
		t.Fatalf("AddCoins = %+v, %v", st, err)
	}

	w := &model.Withdrawal{
		ID:          uuid.New(),
		UserID:      u.ID,
		Amount:      decimal.NewFromInt(5),
		CoinsSpent:  10_000,
		PayPalEmail: "a@b.com",
		Status:      model.WithdrawalCompleted,
		BatchID:     "SIM-1",
		CreatedAt:   time.Now(),
	}
	st, err = withdrawals.Apply(ctx, w)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if st.Coins != 0 || !st.TotalWithdrawn.Equal(decimal.NewFromInt(5)) {
		t.Errorf("unexpected stats %+v", st)
	}

	again := *w
	again.ID = uuid.New()
	if _, err := withdrawals.Apply(ctx, &again); !errors.Is(err, ErrInsufficientCoins) {
		t.Fatalf("expected ErrInsufficientCoins, got %v", err)
	}

	list, err := withdrawals.GetByUserID(ctx, u.ID, 50)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if len(list) != 1 || list[0].ID != w.ID || list[0].Status != model.WithdrawalCompleted {
		t.Fatalf("unexpected withdrawals %+v", list)
	}
}
