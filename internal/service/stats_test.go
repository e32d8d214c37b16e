package service

import (
	"context"
	"testing"

	"github.com/Evgen-Mutagen/tapcash/internal/repository"
)

func TestStatsLazyCreate(t *testing.T) {
	svc := NewStatsService(repository.NewMemoryStore())

	st, err := svc.GetStats(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if st.UserID != 42 || st.Coins != 0 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestTapAddsCoins(t *testing.T) {
	svc := NewStatsService(repository.NewMemoryStore())
	ctx := context.Background()

	var coins int64
	for i := 0; i < 3; i++ {
		st, err := svc.Tap(ctx, 1)
		if err != nil {
			t.Fatalf("Tap: %v", err)
		}
		coins = st.Coins
	}
	if coins != 3*CoinsPerTap {
		t.Errorf("expected %d coins, got %d", 3*CoinsPerTap, coins)
	}
}

func TestTiersReflectBalance(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewStatsService(store)
	ctx := context.Background()
	store.AddCoins(ctx, 1, 5_000)

	views, err := svc.Tiers(ctx, 1)
	if err != nil {
		t.Fatalf("Tiers: %v", err)
	}
	if !views[0].Affordable || views[1].Affordable {
		t.Errorf("unexpected affordability %+v", views)
	}
	if views[1].Progress != 0.5 {
		t.Errorf("expected progress 0.5, got %v", views[1].Progress)
	}
}
