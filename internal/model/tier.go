package model

import "github.com/shopspring/decimal"

// RedeemTier is a fixed coin-to-dollar redemption rate.
type RedeemTier struct {
	Coins   int64           `json:"coins"`
	Amount  decimal.Decimal `json:"amount"`
	Label   string          `json:"label"`
	Popular bool            `json:"popular"`
}

// Tiers is ordered by coin cost; both coins and amount strictly increase.
var Tiers = []RedeemTier{
	{Coins: 5_000, Amount: decimal.NewFromInt(1), Label: "$1"},
	{Coins: 10_000, Amount: decimal.NewFromInt(5), Label: "$5", Popular: true},
	{Coins: 100_000, Amount: decimal.NewFromInt(20), Label: "$20"},
	{Coins: 1_000_000, Amount: decimal.NewFromInt(100), Label: "$100"},
}

// TierByCoins looks a tier up by its coin cost.
func TierByCoins(coins int64) (RedeemTier, bool) {
	for _, t := range Tiers {
		if t.Coins == coins {
			return t, true
		}
	}
	return RedeemTier{}, false
}

func Affordable(balance, cost int64) bool {
	return balance >= cost
}

// Progress is the fraction of cost covered by balance, capped at 1.
func Progress(balance, cost int64) float64 {
	if cost <= 0 {
		return 1
	}
	if balance <= 0 {
		return 0
	}
	p := float64(balance) / float64(cost)
	if p > 1 {
		return 1
	}
	return p
}

// TierView is a tier annotated with the caller's affordability.
type TierView struct {
	RedeemTier
	Affordable bool    `json:"affordable"`
	Progress   float64 `json:"progress"`
}

func TierViews(balance int64) []TierView {
	views := make([]TierView, 0, len(Tiers))
	for _, t := range Tiers {
		views = append(views, TierView{
			RedeemTier: t,
			Affordable: Affordable(balance, t.Coins),
			Progress:   Progress(balance, t.Coins),
		})
	}
	return views
}
