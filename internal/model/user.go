package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStats is the per-user game state. Created lazily on first access.
type UserStats struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	Coins          int64           `json:"coins"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
