package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "pending"
	WithdrawalCompleted WithdrawalStatus = "completed"
	WithdrawalFailed    WithdrawalStatus = "failed"
)

type Withdrawal struct {
	ID          uuid.UUID        `json:"id"`
	UserID      int64            `json:"-"`
	Amount      decimal.Decimal  `json:"amount"`
	CoinsSpent  int64            `json:"coins_spent"`
	PayPalEmail string           `json:"paypal_email"`
	Status      WithdrawalStatus `json:"status"`
	BatchID     string           `json:"batch_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}
