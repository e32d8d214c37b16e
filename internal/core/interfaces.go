package core

import (
	"context"

	"github.com/shopspring/decimal"
)

type (
	// PayoutRequest describes a single-recipient cash payout.
	// CorrelationID, when set, is sent to the gateway as the batch id so a
	// resubmitted request is recognised as a duplicate.
	PayoutRequest struct {
		CorrelationID string
		UserID        string
		Email         string
		Amount        decimal.Decimal
		Coins         int64
	}

	PayoutResult struct {
		BatchID string
		Status  string
	}

	PayoutExecutor interface {
		ExecuteCorrelatedPayout(ctx context.Context, req PayoutRequest) (*PayoutResult, error)
	}
)
