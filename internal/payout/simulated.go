package payout

import (
	"context"
	"time"

	"github.com/Evgen-Mutagen/tapcash/internal/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultSimulatedDelay = 2 * time.Second

// Simulated pretends to pay out after a fixed pause without touching the network.
type Simulated struct {
	delay  time.Duration
	logger *zap.Logger
}

func NewSimulated(delay time.Duration, logger *zap.Logger) *Simulated {
	return &Simulated{delay: delay, logger: logger}
}

// ExecuteCorrelatedPayout always completes. A real gateway cannot take a
// payout back once it has been sent, so cancellation is not observed here
// either.
func (s *Simulated) ExecuteCorrelatedPayout(_ context.Context, req core.PayoutRequest) (*core.PayoutResult, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	id := req.CorrelationID
	if id == "" {
		id = uuid.NewString()
	}
	result := &core.PayoutResult{BatchID: "SIM-" + id, Status: "SUCCESS"}

	s.logger.Info("Simulated payout",
		zap.String("user_id", req.UserID),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("batch_id", result.BatchID))

	return result, nil
}
