package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Evgen-Mutagen/tapcash/internal/core"
	"github.com/Evgen-Mutagen/tapcash/internal/payout"
	"github.com/Evgen-Mutagen/tapcash/internal/util/email"

	"github.com/go-chi/render"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PayoutGateway is a payout executor that can tell whether it has credentials.
type PayoutGateway interface {
	core.PayoutExecutor
	Configured() bool
}

// PayoutController serves the standalone payout function: any path, POST to
// pay out, OPTIONS for preflight.
type PayoutController struct {
	gateway PayoutGateway
	logger  *zap.Logger
}

func NewPayoutController(gateway PayoutGateway, logger *zap.Logger) *PayoutController {
	return &PayoutController{
		gateway: gateway,
		logger:  logger,
	}
}

// userID accepts either a JSON string or number.
type userID string

func (u *userID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*u = userID(s)
		return nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return err
	}
	*u = userID(n.String())
	return nil
}

type payoutRequest struct {
	Email  string           `json:"email"`
	Amount *decimal.Decimal `json:"amount"`
	Coins  *int64           `json:"coins"`
	UserID userID           `json:"userId"`
}

func (c *PayoutController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
	case http.MethodPost:
		c.createPayout(w, r)
	default:
		writeJSONError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (c *PayoutController) createPayout(w http.ResponseWriter, r *http.Request) {
	var request payoutRequest
	if err := render.DecodeJSON(r.Body, &request); err != nil {
		c.logger.Debug("Invalid payout request body", zap.Error(err))
		writeJSONError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	request.Email = strings.TrimSpace(request.Email)
	if request.Email == "" || request.Amount == nil || request.Amount.IsZero() ||
		request.Coins == nil || *request.Coins == 0 || request.UserID == "" {
		writeJSONError(w, r, http.StatusBadRequest, "Missing required fields: email, amount, coins, userId")
		return
	}
	if !email.Validate(request.Email) {
		writeJSONError(w, r, http.StatusBadRequest, "Invalid email format")
		return
	}
	if request.Amount.IsNegative() || *request.Coins < 0 {
		writeJSONError(w, r, http.StatusBadRequest, "Amount and coins must be positive")
		return
	}

	if !c.gateway.Configured() {
		c.logger.Error("PayPal credentials not configured")
		writeJSONError(w, r, http.StatusInternalServerError, "PayPal credentials not configured")
		return
	}

	amount := *request.Amount
	// a payout in flight is finished and logged even if the caller hangs up
	result, err := c.gateway.ExecuteCorrelatedPayout(context.WithoutCancel(r.Context()), core.PayoutRequest{
		UserID: string(request.UserID),
		Email:  request.Email,
		Amount: amount,
		Coins:  *request.Coins,
	})
	if err != nil {
		c.logger.Error("Payout request failed",
			zap.String("user_id", string(request.UserID)),
			zap.Error(err))

		switch {
		case errors.Is(err, payout.ErrCredentialsMissing):
			writeJSONError(w, r, http.StatusInternalServerError, "PayPal credentials not configured")
		case errors.Is(err, payout.ErrAuthenticationFailed):
			writeJSONError(w, r, http.StatusInternalServerError, "Failed to authenticate with PayPal")
		case errors.Is(err, payout.ErrPayoutFailed):
			writeJSONError(w, r, http.StatusInternalServerError, "Failed to process payout")
		default:
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{
				"error":   "Internal server error",
				"details": err.Error(),
			})
		}
		return
	}

	c.logger.Info("Payout sent",
		zap.String("user_id", string(request.UserID)),
		zap.String("batch_id", result.BatchID),
		zap.String("status", result.Status))

	render.JSON(w, r, map[string]any{
		"success": true,
		"batchId": result.BatchID,
		"status":  result.Status,
		"message": fmt.Sprintf("Payout of $%s sent to %s", amount.StringFixed(2), request.Email),
	})
}

func writeJSONError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": message})
}
