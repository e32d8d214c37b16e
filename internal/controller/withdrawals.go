package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Evgen-Mutagen/tapcash/internal/middlewareinternal"
	"github.com/Evgen-Mutagen/tapcash/internal/service"

	"github.com/go-chi/render"
	"go.uber.org/zap"
)

type WithdrawalController struct {
	redemptionService service.RedemptionService
	withdrawalService service.WithdrawalService
	logger            *zap.Logger
}

func NewWithdrawalController(
	redemptionService service.RedemptionService,
	withdrawalService service.WithdrawalService,
	logger *zap.Logger,
) *WithdrawalController {
	return &WithdrawalController{
		redemptionService: redemptionService,
		withdrawalService: withdrawalService,
		logger:            logger,
	}
}

func (c *WithdrawalController) Redeem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewareinternal.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var request struct {
		Coins int64  `json:"coins"`
		Email string `json:"email"`
	}
	if err := render.DecodeJSON(r.Body, &request); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	result, err := c.redemptionService.Redeem(r.Context(), userID, request.Coins, request.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			http.Error(w, "Invalid email", http.StatusBadRequest)
		case errors.Is(err, service.ErrUnknownTier):
			http.Error(w, "Unknown redeem tier", http.StatusBadRequest)
		case errors.Is(err, service.ErrInsufficientCoins):
			http.Error(w, "Insufficient coins", http.StatusPaymentRequired)
		case errors.Is(err, service.ErrRedemptionInProgress):
			http.Error(w, "Redemption already in progress", http.StatusConflict)
		case errors.Is(err, service.ErrPayoutFailed):
			http.Error(w, "Payout failed", http.StatusBadGateway)
		case errors.Is(err, service.ErrWithdrawalNotRecorded):
			c.logger.Error("Redemption paid but not recorded", zap.Int64("user_id", userID), zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		default:
			c.logger.Error("Redemption failed", zap.Int64("user_id", userID), zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, r, result)
}

func (c *WithdrawalController) GetWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewareinternal.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	withdrawals, err := c.withdrawalService.GetWithdrawals(r.Context(), userID, limit)
	if err != nil {
		c.logger.Error("Failed to get withdrawals", zap.Int64("user_id", userID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if len(withdrawals) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	render.JSON(w, r, withdrawals)
}
