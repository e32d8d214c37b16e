package controller

import (
	"net/http"

	"github.com/Evgen-Mutagen/tapcash/internal/middlewareinternal"
	"github.com/Evgen-Mutagen/tapcash/internal/model"
	"github.com/Evgen-Mutagen/tapcash/internal/service"

	"github.com/go-chi/render"
	"go.uber.org/zap"
)

type StatsController struct {
	statsService service.StatsService
	logger       *zap.Logger
}

func NewStatsController(statsService service.StatsService, logger *zap.Logger) *StatsController {
	return &StatsController{
		statsService: statsService,
		logger:       logger,
	}
}

func (c *StatsController) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewareinternal.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	stats, err := c.statsService.GetStats(r.Context(), userID)
	if err != nil {
		c.logger.Error("Failed to get stats", zap.Int64("user_id", userID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, stats)
}

func (c *StatsController) Tap(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewareinternal.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	stats, err := c.statsService.Tap(r.Context(), userID)
	if err != nil {
		c.logger.Error("Failed to register tap", zap.Int64("user_id", userID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, stats)
}

// ListTiers serves the static tier table.
func (c *StatsController) ListTiers(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, model.Tiers)
}

func (c *StatsController) GetTiers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewareinternal.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tiers, err := c.statsService.Tiers(r.Context(), userID)
	if err != nil {
		c.logger.Error("Failed to get tiers", zap.Int64("user_id", userID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, tiers)
}
