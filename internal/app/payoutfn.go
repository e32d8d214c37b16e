package app

import (
	"github.com/Evgen-Mutagen/tapcash/internal/controller"
	"github.com/Evgen-Mutagen/tapcash/internal/middlewareinternal"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewPayoutFunction builds the standalone payout service backed by the live
// PayPal client. Missing credentials surface per request, not at startup.
func NewPayoutFunction(cfg *Config, logger *zap.Logger) *App {
	client := newPayPalClient(cfg, logger)
	if !client.Configured() {
		logger.Warn("PAYPAL_CLIENT_ID / PAYPAL_CLIENT_SECRET not set, payouts will fail")
	}
	return NewPayoutFunctionWithGateway(cfg, logger, client)
}

func NewPayoutFunctionWithGateway(cfg *Config, logger *zap.Logger, gateway controller.PayoutGateway) *App {
	app := &App{
		cfg:    cfg,
		Router: chi.NewRouter(),
		Logger: logger,
	}

	app.Router.Use(middleware.RequestID)
	app.Router.Use(middleware.RealIP)
	app.Router.Use(middleware.Logger)
	app.Router.Use(middlewareinternal.CORS)
	app.Router.Use(middlewareinternal.RecoverJSON(logger))

	payoutController := controller.NewPayoutController(gateway, logger)
	app.Router.Handle("/", payoutController)
	app.Router.Handle("/*", payoutController)

	return app
}
