package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Evgen-Mutagen/tapcash/internal/controller"
	"github.com/Evgen-Mutagen/tapcash/internal/core"
	"github.com/Evgen-Mutagen/tapcash/internal/middlewareinternal"
	"github.com/Evgen-Mutagen/tapcash/internal/payout"
	"github.com/Evgen-Mutagen/tapcash/internal/repository"
	"github.com/Evgen-Mutagen/tapcash/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Repositories groups the persistence collaborators the game needs.
type Repositories struct {
	Users       repository.UserRepository
	Stats       repository.StatsRepository
	Withdrawals repository.WithdrawalRepository
}

type App struct {
	cfg    *Config
	Router *chi.Mux
	db     *repository.Database
	Logger *zap.Logger
	Server *http.Server
}

// New opens storage, picks the payout executor and builds the router.
func New(ctx context.Context, cfg *Config, logger *zap.Logger) (*App, error) {
	app := &App{
		cfg:    cfg,
		Router: chi.NewRouter(),
		Logger: logger,
	}

	repos, err := app.initStorage(ctx)
	if err != nil {
		return nil, err
	}

	app.initRouter(repos, NewPayoutExecutor(cfg, logger))
	return app, nil
}

// NewWithDeps builds an App around caller-supplied storage and executor.
func NewWithDeps(cfg *Config, logger *zap.Logger, repos Repositories, executor core.PayoutExecutor) *App {
	app := &App{
		cfg:    cfg,
		Router: chi.NewRouter(),
		Logger: logger,
	}
	app.initRouter(repos, executor)
	return app
}

// NewPayoutExecutor selects the live PayPal client or the simulated executor.
func NewPayoutExecutor(cfg *Config, logger *zap.Logger) core.PayoutExecutor {
	if cfg.PayoutMode == PayoutModeLive {
		logger.Info("Using live PayPal payouts", zap.String("paypal_url", cfg.PayPalBaseURL))
		return newPayPalClient(cfg, logger)
	}
	logger.Info("Using simulated payouts", zap.Duration("delay", cfg.SimulatedPayoutDelay))
	return payout.NewSimulated(cfg.SimulatedPayoutDelay, logger)
}

func newPayPalClient(cfg *Config, logger *zap.Logger) *payout.PayPalClient {
	return payout.NewPayPalClient(payout.PayPalConfig{
		BaseURL:      cfg.PayPalBaseURL,
		ClientID:     cfg.PayPalClientID,
		ClientSecret: cfg.PayPalClientSecret,
	}, nil, logger)
}

func (a *App) Run(ctx context.Context) error {
	a.Server = &http.Server{
		Addr:    a.cfg.RunAddress,
		Handler: a.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("Starting HTTP server", zap.String("address", a.cfg.RunAddress))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("Shutting down server...")
	return a.shutdown()
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) initStorage(ctx context.Context) (Repositories, error) {
	if a.cfg.DatabaseURI == "" {
		a.Logger.Warn("DATABASE_URI not set, using in-memory storage; data is lost on restart")
		store := repository.NewMemoryStore()
		return Repositories{Users: store, Stats: store, Withdrawals: store}, nil
	}

	db, err := repository.NewDatabase(ctx, repository.DatabaseConfig{
		DSN:            a.cfg.DatabaseURI,
		MigrationsPath: a.cfg.MigrationsPath,
	})
	if err != nil {
		a.Logger.Error("Database initialization failed",
			zap.String("dsn", a.cfg.MaskDBPassword()),
			zap.Error(err))
		return Repositories{}, fmt.Errorf("database initialization failed: %w", err)
	}

	a.db = db
	migrationsFrom := a.cfg.MigrationsPath
	if migrationsFrom == "" {
		migrationsFrom = "embedded"
	}
	a.Logger.Info("Database initialized successfully",
		zap.String("migrations", migrationsFrom))

	return Repositories{
		Users:       repository.NewUserRepository(db),
		Stats:       repository.NewStatsRepository(db),
		Withdrawals: repository.NewWithdrawalRepository(db),
	}, nil
}

func (a *App) initRouter(repos Repositories, executor core.PayoutExecutor) {
	a.Router.Use(middleware.RequestID)
	a.Router.Use(middleware.RealIP)
	a.Router.Use(middleware.Logger)
	a.Router.Use(middleware.Recoverer)
	a.Router.Use(middleware.Compress(5))

	if a.cfg.UsingDevSecret() {
		a.Logger.Warn("JWT_SECRET_KEY not set, using development secret")
	}

	// Services
	authService := service.NewAuthService(repos.Users, a.cfg.jwtSecret())
	statsService := service.NewStatsService(repos.Stats)
	redemptionService := service.NewRedemptionService(repos.Stats, repos.Withdrawals, executor, a.Logger)
	withdrawalService := service.NewWithdrawalService(repos.Withdrawals)

	// Controllers
	authController := controller.NewAuthController(authService, a.Logger)
	statsController := controller.NewStatsController(statsService, a.Logger)
	withdrawalController := controller.NewWithdrawalController(redemptionService, withdrawalService, a.Logger)

	// Public routes
	a.Router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	a.Router.Get("/api/tiers", statsController.ListTiers)
	a.Router.Post("/api/user/register", authController.Register)
	a.Router.Post("/api/user/login", authController.Login)

	// Protected routes
	a.Router.Group(func(r chi.Router) {
		r.Use(middlewareinternal.JWTAuthMiddleware(authService))

		r.Get("/api/user/stats", statsController.GetStats)
		r.Post("/api/user/tap", statsController.Tap)
		r.Get("/api/user/tiers", statsController.GetTiers)
		r.Post("/api/user/redeem", withdrawalController.Redeem)
		r.Get("/api/user/withdrawals", withdrawalController.GetWithdrawals)
	})
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.Server.Shutdown(ctx)
}
