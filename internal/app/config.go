package app

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/Evgen-Mutagen/tapcash/internal/payout"
	"github.com/Evgen-Mutagen/tapcash/internal/util/logger"
	"github.com/joho/godotenv"
)

const (
	PayoutModeSimulated = "simulated"
	PayoutModeLive      = "live"

	devJWTSecret = "tapcash-dev-secret"
)

type Config struct {
	RunAddress     string
	DatabaseURI    string
	LogLevel       string
	LogFormat      string
	JWTSecretKey   string
	MigrationsPath string

	PayoutMode           string
	SimulatedPayoutDelay time.Duration
	PayPalBaseURL        string
	PayPalClientID       string
	PayPalClientSecret   string
}

// NewConfigFromFlags reads .env (if present), then command-line flags, then
// environment overrides.
func NewConfigFromFlags() (*Config, error) {
	// a missing .env is fine; real env always wins over it
	_ = godotenv.Load()
	return parseConfig(os.Args[0], os.Args[1:], os.Getenv)
}

func parseConfig(name string, args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.RunAddress, "a", "localhost:8080", "Server address (env: RUN_ADDRESS)")
	fs.StringVar(&cfg.DatabaseURI, "d", "", "Database URI, empty for in-memory storage (env: DATABASE_URI)")
	fs.StringVar(&cfg.LogLevel, "l", "debug", "Log level (debug|info|warn|error) (env: LOG_LEVEL)")
	fs.StringVar(&cfg.LogFormat, "log-format", logger.FormatConsole, "Log format (console|json) (env: LOG_FORMAT)")
	fs.StringVar(&cfg.JWTSecretKey, "jwt-secret", "", "JWT secret key (env: JWT_SECRET_KEY)")
	fs.StringVar(&cfg.MigrationsPath, "migrations", "", "Migrations folder, empty for the built-in set (env: MIGRATIONS_PATH)")
	fs.StringVar(&cfg.PayoutMode, "payout-mode", PayoutModeSimulated, "Payout mode (simulated|live) (env: PAYOUT_MODE)")
	fs.DurationVar(&cfg.SimulatedPayoutDelay, "payout-delay", payout.DefaultSimulatedDelay, "Simulated payout delay (env: PAYOUT_SIMULATED_DELAY)")
	fs.StringVar(&cfg.PayPalBaseURL, "paypal-url", payout.SandboxBaseURL, "PayPal API base URL (env: PAYPAL_BASE_URL)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.applyEnvVars(getenv); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnvVars(getenv func(string) string) error {
	if envAddr := getenv("RUN_ADDRESS"); envAddr != "" {
		c.RunAddress = envAddr
	}
	if envDB := getenv("DATABASE_URI"); envDB != "" {
		c.DatabaseURI = envDB
	}
	if envLogLevel := getenv("LOG_LEVEL"); envLogLevel != "" {
		c.LogLevel = envLogLevel
	}
	if envFormat := getenv("LOG_FORMAT"); envFormat != "" {
		c.LogFormat = envFormat
	}
	if envSecret := getenv("JWT_SECRET_KEY"); envSecret != "" {
		c.JWTSecretKey = envSecret
	}
	if envMigrations := getenv("MIGRATIONS_PATH"); envMigrations != "" {
		c.MigrationsPath = envMigrations
	}
	if envMode := getenv("PAYOUT_MODE"); envMode != "" {
		c.PayoutMode = envMode
	}
	if envDelay := getenv("PAYOUT_SIMULATED_DELAY"); envDelay != "" {
		d, err := time.ParseDuration(envDelay)
		if err != nil {
			return fmt.Errorf("invalid PAYOUT_SIMULATED_DELAY: %w", err)
		}
		c.SimulatedPayoutDelay = d
	}
	if envURL := getenv("PAYPAL_BASE_URL"); envURL != "" {
		c.PayPalBaseURL = envURL
	}
	// secrets are env-only so they never show up in process listings
	c.PayPalClientID = getenv("PAYPAL_CLIENT_ID")
	c.PayPalClientSecret = getenv("PAYPAL_CLIENT_SECRET")
	return nil
}

func (c *Config) validate() error {
	switch c.LogFormat {
	case logger.FormatConsole, logger.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q (want %s or %s)", c.LogFormat, logger.FormatConsole, logger.FormatJSON)
	}
	switch c.PayoutMode {
	case PayoutModeSimulated, PayoutModeLive:
	default:
		return fmt.Errorf("unknown payout mode %q (want %s or %s)", c.PayoutMode, PayoutModeSimulated, PayoutModeLive)
	}
	if c.SimulatedPayoutDelay < 0 {
		return errors.New("payout delay must not be negative")
	}
	if _, err := url.ParseRequestURI(c.PayPalBaseURL); err != nil {
		return fmt.Errorf("invalid PayPal base URL: %w", err)
	}
	return nil
}

// UsingDevSecret reports whether no JWT secret was configured.
func (c *Config) UsingDevSecret() bool {
	return c.JWTSecretKey == ""
}

func (c *Config) jwtSecret() string {
	if c.JWTSecretKey == "" {
		return devJWTSecret
	}
	return c.JWTSecretKey
}

func (c *Config) MaskDBPassword() string {
	u, err := url.Parse(c.DatabaseURI)
	if err != nil {
		return c.DatabaseURI
	}

	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}
	return u.String()
}
