package app

import (
	"strings"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig("test", nil, envMap(nil))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if cfg.RunAddress != "localhost:8080" || cfg.PayoutMode != PayoutModeSimulated {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.SimulatedPayoutDelay != 2*time.Second {
		t.Errorf("expected 2s simulated delay, got %s", cfg.SimulatedPayoutDelay)
	}
	if !cfg.UsingDevSecret() || cfg.jwtSecret() != devJWTSecret {
		t.Error("expected development JWT secret")
	}
	if cfg.MigrationsPath != "" {
		t.Errorf("expected built-in migrations by default, got %q", cfg.MigrationsPath)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("expected console log format, got %q", cfg.LogFormat)
	}
}

func TestParseConfigEnvOverridesFlags(t *testing.T) {
	cfg, err := parseConfig("test",
		[]string{"-a", ":9000", "-payout-mode", "simulated", "-payout-delay", "10ms"},
		envMap(map[string]string{
			"RUN_ADDRESS":            ":9100",
			"PAYOUT_MODE":            "live",
			"PAYOUT_SIMULATED_DELAY": "1s",
			"PAYPAL_CLIENT_ID":       "id",
			"PAYPAL_CLIENT_SECRET":   "secret",
			"JWT_SECRET_KEY":         "s3cr3t",
		}))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if cfg.RunAddress != ":9100" || cfg.PayoutMode != PayoutModeLive || cfg.SimulatedPayoutDelay != time.Second {
		t.Errorf("env did not override flags: %+v", cfg)
	}
	if cfg.PayPalClientID != "id" || cfg.PayPalClientSecret != "secret" {
		t.Error("expected PayPal secrets from env")
	}
	if cfg.UsingDevSecret() {
		t.Error("expected configured JWT secret")
	}
}

func TestParseConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"mode", []string{"-payout-mode", "maybe"}, nil},
		{"delay env", nil, map[string]string{"PAYOUT_SIMULATED_DELAY": "soon"}},
		{"negative delay", []string{"-payout-delay", "-1s"}, nil},
		{"url", []string{"-paypal-url", "not a url"}, nil},
		{"unknown flag", []string{"-nope"}, nil},
		{"log format", nil, map[string]string{"LOG_FORMAT": "xml"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseConfig("test", tc.args, envMap(tc.env)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestMaskDBPassword(t *testing.T) {
	cfg := &Config{DatabaseURI: "postgres://app:hunter2@db:5432/tapcash?sslmode=disable"}
	got := cfg.MaskDBPassword()
	if strings.Contains(got, "hunter2") || !strings.HasPrefix(got, "postgres://app:") {
		t.Errorf("unexpected masked dsn %q", got)
	}
}
