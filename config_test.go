package authkit

import (
	"testing"
	"time"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Tokens.SigningKey = []byte("0123456789abcdef0123456789abcdef")
	return cfg
}

func TestConfigValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short signing key", func(c *Config) { c.Tokens.SigningKey = []byte("short") }},
		{"zero access ttl", func(c *Config) { c.Tokens.AccessTTL = 0 }},
		{"zero refresh ttl", func(c *Config) { c.Tokens.RefreshTTL = 0 }},
		{"persistent shorter than plain", func(c *Config) { c.Tokens.PersistentRefreshTTL = time.Hour }},
		{"bad totp digits", func(c *Config) { c.TOTP.Digits = 4 }},
		{"zero totp period", func(c *Config) { c.TOTP.Period = 0 }},
		{"no backup codes", func(c *Config) { c.BackupCodes.Count = 0 }},
		{"short backup codes", func(c *Config) { c.BackupCodes.Length = 4 }},
		{"zero password minimum", func(c *Config) { c.Password.MinLength = 0 }},
		{"limiter without budget", func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.MaxAttempts = 0
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("AUTHKIT_SIGNING_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("AUTHKIT_TOKEN_ISSUER", "nexdesk")
	t.Setenv("AUTHKIT_ACCESS_TTL", "5m")
	t.Setenv("AUTHKIT_RATE_LIMIT_ENABLED", "true")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.Tokens.Issuer != "nexdesk" {
		t.Fatalf("issuer %q", cfg.Tokens.Issuer)
	}
	if cfg.Tokens.AccessTTL != 5*time.Minute {
		t.Fatalf("access ttl %v", cfg.Tokens.AccessTTL)
	}
	if !cfg.RateLimit.Enabled {
		t.Fatal("rate limiting not enabled")
	}
	// Untouched fields keep their defaults.
	if cfg.Tokens.RefreshTTL != 24*time.Hour {
		t.Fatalf("refresh ttl %v", cfg.Tokens.RefreshTTL)
	}
}

func TestConfigFromEnvRequiresSigningKey(t *testing.T) {
	t.Setenv("AUTHKIT_SIGNING_KEY", "")

	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("expected an error without a signing key")
	}
}
