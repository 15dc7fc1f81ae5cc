package authkit

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the engine configuration. Zero values are filled from
// DefaultConfig at build time; the only field without a usable default is
// Tokens.SigningKey.
type Config struct {
	Tokens      TokenConfig
	Password    PasswordConfig
	TOTP        TOTPConfig
	BackupCodes BackupCodeConfig
	RateLimit   RateLimitConfig
	Metrics     MetricsConfig
}

// TokenConfig controls access- and refresh-token issuance. SigningKey,
// Issuer and Audience are process configuration, never user input.
type TokenConfig struct {
	SigningKey []byte
	Issuer     string
	Audience   string
	// AccessTTL is the access-token lifetime (default 15 minutes).
	AccessTTL time.Duration
	// RefreshTTL is the refresh-token lifetime for ordinary sessions
	// (default 1 day).
	RefreshTTL time.Duration
	// PersistentRefreshTTL applies when the caller asked for a
	// remember-me session (default 7 days).
	PersistentRefreshTTL time.Duration
}

// PasswordConfig controls hashing and the registration password policy.
type PasswordConfig struct {
	// Cost is the bcrypt work factor (default 12).
	Cost int
	// MinLength is the minimum accepted password length (default 8).
	MinLength int
}

// TOTPConfig controls the authenticator-app second factor.
type TOTPConfig struct {
	// Issuer is shown by authenticator apps next to the account.
	Issuer string
	// Digits per code (default 6).
	Digits int
	// Period is the step length in seconds (default 30).
	Period uint
	// Skew is the verification drift window in steps (default 1).
	Skew uint
}

// BackupCodeConfig controls recovery-code batches.
type BackupCodeConfig struct {
	// Count is the batch size (default 10).
	Count int
	// Length is the characters per code (default 10).
	Length int
	// HashCost is the bcrypt cost for at-rest code hashes (default
	// bcrypt.DefaultCost).
	HashCost int
}

// RateLimitConfig controls the optional failed-attempt limiter. Disabled
// by default: no flow tracks attempts unless a deployment opts in and
// provides a Redis client (or a custom limiter) at build time.
type RateLimitConfig struct {
	Enabled     bool
	MaxAttempts int
	Cooldown    time.Duration
	KeyPrefix   string
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the defaults described on the Config field docs.
// The signing key is left empty and must be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		Tokens: TokenConfig{
			Issuer:               "authkit",
			AccessTTL:            15 * time.Minute,
			RefreshTTL:           24 * time.Hour,
			PersistentRefreshTTL: 7 * 24 * time.Hour,
		},
		Password: PasswordConfig{
			Cost:      12,
			MinLength: 8,
		},
		TOTP: TOTPConfig{
			Issuer: "authkit",
			Digits: 6,
			Period: 30,
			Skew:   1,
		},
		BackupCodes: BackupCodeConfig{
			Count:  10,
			Length: 10,
		},
		RateLimit: RateLimitConfig{
			MaxAttempts: 5,
			Cooldown:    15 * time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if len(c.Tokens.SigningKey) < 32 {
		return errors.New("Tokens.SigningKey must be at least 32 bytes")
	}
	if c.Tokens.AccessTTL <= 0 {
		return errors.New("Tokens.AccessTTL must be positive")
	}
	if c.Tokens.RefreshTTL <= 0 || c.Tokens.PersistentRefreshTTL <= 0 {
		return errors.New("refresh token lifetimes must be positive")
	}
	if c.Tokens.PersistentRefreshTTL < c.Tokens.RefreshTTL {
		return errors.New("Tokens.PersistentRefreshTTL must not be shorter than Tokens.RefreshTTL")
	}
	if c.TOTP.Digits < 6 || c.TOTP.Digits > 8 {
		return errors.New("TOTP.Digits must be 6..8")
	}
	if c.TOTP.Period == 0 {
		return errors.New("TOTP.Period must be positive")
	}
	if c.BackupCodes.Count <= 0 || c.BackupCodes.Length < 8 {
		return errors.New("backup codes need a positive count and length >= 8")
	}
	if c.Password.MinLength < 1 {
		return errors.New("Password.MinLength must be positive")
	}
	if c.RateLimit.Enabled && c.RateLimit.MaxAttempts <= 0 {
		return errors.New("RateLimit.MaxAttempts must be positive when rate limiting is enabled")
	}
	return nil
}

type envConfig struct {
	SigningKey           string        `env:"AUTHKIT_SIGNING_KEY,required"`
	TokenIssuer          string        `env:"AUTHKIT_TOKEN_ISSUER" envDefault:"authkit"`
	TokenAudience        string        `env:"AUTHKIT_TOKEN_AUDIENCE"`
	AccessTTL            time.Duration `env:"AUTHKIT_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL           time.Duration `env:"AUTHKIT_REFRESH_TTL" envDefault:"24h"`
	PersistentRefreshTTL time.Duration `env:"AUTHKIT_PERSISTENT_REFRESH_TTL" envDefault:"168h"`
	PasswordCost         int           `env:"AUTHKIT_PASSWORD_COST" envDefault:"12"`
	PasswordMinLength    int           `env:"AUTHKIT_PASSWORD_MIN_LENGTH" envDefault:"8"`
	TOTPIssuer           string        `env:"AUTHKIT_TOTP_ISSUER" envDefault:"authkit"`
	RateLimitEnabled     bool          `env:"AUTHKIT_RATE_LIMIT_ENABLED" envDefault:"false"`
	RateLimitMaxAttempts int           `env:"AUTHKIT_RATE_LIMIT_MAX_ATTEMPTS" envDefault:"5"`
	RateLimitCooldown    time.Duration `env:"AUTHKIT_RATE_LIMIT_COOLDOWN" envDefault:"15m"`
	MetricsEnabled       bool          `env:"AUTHKIT_METRICS_ENABLED" envDefault:"true"`
}

// ConfigFromEnv builds a Config from AUTHKIT_* environment variables on top
// of DefaultConfig. AUTHKIT_SIGNING_KEY is required.
func ConfigFromEnv() (Config, error) {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	cfg.Tokens.SigningKey = []byte(e.SigningKey)
	cfg.Tokens.Issuer = e.TokenIssuer
	cfg.Tokens.Audience = e.TokenAudience
	cfg.Tokens.AccessTTL = e.AccessTTL
	cfg.Tokens.RefreshTTL = e.RefreshTTL
	cfg.Tokens.PersistentRefreshTTL = e.PersistentRefreshTTL
	cfg.Password.Cost = e.PasswordCost
	cfg.Password.MinLength = e.PasswordMinLength
	cfg.TOTP.Issuer = e.TOTPIssuer
	cfg.RateLimit.Enabled = e.RateLimitEnabled
	cfg.RateLimit.MaxAttempts = e.RateLimitMaxAttempts
	cfg.RateLimit.Cooldown = e.RateLimitCooldown
	cfg.Metrics.Enabled = e.MetricsEnabled

	return cfg, cfg.Validate()
}
