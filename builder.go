package authkit

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nexdesk/authkit/backupcode"
	"github.com/nexdesk/authkit/password"
	"github.com/nexdesk/authkit/ratelimit"
	"github.com/nexdesk/authkit/token"
	"github.com/nexdesk/authkit/totp"
)

// Builder assembles an Engine from a configuration and its collaborators.
//
//	engine, err := authkit.New().
//		WithConfig(cfg).
//		WithStore(store).
//		WithMailer(mailer).
//		Build()
type Builder struct {
	cfg     Config
	cfgSet  bool
	store   CredentialStore
	mailer  EmailSender
	redis   redis.UniversalClient
	limiter ratelimit.Limiter
	logger  *zerolog.Logger
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// WithConfig sets the engine configuration. Without it, DefaultConfig is
// used, which fails validation until a signing key is present.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	b.cfgSet = true
	return b
}

// WithStore sets the credential store. Required.
func (b *Builder) WithStore(store CredentialStore) *Builder {
	b.store = store
	return b
}

// WithMailer sets the outbound email sender. Optional: without one the
// engine still runs, it just logs instead of sending.
func (b *Builder) WithMailer(mailer EmailSender) *Builder {
	b.mailer = mailer
	return b
}

// WithRedis provides the Redis client backing the failed-attempt limiter.
// It is only used when Config.RateLimit.Enabled is set and no explicit
// limiter was given.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithLimiter sets an explicit attempt limiter, overriding the Redis one.
func (b *Builder) WithLimiter(l ratelimit.Limiter) *Builder {
	b.limiter = l
	return b
}

// WithLogger sets the engine logger. Defaults to a disabled logger.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// Build validates the configuration and returns a ready Engine.
func (b *Builder) Build() (*Engine, error) {
	cfg := b.cfg
	if !b.cfgSet {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.store == nil {
		return nil, errors.New("authkit: credential store is required")
	}

	log := zerolog.Nop()
	if b.logger != nil {
		log = *b.logger
	}

	limiter := b.limiter
	if limiter == nil {
		if cfg.RateLimit.Enabled {
			if b.redis == nil {
				return nil, errors.New("authkit: rate limiting enabled but no redis client or limiter provided")
			}
			limiter = ratelimit.NewRedis(b.redis, ratelimit.Config{
				MaxAttempts: cfg.RateLimit.MaxAttempts,
				Cooldown:    cfg.RateLimit.Cooldown,
				KeyPrefix:   cfg.RateLimit.KeyPrefix,
			})
		} else {
			limiter = ratelimit.Noop{}
		}
	}

	if b.mailer == nil {
		log.Info().Msg("no mailer configured, outbound email disabled")
	}

	issuer, err := token.NewIssuer(token.Config{
		SigningKey: cfg.Tokens.SigningKey,
		Issuer:     cfg.Tokens.Issuer,
		Audience:   cfg.Tokens.Audience,
		AccessTTL:  cfg.Tokens.AccessTTL,
	})
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:    cfg,
		store:  b.store,
		mailer: b.mailer,
		hasher: password.New(cfg.Password.Cost),
		totp: totp.New(totp.Config{
			Issuer: cfg.TOTP.Issuer,
			Digits: cfg.TOTP.Digits,
			Period: cfg.TOTP.Period,
			Skew:   cfg.TOTP.Skew,
		}),
		backup: backupcode.New(backupcode.Config{
			Count:    cfg.BackupCodes.Count,
			Length:   cfg.BackupCodes.Length,
			HashCost: cfg.BackupCodes.HashCost,
		}),
		tokens:  issuer,
		limiter: limiter,
		metrics: newMetrics(cfg.Metrics.Enabled),
		log:     log,
	}, nil
}
