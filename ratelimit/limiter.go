package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrRateLimited is returned by Check when the attempt budget for a
	// key is exhausted.
	ErrRateLimited = errors.New("too many failed attempts")
	// ErrUnavailable wraps backend failures so callers can distinguish an
	// exhausted budget from a broken limiter.
	ErrUnavailable = errors.New("rate limiter backend unavailable")
)

// Scopes used by the engine. Keys are scoped so a flood of TOTP failures
// does not consume the password-login budget for the same user.
const (
	ScopeLogin      = "login"
	ScopeTOTP       = "totp"
	ScopeBackupCode = "backup"
)

// Limiter tracks failed attempts per scope and key.
//
// Check is called before secret material is verified, RecordFailure after a
// failed verification, Reset after a successful one.
type Limiter interface {
	Check(ctx context.Context, scope, key string) error
	RecordFailure(ctx context.Context, scope, key string) error
	Reset(ctx context.Context, scope, key string) error
}

// Config tunes the Redis limiter.
type Config struct {
	// MaxAttempts is the number of failures allowed within a cooldown
	// window. Defaults to 5.
	MaxAttempts int
	// Cooldown is the counter TTL. Each failure refreshes it. Defaults to
	// 15 minutes.
	Cooldown time.Duration
	// KeyPrefix namespaces the limiter keys. Defaults to "authkit:rl".
	KeyPrefix string
}

// RedisLimiter counts failures in Redis with a sliding cooldown TTL.
type RedisLimiter struct {
	client redis.UniversalClient
	config Config
}

// NewRedis returns a RedisLimiter backed by the given client.
func NewRedis(client redis.UniversalClient, cfg Config) *RedisLimiter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 15 * time.Minute
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "authkit:rl"
	}
	return &RedisLimiter{client: client, config: cfg}
}

// Check returns ErrRateLimited when the key's failure counter meets the
// budget, ErrUnavailable when Redis cannot be reached.
func (l *RedisLimiter) Check(ctx context.Context, scope, key string) error {
	count, err := l.client.Get(ctx, l.key(scope, key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count >= int64(l.config.MaxAttempts) {
		return ErrRateLimited
	}
	return nil
}

// RecordFailure increments the key's failure counter and refreshes its
// cooldown TTL. Returns ErrRateLimited when the increment crosses the
// budget.
func (l *RedisLimiter) RecordFailure(ctx context.Context, scope, key string) error {
	k := l.key(scope, key)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.config.Cooldown)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if incr.Val() >= int64(l.config.MaxAttempts) {
		return ErrRateLimited
	}
	return nil
}

// Reset clears the failure counter for the key.
func (l *RedisLimiter) Reset(ctx context.Context, scope, key string) error {
	if err := l.client.Del(ctx, l.key(scope, key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (l *RedisLimiter) key(scope, key string) string {
	return l.config.KeyPrefix + ":" + scope + ":" + key
}

// Noop is the default limiter: it never limits and never fails. It keeps
// the documented no-lockout behavior unless a deployment opts in.
type Noop struct{}

// Check always allows the attempt.
func (Noop) Check(context.Context, string, string) error { return nil }

// RecordFailure discards the failure.
func (Noop) RecordFailure(context.Context, string, string) error { return nil }

// Reset is a no-op.
func (Noop) Reset(context.Context, string, string) error { return nil }
