package authkit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nexdesk/authkit/backupcode"
	"github.com/nexdesk/authkit/password"
	"github.com/nexdesk/authkit/ratelimit"
	"github.com/nexdesk/authkit/token"
	"github.com/nexdesk/authkit/totp"
)

// Engine wires the credential store, hashers, token issuer, and mailer into
// the authentication flows. Construct one through New().Build(); a zero
// Engine is not usable.
//
// All methods are safe for concurrent use.
type Engine struct {
	cfg     Config
	store   CredentialStore
	mailer  EmailSender
	hasher  *password.Hasher
	totp    *totp.Manager
	backup  *backupcode.Manager
	tokens  *token.Issuer
	limiter ratelimit.Limiter
	metrics *metrics
	log     zerolog.Logger
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// ready rejects use of an Engine that did not come out of Builder.Build.
func (e *Engine) ready() error {
	if e == nil || e.store == nil || e.tokens == nil {
		return ErrEngineNotReady
	}
	return nil
}

// ParseAccessToken validates a signed access token and returns its claims.
// Middleware that guards protected routes calls this per request.
func (e *Engine) ParseAccessToken(tokenStr string) (*token.AccessClaims, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	claims, err := e.tokens.ParseAccessToken(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims, nil
}

// MetricsSnapshot returns the current counter values by name. Counters stay
// zero when metrics are disabled.
func (e *Engine) MetricsSnapshot() map[string]uint64 {
	return e.metrics.snapshot()
}

func (e *Engine) refreshTTL(rememberMe bool) time.Duration {
	if rememberMe {
		return e.cfg.Tokens.PersistentRefreshTTL
	}
	return e.cfg.Tokens.RefreshTTL
}

// issueSession mints the access/refresh pair for a fully authenticated
// user. With persist set the refresh token replaces the stored one; without
// it the token is returned but the store keeps whatever session it held.
func (e *Engine) issueSession(ctx context.Context, user *UserCredential, rememberMe, persist bool) (*LoginResult, error) {
	access, err := e.tokens.IssueAccessToken(user.Email, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: signing access token: %v", ErrInternal, err)
	}
	refresh, expiresAt, err := e.tokens.IssueRefreshToken(e.refreshTTL(rememberMe))
	if err != nil {
		return nil, fmt.Errorf("%w: minting refresh token: %v", ErrInternal, err)
	}
	if persist {
		if err := e.store.UpdateRefreshToken(ctx, user.ID, refresh, expiresAt); err != nil {
			return nil, e.storeErr("persisting refresh token", err)
		}
	}
	return &LoginResult{
		UserID:                user.ID,
		AccessToken:           access,
		RefreshToken:          refresh,
		RefreshTokenExpiresAt: expiresAt,
	}, nil
}

// storeErr passes through the package sentinels and wraps everything else
// in ErrInternal so store internals never leak to callers.
func (e *Engine) storeErr(op string, err error) error {
	for _, sentinel := range []error{
		ErrUserNotFound, ErrEmailExists, ErrTokenInvalid, ErrTokenExpired,
		ErrBackupCodeUsed, ErrInvalidField,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	e.log.Error().Err(err).Str("op", op).Msg("credential store failure")
	return fmt.Errorf("%w: %s", ErrInternal, op)
}

// sendEmail delivers a templated message when a mailer is configured.
// Delivery problems are logged and swallowed so a mail outage never fails
// an auth flow.
func (e *Engine) sendEmail(ctx context.Context, to string, kind TemplateKind, params map[string]string) {
	if e.mailer == nil {
		e.log.Debug().Str("kind", string(kind)).Msg("mailer not configured, dropping email")
		return
	}
	if err := e.mailer.SendTemplatedEmail(ctx, to, kind, params); err != nil {
		e.log.Warn().Err(err).Str("kind", string(kind)).Str("to", to).Msg("email delivery failed")
	}
}

func (e *Engine) checkLimiter(ctx context.Context, scope, key string) error {
	if err := e.limiter.Check(ctx, scope, key); err != nil {
		if errors.Is(err, ratelimit.ErrRateLimited) {
			return err
		}
		// A broken limiter backend fails open.
		e.log.Warn().Err(err).Str("scope", scope).Msg("attempt limiter unavailable")
	}
	return nil
}

func (e *Engine) recordFailure(ctx context.Context, scope, key string) {
	err := e.limiter.RecordFailure(ctx, scope, key)
	if err != nil && !errors.Is(err, ratelimit.ErrRateLimited) {
		e.log.Warn().Err(err).Str("scope", scope).Msg("attempt limiter record failed")
	}
}

func (e *Engine) resetLimiter(ctx context.Context, scope, key string) {
	if err := e.limiter.Reset(ctx, scope, key); err != nil {
		e.log.Warn().Err(err).Str("scope", scope).Msg("attempt limiter reset failed")
	}
}
