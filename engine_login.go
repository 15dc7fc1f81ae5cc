package authkit

import (
	"context"
	"fmt"

	"github.com/nexdesk/authkit/ratelimit"
)

// Login authenticates an email/password pair.
//
// An unknown address returns ErrUserNotFound and a wrong password returns
// ErrInvalidCredentials. The two are distinct on purpose so the embedding
// application decides for itself whether to collapse them at the API
// boundary; this package does not.
//
// When the account has two-factor enabled the result is partial:
// RequiresSecondFactor is set, no tokens are issued, and nothing is
// persisted. The client finishes with VerifyTwoFactorLogin or
// VerifyBackupCodeLogin; the engine keeps no pending-login state in
// between.
func (e *Engine) Login(ctx context.Context, email, plainPassword string, rememberMe bool) (*LoginResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	email = NormalizeEmail(email)

	if err := e.checkLimiter(ctx, ratelimit.ScopeLogin, email); err != nil {
		return nil, err
	}

	user, err := e.store.FindByCondition(ctx, ByEmail(email))
	if err != nil {
		e.metrics.inc(MetricLoginFailure)
		return nil, e.storeErr("looking up user", err)
	}

	if !user.EmailVerified {
		e.metrics.inc(MetricLoginFailure)
		return nil, ErrEmailNotVerified
	}
	if !e.hasher.Verify(plainPassword, user.PasswordHash) {
		e.metrics.inc(MetricLoginFailure)
		e.recordFailure(ctx, ratelimit.ScopeLogin, email)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		e.metrics.inc(MetricLoginFailure)
		return nil, fmt.Errorf("%w: account deactivated", ErrUnauthorized)
	}

	e.resetLimiter(ctx, ratelimit.ScopeLogin, email)

	if user.TwoFactorEnabled {
		e.metrics.inc(MetricSecondFactorRequired)
		return &LoginResult{UserID: user.ID, RequiresSecondFactor: true}, nil
	}

	result, err := e.issueSession(ctx, user, rememberMe, true)
	if err != nil {
		return nil, err
	}
	e.metrics.inc(MetricLoginSuccess)
	e.log.Info().Str("user_id", user.ID).Msg("login succeeded")
	return result, nil
}

// VerifyTwoFactorLogin completes a login that Login reported as requiring a
// second factor. The TOTP code is accepted within the configured drift
// window around the current step.
//
// Returns ErrInvalidCode on a non-matching code and an error matching
// ErrUserNotFound when the user has no TOTP secret.
func (e *Engine) VerifyTwoFactorLogin(ctx context.Context, userID, code string, rememberMe bool) (*LoginResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := e.checkLimiter(ctx, ratelimit.ScopeTOTP, userID); err != nil {
		return nil, err
	}

	user, err := e.store.FindByCondition(ctx, ByID(userID))
	if err != nil {
		e.metrics.inc(MetricSecondFactorFailure)
		return nil, e.storeErr("looking up user", err)
	}
	if !user.TwoFactorEnabled || user.TOTPSecret == "" {
		e.metrics.inc(MetricSecondFactorFailure)
		return nil, ErrTwoFactorNotConfigured
	}

	if !e.totp.Verify(user.TOTPSecret, code) {
		e.metrics.inc(MetricSecondFactorFailure)
		e.recordFailure(ctx, ratelimit.ScopeTOTP, userID)
		return nil, ErrInvalidCode
	}

	e.resetLimiter(ctx, ratelimit.ScopeTOTP, userID)

	result, err := e.issueSession(ctx, user, rememberMe, true)
	if err != nil {
		return nil, err
	}
	e.metrics.inc(MetricSecondFactorSuccess)
	e.log.Info().Str("user_id", user.ID).Msg("two-factor login succeeded")
	return result, nil
}

// Logout discards the user's stored refresh token. Outstanding access
// tokens stay valid until they expire.
func (e *Engine) Logout(ctx context.Context, userID string) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.store.UpdateField(ctx, userID, FieldRefreshToken, ""); err != nil {
		return e.storeErr("clearing refresh token", err)
	}
	return nil
}
