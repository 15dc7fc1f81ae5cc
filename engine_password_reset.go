package authkit

import (
	"context"
	"fmt"
)

// ForgotPassword starts a password reset: the store mints a one-time reset
// token for the account and the token is mailed to the address on file.
//
// Returns ErrUserNotFound for an unknown address. Embedding applications
// that prefer not to reveal account existence can collapse that error at
// their own boundary.
func (e *Engine) ForgotPassword(ctx context.Context, email string) error {
	if err := e.ready(); err != nil {
		return err
	}

	email = NormalizeEmail(email)

	resetToken, err := e.store.GenerateResetToken(ctx, email)
	if err != nil {
		e.metrics.inc(MetricPasswordResetFailure)
		return e.storeErr("generating reset token", err)
	}

	e.metrics.inc(MetricPasswordResetRequested)
	e.log.Info().Str("email", email).Msg("password reset requested")

	e.sendEmail(ctx, email, TemplatePasswordReset, map[string]string{
		"token": resetToken,
	})
	return nil
}

// ResetPassword consumes a reset token and installs a new password. The
// new password is hashed before the token is checked, so a failed reset
// never half-applies: on ErrTokenInvalid or ErrTokenExpired the previous
// password keeps working.
func (e *Engine) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if err := e.ready(); err != nil {
		return err
	}
	if len(newPassword) < e.cfg.Password.MinLength {
		return fmt.Errorf("%w: password must be at least %d characters",
			ErrPasswordPolicy, e.cfg.Password.MinLength)
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%w: hashing password: %v", ErrInternal, err)
	}

	if err := e.store.ResetPassword(ctx, resetToken, hash); err != nil {
		e.metrics.inc(MetricPasswordResetFailure)
		return e.storeErr("resetting password", err)
	}

	e.metrics.inc(MetricPasswordResetSuccess)
	e.log.Info().Msg("password reset completed")
	return nil
}
