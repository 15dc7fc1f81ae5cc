package authkit

import "context"

// VerifyEmail consumes an email-verification token and marks the address
// confirmed, unlocking login for the account.
//
// Returns ErrTokenInvalid for an unknown or already-consumed token and
// ErrTokenExpired for a known token past its deadline.
func (e *Engine) VerifyEmail(ctx context.Context, verificationToken string) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.store.VerifyEmail(ctx, verificationToken); err != nil {
		e.metrics.inc(MetricEmailVerificationFailed)
		return e.storeErr("verifying email", err)
	}
	e.metrics.inc(MetricEmailVerified)
	e.log.Info().Msg("email address verified")
	return nil
}
