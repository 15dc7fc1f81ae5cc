package authkit

import (
	"context"
	"fmt"
)

// BeginTwoFactorSetup generates a TOTP secret for the user and stores it,
// marking the account two-factor enabled. The returned setup carries the
// secret for manual entry and the otpauth:// URI for QR rendering.
//
// The client proves it captured the secret by calling
// ConfirmTwoFactorSetup with a live code; until then the user has no
// backup codes.
func (e *Engine) BeginTwoFactorSetup(ctx context.Context, userID string) (*TwoFactorSetup, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	secret, err := e.totp.GenerateSecret()
	if err != nil {
		return nil, fmt.Errorf("%w: generating totp secret: %v", ErrInternal, err)
	}

	email, err := e.store.EnableTwoFactor(ctx, userID, secret)
	if err != nil {
		return nil, e.storeErr("enabling two-factor", err)
	}

	e.log.Info().Str("user_id", userID).Msg("two-factor setup started")
	return &TwoFactorSetup{
		Secret:          secret,
		ProvisioningURI: e.totp.ProvisioningURI(email, secret),
	}, nil
}

// ConfirmTwoFactorSetup checks a live TOTP code against the secret stored
// by BeginTwoFactorSetup and, on success, issues the user's first batch of
// backup codes. The plaintext codes are returned exactly once.
//
// Returns ErrInvalidCode when the code does not verify; the stored secret
// is kept so the client can retry.
func (e *Engine) ConfirmTwoFactorSetup(ctx context.Context, userID, code string) ([]string, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	user, err := e.store.FindByCondition(ctx, ByID(userID))
	if err != nil {
		return nil, e.storeErr("looking up user", err)
	}
	if user.TOTPSecret == "" {
		return nil, ErrTwoFactorNotConfigured
	}
	if !e.totp.Verify(user.TOTPSecret, code) {
		return nil, ErrInvalidCode
	}

	plaintext, hashed, err := e.backup.GenerateBatch()
	if err != nil {
		return nil, fmt.Errorf("%w: generating backup codes: %v", ErrInternal, err)
	}
	if err := e.store.StoreBackupCodes(ctx, userID, hashed); err != nil {
		return nil, e.storeErr("storing backup codes", err)
	}

	e.log.Info().Str("user_id", userID).Msg("two-factor setup confirmed")
	return plaintext, nil
}

// DisableTwoFactor turns the second factor off after re-proving the
// password. The secret and all backup codes are discarded.
func (e *Engine) DisableTwoFactor(ctx context.Context, userID, plainPassword string) error {
	if err := e.ready(); err != nil {
		return err
	}
	user, err := e.store.FindByCondition(ctx, ByID(userID))
	if err != nil {
		return e.storeErr("looking up user", err)
	}
	if !e.hasher.Verify(plainPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	if err := e.store.DisableTwoFactor(ctx, userID); err != nil {
		return e.storeErr("disabling two-factor", err)
	}
	e.log.Info().Str("user_id", userID).Msg("two-factor disabled")
	return nil
}
