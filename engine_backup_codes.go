package authkit

import (
	"context"
	"errors"
	"fmt"

	"github.com/nexdesk/authkit/ratelimit"
)

// VerifyBackupCodeLogin completes a two-factor login with a recovery code
// instead of a TOTP code. The user's unused code set is checked first; an
// empty set, a non-matching code, and a code lost to a concurrent
// consumption race all yield an error matching ErrUnauthorized. The matching
// code is consumed before any token is minted, so each code grants at most
// one session even under concurrent attempts.
//
// The session issued here is intentionally not persisted: the returned
// refresh token is never redeemable by RefreshAccessToken, and the stored
// session, if any, stays live. Only the access token is usable, so recovery
// access ends at its expiry. It is a bridge to restoring the authenticator,
// not a full session takeover.
func (e *Engine) VerifyBackupCodeLogin(ctx context.Context, userID, code string) (*LoginResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := e.checkLimiter(ctx, ratelimit.ScopeBackupCode, userID); err != nil {
		return nil, err
	}

	records, err := e.store.GetUnusedBackupCodes(ctx, userID)
	if err != nil {
		e.metrics.inc(MetricBackupCodeFailed)
		return nil, e.storeErr("listing backup codes", err)
	}
	if len(records) == 0 {
		e.metrics.inc(MetricBackupCodeFailed)
		return nil, ErrBackupCodeRejected
	}

	hashes := make([]string, len(records))
	for i, rec := range records {
		hashes[i] = rec.Hash
	}
	idx := e.backup.Verify(code, hashes)
	if idx < 0 {
		e.metrics.inc(MetricBackupCodeFailed)
		e.recordFailure(ctx, ratelimit.ScopeBackupCode, userID)
		return nil, ErrBackupCodeRejected
	}

	if err := e.store.MarkBackupCodeUsed(ctx, records[idx].ID); err != nil {
		e.metrics.inc(MetricBackupCodeFailed)
		if errors.Is(err, ErrBackupCodeUsed) {
			return nil, ErrBackupCodeRejected
		}
		return nil, e.storeErr("consuming backup code", err)
	}

	user, err := e.store.FindByCondition(ctx, ByID(userID))
	if err != nil {
		e.metrics.inc(MetricBackupCodeFailed)
		return nil, e.storeErr("looking up user", err)
	}

	e.resetLimiter(ctx, ratelimit.ScopeBackupCode, userID)

	result, err := e.issueSession(ctx, user, false, false)
	if err != nil {
		return nil, err
	}
	e.metrics.inc(MetricBackupCodeUsed)
	e.log.Info().Str("user_id", user.ID).Int("codes_left", len(records)-1).
		Msg("backup code login succeeded")
	return result, nil
}

// RegenerateBackupCodes replaces the user's recovery codes with a fresh
// batch and returns the plaintext codes for one-time display. Prior codes,
// used or not, stop working.
func (e *Engine) RegenerateBackupCodes(ctx context.Context, userID string) ([]string, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	user, err := e.store.FindByCondition(ctx, ByID(userID))
	if err != nil {
		return nil, e.storeErr("looking up user", err)
	}
	if !user.TwoFactorEnabled {
		return nil, ErrTwoFactorNotConfigured
	}

	plaintext, hashed, err := e.backup.GenerateBatch()
	if err != nil {
		return nil, fmt.Errorf("%w: generating backup codes: %v", ErrInternal, err)
	}
	if err := e.store.StoreBackupCodes(ctx, userID, hashed); err != nil {
		return nil, e.storeErr("storing backup codes", err)
	}
	e.log.Info().Str("user_id", userID).Msg("backup codes regenerated")
	return plaintext, nil
}
