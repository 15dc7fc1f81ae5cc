package authkit

import (
	"context"
	"errors"
	"fmt"
)

// RefreshAccessToken exchanges a live refresh token for a new access token.
//
// The refresh token itself is not rotated: the same value keeps working
// until it expires or a later login overwrites it. Callers hold one
// long-lived refresh token per session and mint short-lived access tokens
// against it.
//
// Any refresh token the store does not currently hold, including expired
// and overwritten ones, yields an error matching ErrUnauthorized.
func (e *Engine) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}
	if refreshToken == "" {
		e.metrics.inc(MetricRefreshFailure)
		return "", ErrRefreshTokenInvalid
	}

	user, err := e.store.FindByCondition(ctx, ByRefreshToken(refreshToken))
	if err != nil {
		e.metrics.inc(MetricRefreshFailure)
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrRefreshTokenInvalid
		}
		return "", e.storeErr("resolving refresh token", err)
	}

	access, err := e.tokens.IssueAccessToken(user.Email, user.ID)
	if err != nil {
		e.metrics.inc(MetricRefreshFailure)
		return "", fmt.Errorf("%w: signing access token: %v", ErrInternal, err)
	}

	e.metrics.inc(MetricRefreshSuccess)
	return access, nil
}
