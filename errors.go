package authkit

import (
	"errors"
	"fmt"

	"github.com/nexdesk/authkit/ratelimit"
)

var (
	// ErrUserNotFound reports that no user matched the given id, email, or
	// lookup token.
	ErrUserNotFound = errors.New("user not found")
	// ErrTwoFactorNotConfigured reports a two-factor operation against a
	// user with no TOTP secret. It matches ErrUserNotFound under errors.Is.
	ErrTwoFactorNotConfigured = fmt.Errorf("%w: two-factor not configured", ErrUserNotFound)

	// ErrUnauthorized is the base of the denied-without-bad-secret family.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmailNotVerified rejects login before the address is confirmed.
	ErrEmailNotVerified = fmt.Errorf("%w: email not verified", ErrUnauthorized)
	// ErrRefreshTokenInvalid rejects a refresh token the store does not
	// currently hold, whether expired, rotated away, or never issued.
	ErrRefreshTokenInvalid = fmt.Errorf("%w: refresh token not recognized", ErrUnauthorized)
	// ErrBackupCodeRejected rejects a backup-code login: no unused codes
	// exist, no code matched, or the matched code was consumed concurrently.
	ErrBackupCodeRejected = fmt.Errorf("%w: backup code rejected", ErrUnauthorized)

	// ErrInvalidCredentials reports a password mismatch. Deliberately a
	// different kind than ErrUserNotFound; see the Login documentation.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidCode reports a TOTP code that matched no step inside the
	// drift window.
	ErrInvalidCode = errors.New("invalid one-time code")

	// ErrEmailExists rejects registration with a taken address.
	ErrEmailExists = errors.New("email already registered")

	// ErrTokenInvalid rejects an unknown or already-consumed one-time token
	// (password reset, email verification, invitation).
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired rejects a known one-time token past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrBackupCodeUsed is returned by CredentialStore.MarkBackupCodeUsed
	// when the code has already been consumed. The check-and-set there is
	// what makes concurrent use of one code a single-winner race.
	ErrBackupCodeUsed = errors.New("backup code already used")
	// ErrInvalidField rejects a CredentialStore.UpdateField call with an
	// unknown field or an unparseable value.
	ErrInvalidField = errors.New("invalid credential field")

	// ErrPasswordPolicy rejects a password below the configured minimum.
	ErrPasswordPolicy = errors.New("password policy violation")

	// ErrRateLimited is returned when the optional attempt limiter denies a
	// verification. Alias of the ratelimit sentinel so errors.Is works on
	// either.
	ErrRateLimited = ratelimit.ErrRateLimited

	// ErrInternal wraps hashing, signing, and storage failures that are not
	// attributable to user input.
	ErrInternal = errors.New("internal auth failure")

	// ErrEngineNotReady reports use of an Engine that was not built with
	// its required collaborators.
	ErrEngineNotReady = errors.New("engine not initialized")
)
