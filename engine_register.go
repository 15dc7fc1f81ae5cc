package authkit

import (
	"context"
	"errors"
	"fmt"
)

// Register creates an account with a hashed password and sends the
// email-verification message. The account starts unverified and cannot log
// in until VerifyEmail succeeds.
//
// Returns ErrEmailExists for a taken address, ErrPasswordPolicy for a
// too-short password, and ErrTokenInvalid or ErrTokenExpired when a
// required invite token does not check out.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*UserCredential, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	email := NormalizeEmail(req.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidField)
	}
	if len(req.Password) < e.cfg.Password.MinLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters",
			ErrPasswordPolicy, e.cfg.Password.MinLength)
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hashing password: %v", ErrInternal, err)
	}

	created, err := e.store.Register(ctx, &UserCredential{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}, req.InviteToken)
	if err != nil {
		err = e.storeErr("registering user", err)
		if errors.Is(err, ErrEmailExists) {
			e.metrics.inc(MetricRegisterDuplicate)
		}
		return nil, err
	}

	e.metrics.inc(MetricRegisterSuccess)
	e.log.Info().Str("user_id", created.ID).Msg("user registered")

	e.sendEmail(ctx, created.Email, TemplateVerifyEmail, map[string]string{
		"token": created.VerificationToken,
	})
	return created, nil
}
