package authkit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nexdesk/authkit"
	"github.com/nexdesk/authkit/memstore"
)

func TestForgotPasswordThenReset(t *testing.T) {
	store := memstore.New()
	mailer := &captureMailer{}
	engine := newTestEngine(t, store, mailer)
	u := seedUser(t, store, "alice@example.com", "old-password")
	ctx := context.Background()

	if err := engine.ForgotPassword(ctx, "Alice@Example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	mail := mailer.last(t)
	if mail.Kind != authkit.TemplatePasswordReset || mail.To != u.Email {
		t.Fatalf("sent %q to %q", mail.Kind, mail.To)
	}
	resetToken := mail.Params["token"]
	if resetToken == "" {
		t.Fatal("reset email carries no token")
	}

	if err := engine.ResetPassword(ctx, resetToken, "new-password"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, err := engine.Login(ctx, u.Email, "new-password", false); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := engine.Login(ctx, u.Email, "old-password", false); !errors.Is(err, authkit.ErrInvalidCredentials) {
		t.Fatalf("old password got %v, want ErrInvalidCredentials", err)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	engine := newTestEngine(t, memstore.New(), nil)

	err := engine.ForgotPassword(context.Background(), "nobody@example.com")
	if !errors.Is(err, authkit.ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}

func TestResetPasswordExpiredTokenKeepsOldPassword(t *testing.T) {
	store := memstore.New()
	mailer := &captureMailer{}
	engine := newTestEngine(t, store, mailer)
	u := seedUser(t, store, "alice@example.com", "old-password")
	ctx := context.Background()

	if err := engine.ForgotPassword(ctx, u.Email); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	resetToken := mailer.last(t).Params["token"]

	now := time.Now()
	store.SetClock(func() time.Time { return now.Add(memstore.ResetTokenTTL + time.Minute) })

	err := engine.ResetPassword(ctx, resetToken, "new-password")
	if !errors.Is(err, authkit.ErrTokenExpired) {
		t.Fatalf("got %v, want ErrTokenExpired", err)
	}
	if _, err := engine.Login(ctx, u.Email, "old-password", false); err != nil {
		t.Fatalf("old password stopped working after failed reset: %v", err)
	}
}

func TestResetPasswordRejectsInvalidToken(t *testing.T) {
	engine := newTestEngine(t, memstore.New(), nil)

	err := engine.ResetPassword(context.Background(), "bogus", "new-password")
	if !errors.Is(err, authkit.ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestResetPasswordPolicy(t *testing.T) {
	engine := newTestEngine(t, memstore.New(), nil)

	err := engine.ResetPassword(context.Background(), "whatever", "tiny")
	if !errors.Is(err, authkit.ErrPasswordPolicy) {
		t.Fatalf("got %v, want ErrPasswordPolicy", err)
	}
}
