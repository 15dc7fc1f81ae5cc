package authkit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nexdesk/authkit"
	"github.com/nexdesk/authkit/memstore"
)

func TestVerifyEmailUnlocksLogin(t *testing.T) {
	store := memstore.New()
	mailer := &captureMailer{}
	engine := newTestEngine(t, store, mailer)
	ctx := context.Background()

	if _, err := engine.Register(ctx, authkit.RegisterRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := engine.Login(ctx, "alice@example.com", "s3cret-pass", false); !errors.Is(err, authkit.ErrUnauthorized) {
		t.Fatalf("pre-verification login got %v, want an ErrUnauthorized kind", err)
	}

	token := mailer.last(t).Params["token"]
	if err := engine.VerifyEmail(ctx, token); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	if _, err := engine.Login(ctx, "alice@example.com", "s3cret-pass", false); err != nil {
		t.Fatalf("post-verification login: %v", err)
	}
}

func TestVerifyEmailRejectsBadToken(t *testing.T) {
	engine := newTestEngine(t, memstore.New(), nil)

	err := engine.VerifyEmail(context.Background(), "bogus")
	if !errors.Is(err, authkit.ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}
