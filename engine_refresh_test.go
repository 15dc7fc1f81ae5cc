package authkit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nexdesk/authkit"
	"github.com/nexdesk/authkit/memstore"
)

func TestRefreshAccessTokenDoesNotRotate(t *testing.T) {
	store := memstore.New()
	engine := newTestEngine(t, store, nil)
	u := seedUser(t, store, "alice@example.com", "s3cret-pass")
	ctx := context.Background()

	session, err := engine.Login(ctx, u.Email, "s3cret-pass", false)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	first, err := engine.RefreshAccessToken(ctx, session.RefreshToken)
	if err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	second, err := engine.RefreshAccessToken(ctx, session.RefreshToken)
	if err != nil {
		t.Fatalf("second refresh with the same token: %v", err)
	}
	if first == "" || second == "" {
		t.Fatal("expected access tokens from both refreshes")
	}

	claims, err := engine.ParseAccessToken(second)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != u.ID {
		t.Fatalf("subject %q, want %q", claims.Subject, u.ID)
	}

	stored, _ := store.FindByCondition(ctx, authkit.ByID(u.ID))
	if stored.RefreshToken != session.RefreshToken {
		t.Fatal("refresh rotated the stored token")
	}
}

func TestRefreshAccessTokenUnknownToken(t *testing.T) {
	engine := newTestEngine(t, memstore.New(), nil)

	_, err := engine.RefreshAccessToken(context.Background(), "never-issued")
	if !errors.Is(err, authkit.ErrUnauthorized) {
		t.Fatalf("got %v, want an ErrUnauthorized kind", err)
	}
	_, err = engine.RefreshAccessToken(context.Background(), "")
	if !errors.Is(err, authkit.ErrUnauthorized) {
		t.Fatalf("empty token got %v, want an ErrUnauthorized kind", err)
	}
}

func TestRefreshAccessTokenExpiredToken(t *testing.T) {
	store := memstore.New()
	engine := newTestEngine(t, store, nil)
	u := seedUser(t, store, "alice@example.com", "s3cret-pass")
	ctx := context.Background()

	session, err := engine.Login(ctx, u.Email, "s3cret-pass", false)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	now := time.Now()
	store.SetClock(func() time.Time { return now.Add(25 * time.Hour) })

	_, err = engine.RefreshAccessToken(ctx, session.RefreshToken)
	if !errors.Is(err, authkit.ErrUnauthorized) {
		t.Fatalf("expired token got %v, want an ErrUnauthorized kind", err)
	}
}
