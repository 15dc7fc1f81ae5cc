package authkit_test

import (
	"context"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/nexdesk/authkit"
	"github.com/nexdesk/authkit/memstore"
)

type sentEmail struct {
	To     string
	Kind   authkit.TemplateKind
	Params map[string]string
}

// captureMailer records outbound mail instead of sending it.
type captureMailer struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (m *captureMailer) SendTemplatedEmail(_ context.Context, to string, kind authkit.TemplateKind, params map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentEmail{To: to, Kind: kind, Params: params})
	return nil
}

func (m *captureMailer) last(t *testing.T) sentEmail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatal("no email was sent")
	}
	return m.sent[len(m.sent)-1]
}

func (m *captureMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func testConfig() authkit.Config {
	cfg := authkit.DefaultConfig()
	cfg.Tokens.SigningKey = []byte("0123456789abcdef0123456789abcdef")
	cfg.Tokens.Audience = "test-suite"
	// Minimum bcrypt cost keeps the suite fast.
	cfg.Password.Cost = bcrypt.MinCost
	cfg.BackupCodes.HashCost = bcrypt.MinCost
	return cfg
}

func newTestEngine(t *testing.T, store *memstore.Store, mailer *captureMailer) *authkit.Engine {
	t.Helper()
	b := authkit.New().WithConfig(testConfig()).WithStore(store)
	if mailer != nil {
		b = b.WithMailer(mailer)
	}
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return engine
}

// seedUser inserts a verified, active account with the given password.
func seedUser(t *testing.T, store *memstore.Store, email, plainPassword string) authkit.UserCredential {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return store.Insert(authkit.UserCredential{
		Email:         email,
		PasswordHash:  string(hash),
		EmailVerified: true,
		IsActive:      true,
	})
}
