package memstore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nexdesk/authkit"
)

const (
	// VerificationTokenTTL is how long an email-verification token stays
	// redeemable.
	VerificationTokenTTL = 24 * time.Hour
	// ResetTokenTTL is how long a password-reset token stays redeemable.
	ResetTokenTTL = time.Hour
)

type codeRecord struct {
	id   string
	hash string
	used bool
}

// Store is an in-memory authkit.CredentialStore. It is safe for concurrent
// use and keeps everything under one mutex, which also gives
// MarkBackupCodeUsed its check-and-set guarantee.
type Store struct {
	mu      sync.Mutex
	users   map[string]*authkit.UserCredential // by id
	byEmail map[string]string                  // normalized email -> id
	invites map[string]time.Time               // invite token -> expiry
	codes   map[string][]*codeRecord           // user id -> backup codes
	now     func() time.Time
}

// New returns an empty store using the wall clock.
func New() *Store {
	return &Store{
		users:   make(map[string]*authkit.UserCredential),
		byEmail: make(map[string]string),
		invites: make(map[string]time.Time),
		codes:   make(map[string][]*codeRecord),
		now:     time.Now,
	}
}

// SetClock replaces the store's time source. Tests use it to step over
// token expiries.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// AddInvite registers an invitation token redeemable by one Register call
// within ttl.
func (s *Store) AddInvite(token string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invites[token] = s.now().Add(ttl)
}

// Insert seeds a user directly, bypassing registration. Missing ids are
// assigned. Intended for tests and fixtures.
func (s *Store) Insert(user authkit.UserCredential) authkit.UserCredential {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = authkit.NormalizeEmail(user.Email)
	cp := user
	s.users[cp.ID] = &cp
	s.byEmail[cp.Email] = cp.ID
	return user
}

func (s *Store) FindByCondition(_ context.Context, cond authkit.Condition) (*authkit.UserCredential, error) {
	if err := validateCondition(cond); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case cond.UserID != "":
		if u, ok := s.users[cond.UserID]; ok {
			return copyUser(u), nil
		}
	case cond.Email != "":
		if id, ok := s.byEmail[authkit.NormalizeEmail(cond.Email)]; ok {
			return copyUser(s.users[id]), nil
		}
	case cond.RefreshToken != "":
		now := s.now()
		for _, u := range s.users {
			if u.RefreshToken == cond.RefreshToken && u.RefreshTokenExpiresAt.After(now) {
				return copyUser(u), nil
			}
		}
	}
	return nil, authkit.ErrUserNotFound
}

func validateCondition(cond authkit.Condition) error {
	set := 0
	if cond.UserID != "" {
		set++
	}
	if cond.Email != "" {
		set++
	}
	if cond.RefreshToken != "" {
		set++
	}
	if set != 1 {
		return fmt.Errorf("memstore: condition must set exactly one key, got %d", set)
	}
	return nil
}

func (s *Store) Register(_ context.Context, user *authkit.UserCredential, inviteToken string) (*authkit.UserCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := authkit.NormalizeEmail(user.Email)
	if _, taken := s.byEmail[email]; taken {
		return nil, authkit.ErrEmailExists
	}

	if inviteToken != "" {
		expiry, ok := s.invites[inviteToken]
		if !ok {
			return nil, authkit.ErrTokenInvalid
		}
		if !expiry.After(s.now()) {
			delete(s.invites, inviteToken)
			return nil, authkit.ErrTokenExpired
		}
		delete(s.invites, inviteToken)
	}

	cp := *user
	cp.ID = uuid.NewString()
	cp.Email = email
	cp.VerificationToken = newToken()
	cp.VerificationTokenExpiresAt = s.now().Add(VerificationTokenTTL)

	s.users[cp.ID] = &cp
	s.byEmail[email] = cp.ID
	return copyUser(&cp), nil
}

func (s *Store) GenerateResetToken(_ context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[authkit.NormalizeEmail(email)]
	if !ok {
		return "", authkit.ErrUserNotFound
	}
	u := s.users[id]
	u.ResetToken = newToken()
	u.ResetTokenExpiresAt = s.now().Add(ResetTokenTTL)
	return u.ResetToken, nil
}

func (s *Store) ResetPassword(_ context.Context, resetToken, newPasswordHash string) error {
	if resetToken == "" {
		return authkit.ErrTokenInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ResetToken != resetToken {
			continue
		}
		if !u.ResetTokenExpiresAt.After(s.now()) {
			return authkit.ErrTokenExpired
		}
		u.PasswordHash = newPasswordHash
		u.ResetToken = ""
		u.ResetTokenExpiresAt = time.Time{}
		return nil
	}
	return authkit.ErrTokenInvalid
}

func (s *Store) VerifyEmail(_ context.Context, verificationToken string) error {
	if verificationToken == "" {
		return authkit.ErrTokenInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.VerificationToken != verificationToken {
			continue
		}
		if !u.VerificationTokenExpiresAt.After(s.now()) {
			return authkit.ErrTokenExpired
		}
		u.EmailVerified = true
		u.VerificationToken = ""
		u.VerificationTokenExpiresAt = time.Time{}
		return nil
	}
	return authkit.ErrTokenInvalid
}

func (s *Store) UpdateField(_ context.Context, userID string, field authkit.CredentialField, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return authkit.ErrUserNotFound
	}

	switch field {
	case authkit.FieldRefreshToken:
		u.RefreshToken = value
		if value == "" {
			u.RefreshTokenExpiresAt = time.Time{}
		}
	case authkit.FieldPasswordHash:
		if value == "" {
			return fmt.Errorf("%w: empty password hash", authkit.ErrInvalidField)
		}
		u.PasswordHash = value
	case authkit.FieldIsActive:
		active, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %q is not a boolean", authkit.ErrInvalidField, value)
		}
		u.IsActive = active
	default:
		return fmt.Errorf("%w: %q", authkit.ErrInvalidField, field)
	}
	return nil
}

func (s *Store) UpdateRefreshToken(_ context.Context, userID, refreshToken string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return authkit.ErrUserNotFound
	}
	u.RefreshToken = refreshToken
	u.RefreshTokenExpiresAt = expiresAt
	return nil
}

func (s *Store) EnableTwoFactor(_ context.Context, userID, secret string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return "", authkit.ErrUserNotFound
	}
	u.TOTPSecret = secret
	u.TwoFactorEnabled = true
	return u.Email, nil
}

func (s *Store) DisableTwoFactor(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return authkit.ErrUserNotFound
	}
	u.TOTPSecret = ""
	u.TwoFactorEnabled = false
	delete(s.codes, userID)
	return nil
}

func (s *Store) StoreBackupCodes(_ context.Context, userID string, hashedCodes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return authkit.ErrUserNotFound
	}
	records := make([]*codeRecord, len(hashedCodes))
	for i, h := range hashedCodes {
		records[i] = &codeRecord{id: uuid.NewString(), hash: h}
	}
	s.codes[userID] = records
	return nil
}

func (s *Store) GetUnusedBackupCodes(_ context.Context, userID string) ([]authkit.BackupCodeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return nil, authkit.ErrUserNotFound
	}
	var out []authkit.BackupCodeRecord
	for _, rec := range s.codes[userID] {
		if !rec.used {
			out = append(out, authkit.BackupCodeRecord{ID: rec.id, Hash: rec.hash})
		}
	}
	return out, nil
}

// MarkBackupCodeUsed flips the used flag under the store mutex, so exactly
// one of any number of concurrent callers for the same code succeeds.
func (s *Store) MarkBackupCodeUsed(_ context.Context, codeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, records := range s.codes {
		for _, rec := range records {
			if rec.id != codeID {
				continue
			}
			if rec.used {
				return authkit.ErrBackupCodeUsed
			}
			rec.used = true
			return nil
		}
	}
	return errors.New("memstore: unknown backup code id")
}

func copyUser(u *authkit.UserCredential) *authkit.UserCredential {
	cp := *u
	return &cp
}

func newToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("memstore: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
