package authkit

import (
	"context"
	"strings"
	"time"
)

// UserCredential is the account record the flows operate on. The store owns
// the canonical copy; the engine reads it, mutates it only through the
// narrow store operations, and never deletes it.
//
// Invariant: TwoFactorEnabled implies a non-empty TOTPSecret.
type UserCredential struct {
	ID            string
	Email         string // stored normalized: trimmed, lowercase
	PasswordHash  string
	EmailVerified bool
	IsActive      bool

	TOTPSecret       string // base32, empty until 2FA setup begins
	TwoFactorEnabled bool

	// At most one live refresh token per user. Issuing a new one
	// overwrites the previous value, ending that session.
	RefreshToken          string
	RefreshTokenExpiresAt time.Time

	// One-time tokens, managed by the store and cleared on consumption.
	ResetToken                 string
	ResetTokenExpiresAt        time.Time
	VerificationToken          string
	VerificationTokenExpiresAt time.Time
}

// BackupCodeRecord is one stored recovery code: its store-assigned id and
// the bcrypt hash of the canonical plaintext. Once marked used a record is
// permanently unusable.
type BackupCodeRecord struct {
	ID   string
	Hash string
}

// Condition selects a user for CredentialStore.FindByCondition. Exactly one
// field must be set per call.
type Condition struct {
	UserID       string
	Email        string
	RefreshToken string
}

// ByID selects a user by id.
func ByID(userID string) Condition { return Condition{UserID: userID} }

// ByEmail selects a user by normalized email.
func ByEmail(email string) Condition { return Condition{Email: email} }

// ByRefreshToken selects the user currently holding the given live,
// unexpired refresh token.
func ByRefreshToken(token string) Condition { return Condition{RefreshToken: token} }

// CredentialField names the columns reachable through
// CredentialStore.UpdateField.
type CredentialField string

const (
	// FieldRefreshToken sets the stored refresh-token value. Expiry is
	// untouched; full rotation goes through UpdateRefreshToken.
	FieldRefreshToken CredentialField = "refresh_token"
	// FieldPasswordHash replaces the stored password hash.
	FieldPasswordHash CredentialField = "password_hash"
	// FieldIsActive sets the active flag; the value is "true" or "false".
	FieldIsActive CredentialField = "is_active"
)

// CredentialStore is the persistence contract the engine consumes. SQL,
// document, or in-memory implementations are all fine as long as the
// semantics below hold.
//
// Implementations report failures with the package sentinels
// (ErrUserNotFound, ErrEmailExists, ErrTokenInvalid, ErrTokenExpired,
// ErrBackupCodeUsed, ErrInvalidField); the engine maps anything else to
// ErrInternal.
type CredentialStore interface {
	// FindByCondition returns the user matching the single populated
	// condition key, or ErrUserNotFound. Refresh-token lookups return a
	// user only while the token is the live, unexpired, currently stored
	// value for that user. That lookup IS the refresh validity check.
	FindByCondition(ctx context.Context, cond Condition) (*UserCredential, error)

	// Register persists a new user. When inviteToken is non-empty it is
	// validated and consumed in the same operation. The returned record
	// carries the store-assigned id and a fresh email-verification token.
	Register(ctx context.Context, user *UserCredential, inviteToken string) (*UserCredential, error)

	// GenerateResetToken creates and persists a password-reset token with
	// expiry for the account, returning the token for delivery.
	GenerateResetToken(ctx context.Context, email string) (string, error)

	// ResetPassword validates and consumes a reset token and installs the
	// new hash atomically: on ErrTokenInvalid or ErrTokenExpired nothing
	// is mutated.
	ResetPassword(ctx context.Context, resetToken, newPasswordHash string) error

	// VerifyEmail validates and consumes a verification token and marks
	// the address verified, atomically.
	VerifyEmail(ctx context.Context, verificationToken string) error

	// UpdateField performs a partial update of one column.
	UpdateField(ctx context.Context, userID string, field CredentialField, value string) error

	// UpdateRefreshToken stores a rotated refresh token and its expiry,
	// replacing any previous value for the user.
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiresAt time.Time) error

	// EnableTwoFactor stores the TOTP secret and flags the account
	// two-factor enabled, returning the account email for the
	// provisioning URI label.
	EnableTwoFactor(ctx context.Context, userID, secret string) (email string, err error)

	// DisableTwoFactor clears the secret, the enabled flag, and any
	// remaining backup codes.
	DisableTwoFactor(ctx context.Context, userID string) error

	// StoreBackupCodes replaces the user's backup-code set with the given
	// hashes. Any prior batch, used or not, is superseded.
	StoreBackupCodes(ctx context.Context, userID string, hashedCodes []string) error

	// GetUnusedBackupCodes lists the user's not-yet-consumed codes.
	GetUnusedBackupCodes(ctx context.Context, userID string) ([]BackupCodeRecord, error)

	// MarkBackupCodeUsed consumes one code. The used flag must be flipped
	// with an atomic check-and-set: a second caller, however concurrent,
	// gets ErrBackupCodeUsed.
	MarkBackupCodeUsed(ctx context.Context, codeID string) error
}

// TemplateKind selects an outbound email template.
type TemplateKind string

const (
	// TemplateVerifyEmail carries the email-verification token.
	TemplateVerifyEmail TemplateKind = "verify-email"
	// TemplatePasswordReset carries the password-reset token.
	TemplatePasswordReset TemplateKind = "password-reset"
	// TemplateInvitation carries a registration invite token.
	TemplateInvitation TemplateKind = "invitation"
)

// EmailSender delivers templated mail. The engine treats delivery as
// fire-and-forget: failures are logged, never surfaced to the end user.
type EmailSender interface {
	SendTemplatedEmail(ctx context.Context, to string, kind TemplateKind, params map[string]string) error
}

// RegisterRequest is the input to Engine.Register.
type RegisterRequest struct {
	Email    string
	Password string
	// InviteToken correlates the registration to an invitation when the
	// deployment requires one. Empty means open registration.
	InviteToken string
}

// LoginResult is returned by the login-family flows.
//
// When RequiresSecondFactor is set the result is partial: it carries only
// the user id, no tokens, and the client must complete the login with
// Engine.VerifyTwoFactorLogin or Engine.VerifyBackupCodeLogin.
type LoginResult struct {
	UserID string

	RequiresSecondFactor bool

	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

// TwoFactorSetup is returned by Engine.BeginTwoFactorSetup for display as
// a QR code plus manual-entry secret.
type TwoFactorSetup struct {
	Secret          string
	ProvisioningURI string
}

// NormalizeEmail trims whitespace and lowercases an address. Every lookup
// and write in this package goes through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
