package totp

import (
	"crypto/rand"
	"encoding/base32"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// SecretBytes is the raw entropy of a generated shared secret.
const SecretBytes = 20

// Config tunes code generation and verification.
type Config struct {
	// Issuer is the name shown by authenticator apps next to the account.
	Issuer string
	// Digits per code. Defaults to 6.
	Digits int
	// Period is the step length in seconds. Defaults to 30.
	Period uint
	// Skew is the drift window: the number of adjacent steps accepted on
	// either side of the current one. Defaults to 1 (±30s at the default
	// period).
	Skew uint
}

// Manager generates secrets and verifies codes. Immutable after creation
// and safe for concurrent use.
type Manager struct {
	config Config
}

// New returns a Manager, filling unset Config fields with defaults.
func New(cfg Config) *Manager {
	if cfg.Digits <= 0 {
		cfg.Digits = 6
	}
	if cfg.Period == 0 {
		cfg.Period = 30
	}
	if cfg.Skew == 0 {
		cfg.Skew = 1
	}
	return &Manager{config: cfg}
}

// GenerateSecret returns a fresh 20-byte shared secret, base32-encoded
// without padding.
func (m *Manager) GenerateSecret() (string, error) {
	raw := make([]byte, SecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw), nil
}

// ProvisioningURI builds the otpauth://totp/ enrollment URI for the given
// account and secret, suitable for QR-code display.
func (m *Manager) ProvisioningURI(account, secret string) string {
	label := url.PathEscape(m.config.Issuer + ":" + account)

	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", m.config.Issuer)
	v.Set("period", strconv.FormatUint(uint64(m.config.Period), 10))
	v.Set("digits", strconv.Itoa(m.config.Digits))
	v.Set("algorithm", "SHA1")

	return "otpauth://totp/" + label + "?" + v.Encode()
}

// Verify reports whether code is valid for secret at the current time.
func (m *Manager) Verify(secret, code string) bool {
	return m.VerifyAt(secret, code, time.Now())
}

// VerifyAt reports whether code is valid for secret at time t. A code is
// accepted when it matches the step containing t or any step within the
// drift window; nothing widens the window beyond the configured skew.
func (m *Manager) VerifyAt(secret, code string, t time.Time) bool {
	trimmed := strings.TrimSpace(code)
	if len(trimmed) != m.config.Digits {
		return false
	}
	ok, err := totp.ValidateCustom(trimmed, secret, t, m.validateOpts())
	if err != nil {
		return false
	}
	return ok
}

// GenerateCode returns the code valid for secret at time t. Exposed for
// setup verification round trips and tests.
func (m *Manager) GenerateCode(secret string, t time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, t, m.validateOpts())
}

func (m *Manager) validateOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    m.config.Period,
		Skew:      m.config.Skew,
		Digits:    otp.Digits(m.config.Digits),
		Algorithm: otp.AlgorithmSHA1,
	}
}
