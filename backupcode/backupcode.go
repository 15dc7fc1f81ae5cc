package backupcode

import (
	"crypto/rand"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Alphabet is the code character set. 0, O, 1 and I are excluded so codes
// survive being read aloud or retyped from paper.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Config tunes batch generation.
type Config struct {
	// Count is the batch size. Defaults to 10.
	Count int
	// Length is the number of alphabet characters per code (before the
	// display hyphen is inserted). Defaults to 10.
	Length int
	// HashCost is the bcrypt cost for at-rest hashes. Defaults to
	// bcrypt.DefaultCost.
	HashCost int
}

// Manager generates and verifies backup-code batches. Immutable after
// creation and safe for concurrent use.
type Manager struct {
	config Config
}

// New returns a Manager, filling unset Config fields with defaults.
func New(cfg Config) *Manager {
	if cfg.Count <= 0 {
		cfg.Count = 10
	}
	if cfg.Length <= 0 {
		cfg.Length = 10
	}
	if cfg.HashCost < bcrypt.MinCost || cfg.HashCost > bcrypt.MaxCost {
		cfg.HashCost = bcrypt.DefaultCost
	}
	return &Manager{config: cfg}
}

// GenerateBatch returns a fresh batch of plaintext codes and their hashed
// forms, index-aligned. The plaintext slice is the only copy that will ever
// exist; callers display it once and persist only the hashes.
func (m *Manager) GenerateBatch() (plaintext, hashed []string, err error) {
	plaintext = make([]string, 0, m.config.Count)
	hashed = make([]string, 0, m.config.Count)

	for i := 0; i < m.config.Count; i++ {
		raw, err := newCode(m.config.Length)
		if err != nil {
			return nil, nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(raw), m.config.HashCost)
		if err != nil {
			return nil, nil, err
		}
		plaintext = append(plaintext, Format(raw))
		hashed = append(hashed, string(hash))
	}

	return plaintext, hashed, nil
}

// Verify checks candidate against a set of stored hashes in order and
// returns the index of the first match, or -1. Codes are single-use, so
// first-match ordering has no security impact, only cost.
func (m *Manager) Verify(candidate string, hashes []string) int {
	canonical := Canonicalize(candidate)
	if canonical == "" {
		return -1
	}
	for i, hash := range hashes {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(canonical)) == nil {
			return i
		}
	}
	return -1
}

// Format inserts the display hyphen at the midpoint of a raw code.
func Format(code string) string {
	n := len(code)
	if n < 8 {
		return code
	}
	mid := n / 2
	return code[:mid] + "-" + code[mid:]
}

// Canonicalize uppercases a user-supplied code and strips whitespace and
// hyphens, recovering the raw form that was hashed.
func Canonicalize(code string) string {
	s := strings.ToUpper(strings.TrimSpace(code))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

func newCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	max := big.NewInt(int64(len(Alphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(Alphabet[n.Int64()])
	}
	return b.String(), nil
}
