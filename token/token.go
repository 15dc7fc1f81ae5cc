package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RefreshTokenBytes is the raw entropy of an issued refresh token.
const RefreshTokenBytes = 64

const minSigningKeyBytes = 32

// Config holds process-level signing configuration. Key, issuer and
// audience are deployment settings, never user input.
type Config struct {
	SigningKey []byte
	Issuer     string
	Audience   string
	// AccessTTL is the access-token lifetime. Defaults to 15 minutes.
	AccessTTL time.Duration
}

// AccessClaims is the claim set of an issued access token.
type AccessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer mints access and refresh tokens. Immutable after creation and
// safe for concurrent use.
type Issuer struct {
	config Config
}

// NewIssuer validates cfg and returns an Issuer.
func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.SigningKey) < minSigningKeyBytes {
		return nil, errors.New("signing key must be at least 32 bytes")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	return &Issuer{config: cfg}, nil
}

// IssueAccessToken signs a token with subject userID and the email claim,
// expiring after the configured access TTL.
func (i *Issuer) IssueAccessToken(email, userID string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    i.config.Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.config.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if i.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{i.config.Audience}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.config.SigningKey)
}

// ParseAccessToken verifies signature, expiry, issuer and audience of an
// access token and returns its claims.
func (i *Issuer) ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if i.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(i.config.Issuer))
	}
	if i.config.Audience != "" {
		options = append(options, jwt.WithAudience(i.config.Audience))
	}

	parsed, err := jwt.NewParser(options...).ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return i.config.SigningKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// IssueRefreshToken returns a fresh opaque refresh token and its expiry
// instant. The token is never interpreted by clients or by this package
// again; validity is solely "the store still holds this exact value,
// unexpired, for some user".
func (i *Issuer) IssueRefreshToken(ttl time.Duration) (string, time.Time, error) {
	raw := make([]byte, RefreshTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", time.Time{}, err
	}
	return base64.RawURLEncoding.EncodeToString(raw), time.Now().Add(ttl), nil
}
