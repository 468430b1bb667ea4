package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wolfeidau/omnigate/internal/models"
)

// Token verification failure modes. The gate collapses all of these into a
// single client-visible INVALID_TOKEN; logs keep the distinction.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
	ErrMissingClaim   = errors.New("token missing required claim")
	ErrInvalidSubject = errors.New("token subject is not a valid user id")
)

// Principal identifies the authenticated caller for the lifetime of one
// request. It is derived from the token's subject claim and never persisted.
type Principal struct {
	UserID string
}

// Config holds the token signing parameters. It is constructed once at
// process start and passed by injection; the codec never reads globals.
type Config struct {
	// Secret is the server-held HMAC signing key. Must be at least 32 bytes.
	Secret []byte

	// Algorithm selects the HMAC signing method: HS256 (default), HS384 or
	// HS512. Asymmetric algorithms are deliberately not supported; rejecting
	// them at verify time closes the algorithm-confusion hole.
	Algorithm string

	// TTL is the default token lifetime used when Issue is called with a
	// non-positive ttl. Defaults to 30 minutes.
	TTL time.Duration
}

const issuer = "omnigate"

// DefaultTTL is the token lifetime used when none is configured.
const DefaultTTL = 30 * time.Minute

// Codec issues and verifies signed, expiring bearer tokens. The subject
// claim carries a validated user id only; the active tenant is resolved per
// request, never embedded in the token.
type Codec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
}

// NewCodec creates a token codec from the given config.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) < 32 {
		return nil, errors.New("signing secret must be at least 32 bytes (256 bits)")
	}

	var method *jwt.SigningMethodHMAC
	switch cfg.Algorithm {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Codec{
		secret: cfg.Secret,
		method: method,
		ttl:    ttl,
	}, nil
}

// Issue creates a signed token for the given subject. A non-positive ttl
// selects the configured default.
func (c *Codec) Issue(subject string, ttl time.Duration) (string, error) {
	if !models.IsUserID(subject) {
		return "", ErrInvalidSubject
	}

	if ttl <= 0 {
		ttl = c.ttl
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// Verify parses and validates a token, returning the principal it speaks
// for. All failures map to one of the sentinel errors above.
func (c *Codec) Verify(tokenStr string) (*Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != c.method {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrTokenMalformed, err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}

	// exp is optional to the library but mandatory here
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: exp", ErrMissingClaim)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	// The subject must be user-id shaped. Tokens carrying emails or tenant
	// ids predate the current convention and are rejected outright.
	if !models.IsUserID(claims.Subject) {
		return nil, ErrInvalidSubject
	}

	return &Principal{UserID: claims.Subject}, nil
}
