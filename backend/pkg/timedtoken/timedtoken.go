// Package timedtoken issues short-lived, purpose-scoped tokens that bind a
// single claim (an email address for password recovery).
//
// A token is a compact HS256 JWT. The signing key is derived from the shared
// secret and the purpose, so a token minted for one purpose never verifies
// under another even though the secret is the same. Age is checked against
// the issued-at second rather than an embedded expiry, which lets the
// verifier choose the maximum age.
package timedtoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// PurposeRecovery password recovery links
const PurposeRecovery = "recovery"

var (
	ErrTokenExpired  = errors.New("timedtoken: token expired")
	ErrTokenTampered = errors.New("timedtoken: bad signature")
)

// Signer issues and verifies timed tokens
type Signer struct {
	secret []byte
	now    func() time.Time
}

// Option configures a Signer
type Option func(*Signer)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Signer) { s.now = now }
}

// NewSigner creates a signer over the process-wide secret
func NewSigner(secret string, opts ...Option) *Signer {
	s := &Signer{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Signer) key(purpose string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte("timedtoken." + purpose))
	return mac.Sum(nil)
}

// Issue signs claim for purpose, stamped with the current second
func (s *Signer) Issue(claim, purpose string) (string, error) {
	claims := jwtv5.RegisteredClaims{
		Subject:  claim,
		Audience: jwtv5.ClaimStrings{purpose},
		IssuedAt: jwtv5.NewNumericDate(s.now()),
	}
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(s.key(purpose))
}

// Verify returns the claim of a token issued for purpose no more than maxAge ago.
// The signature is checked before the age.
func (s *Signer) Verify(token, purpose string, maxAge time.Duration) (string, error) {
	var claims jwtv5.RegisteredClaims
	_, err := jwtv5.ParseWithClaims(token, &claims,
		func(t *jwtv5.Token) (interface{}, error) {
			return s.key(purpose), nil
		},
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithAudience(purpose),
		jwtv5.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", ErrTokenTampered
	}
	if claims.IssuedAt == nil || claims.Subject == "" {
		return "", ErrTokenTampered
	}

	age := s.now().Truncate(time.Second).Sub(claims.IssuedAt.Time)
	if age > maxAge {
		return "", ErrTokenExpired
	}
	return claims.Subject, nil
}
