package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"pca-portal/backend/config"
)

var (
	ErrTokenExpired = errors.New("sessão expirada")
	ErrTokenInvalid = errors.New("sessão inválida")
)

const issuer = "pca-portal"

// Claims session cookie payload
type Claims struct {
	UserID       uint   `json:"uid"`
	Login        string `json:"login"`
	DepartmentID uint   `json:"dept"`
	// AuthTime first login of this session; survives sliding renewals
	AuthTime *jwtv5.NumericDate `json:"auth_time"`
	// AuthMillis same instant as AuthTime in unix milliseconds
	AuthMillis int64 `json:"auth_ms,omitempty"`
	jwtv5.RegisteredClaims
}

// AuthenticatedAt login instant at millisecond precision
func (c *Claims) AuthenticatedAt() time.Time {
	if c.AuthMillis > 0 {
		return time.UnixMilli(c.AuthMillis).UTC()
	}
	if c.AuthTime != nil {
		return c.AuthTime.Time
	}
	return time.Time{}
}

// Manager signs and parses session tokens
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a session token manager
func NewManager(cfg *config.AuthConfig, opts ...Option) *Manager {
	m := &Manager{
		secret: []byte(cfg.SecretKey),
		ttl:    cfg.SessionTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL session inactivity window
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// GenerateSessionToken mints a fresh session with a new JTI
func (m *Manager) GenerateSessionToken(userID uint, login string, departmentID uint) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		UserID:       userID,
		Login:        login,
		DepartmentID: departmentID,
		AuthTime:     jwtv5.NewNumericDate(now),
		AuthMillis:   now.UnixMilli(),
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.ttl)),
			Issuer:    issuer,
		},
	}
	token, err := m.sign(claims)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Renew pushes the expiry of an existing session forward, keeping its JTI and AuthTime
func (m *Manager) Renew(c *Claims) (string, *Claims, error) {
	now := m.now()
	renewed := *c
	renewed.IssuedAt = jwtv5.NewNumericDate(now)
	renewed.ExpiresAt = jwtv5.NewNumericDate(now.Add(m.ttl))
	token, err := m.sign(&renewed)
	if err != nil {
		return "", nil, err
	}
	return token, &renewed, nil
}

func (m *Manager) sign(c *Claims) (string, error) {
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, c)
	return token.SignedString(m.secret)
}

// ParseToken verifies signature, issuer and expiry
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(issuer), jwtv5.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 || claims.AuthTime == nil {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// Remaining time left before the session expires
func (m *Manager) Remaining(c *Claims) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(m.now())
}
