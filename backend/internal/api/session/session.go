// Package session carries the signed session token in an HttpOnly cookie and
// the resolved identity in the gin context.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pca-portal/backend/config"
	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/policy"
	"pca-portal/backend/pkg/jwt"
)

const (
	identityKey = "session_identity"
	claimsKey   = "session_claims"
	userKey     = "session_user"
)

// Cookie writes and reads the session cookie
type Cookie struct {
	name     string
	domain   string
	secure   bool
	sameSite http.SameSite
}

// NewCookie builds a Cookie from configuration
func NewCookie(cfg *config.CookieConfig) *Cookie {
	return &Cookie{
		name:     cfg.Name,
		domain:   cfg.Domain,
		secure:   cfg.Secure,
		sameSite: parseSameSite(cfg.SameSite),
	}
}

func parseSameSite(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// Name cookie name
func (k *Cookie) Name() string {
	return k.name
}

// Set stores token for ttl
func (k *Cookie) Set(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(k.sameSite)
	c.SetCookie(k.name, token, int(ttl.Seconds()), "/", k.domain, k.secure, true)
}

// Clear expires the cookie in the browser
func (k *Cookie) Clear(c *gin.Context) {
	c.SetSameSite(k.sameSite)
	c.SetCookie(k.name, "", -1, "/", k.domain, k.secure, true)
}

// Read returns the token or ""
func (k *Cookie) Read(c *gin.Context) string {
	v, err := c.Cookie(k.name)
	if err != nil {
		return ""
	}
	return v
}

// ── gin context ──

// Store attaches the authenticated identity and its claims to the request
func Store(c *gin.Context, id *policy.Identity, claims *jwt.Claims) {
	c.Set(identityKey, id)
	c.Set(claimsKey, claims)
}

// Identity the authenticated identity, nil without a session
func Identity(c *gin.Context) *policy.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*policy.Identity)
	return id
}

// Claims claims of the current session, nil without a session
func Claims(c *gin.Context) *jwt.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}

// SetUser keeps the reloaded account so handlers need not query it again
func SetUser(c *gin.Context, u *dto.UserResponse) {
	c.Set(userKey, u)
}

// User account of the current session, nil without a session
func User(c *gin.Context) *dto.UserResponse {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*dto.UserResponse)
	return u
}
