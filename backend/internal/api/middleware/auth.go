package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"pca-portal/backend/internal/api/session"
	"pca-portal/backend/internal/policy"
	"pca-portal/backend/internal/service"
	apperrors "pca-portal/backend/pkg/errors"
	"pca-portal/backend/pkg/response"
)

// SessionAuth validates the session cookie on every back-office request and
// slides its expiry forward. A failed check clears the cookie.
func SessionAuth(authSvc service.AuthService, cookie *session.Cookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.Read(c)
		if token == "" {
			response.Unauthorized(c, response.CodeUnauthenticated, apperrors.Message(policy.ErrNotAuthenticated, ""))
			c.Abort()
			return
		}

		sess, err := authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			cookie.Clear(c)
			code := response.CodeTokenInvalid
			if errors.Is(err, apperrors.ErrTokenExpired) {
				code = response.CodeTokenExpired
			}
			response.Unauthorized(c, code, apperrors.Message(err, apperrors.Message(service.ErrSessionInvalid, "")))
			c.Abort()
			return
		}

		cookie.Set(c, sess.Token, authSvc.SessionTTL())
		session.Store(c, sess.Identity, sess.Claims)
		session.SetUser(c, sess.User)

		c.Next()
	}
}

// AdminOnly restricts a route group to the superuser
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := policy.RequireAdmin(session.Identity(c)); err != nil {
			if errors.Is(err, apperrors.ErrUnauthenticated) {
				response.Unauthorized(c, response.CodeUnauthenticated, apperrors.Message(err, ""))
			} else {
				response.Forbidden(c, response.CodeDenied, apperrors.Message(err, ""))
			}
			c.Abort()
			return
		}

		c.Next()
	}
}
