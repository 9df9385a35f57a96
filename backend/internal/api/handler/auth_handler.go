package handler

import (
	"github.com/gin-gonic/gin"

	"pca-portal/backend/internal/api/session"
	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/service"
	"pca-portal/backend/pkg/response"
)

const msgLoggedIn = "Login realizado com sucesso."

// AuthHandler login, logout and password recovery
type AuthHandler struct {
	authSvc service.AuthService
	userSvc service.UserService
	cookie  *session.Cookie
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(authSvc service.AuthService, userSvc service.UserService, cookie *session.Cookie) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, userSvc: userSvc, cookie: cookie}
}

// Login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, msgInvalidInput)
		return
	}

	sess, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	ttl := h.authSvc.SessionTTL()
	h.cookie.Set(c, sess.Token, ttl)
	response.OKMessage(c, msgLoggedIn, response.DashboardPage, sess.Response(ttl))
}

// Logout works with or without a live session and always clears the cookie
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := h.cookie.Read(c); token != "" {
		if sess, err := h.authSvc.Authenticate(c.Request.Context(), token); err == nil {
			if err := h.authSvc.Logout(c.Request.Context(), sess.Claims); err != nil {
				_ = c.Error(err)
			}
		}
	}

	h.cookie.Clear(c)
	response.OKMessage(c, service.MsgLoggedOut, response.LoginPage, nil)
}

// Session current account and remaining inactivity window
// GET /api/v1/auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	if _, ok := MustGetIdentity(c); !ok {
		return
	}
	user := session.User(c)
	if user == nil {
		response.InternalError(c)
		return
	}
	response.OK(c, &dto.SessionResponse{User: *user, ExpiresIn: int(h.authSvc.SessionTTL().Seconds())})
}

// ForgotPassword
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, msgInvalidInput)
		return
	}

	msg := h.authSvc.RequestPasswordReset(c.Request.Context(), &req)
	response.OKMessage(c, msg, response.LoginPage, nil)
}

// VerifyResetToken lets the reset form reject a dead link before the user types
// GET /api/v1/auth/reset-password/:token
func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	if err := h.authSvc.VerifyResetToken(c.Request.Context(), c.Param("token")); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"valid": true})
}

// ResetPassword
// POST /api/v1/auth/reset-password/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.TokenResetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, msgInvalidInput)
		return
	}

	if err := h.authSvc.ResetPasswordWithToken(c.Request.Context(), c.Param("token"), &req); err != nil {
		respondError(c, err)
		return
	}

	response.OKMessage(c, service.MsgResetDone, response.LoginPage, nil)
}

// ChangePassword own credential; the session ends on success
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, msgInvalidInput)
		return
	}

	result, err := h.userSvc.ChangeOwnPassword(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.SessionEnded {
		endSession(c, h.authSvc, h.cookie)
	}
	response.OKMessage(c, service.MsgOwnPasswordChanged, response.LoginPage, result)
}

// endSession revokes the session attached to c and clears its cookie
func endSession(c *gin.Context, authSvc service.AuthService, cookie *session.Cookie) {
	if err := authSvc.Logout(c.Request.Context(), session.Claims(c)); err != nil {
		_ = c.Error(err)
	}
	cookie.Clear(c)
}
