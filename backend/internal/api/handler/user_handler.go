package handler

import (
	"github.com/gin-gonic/gin"

	"pca-portal/backend/internal/api/session"
	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/service"
	"pca-portal/backend/pkg/response"
)

// UserHandler account management (admin)
type UserHandler struct {
	userSvc service.UserService
	authSvc service.AuthService
	cookie  *session.Cookie
}

// NewUserHandler creates a UserHandler
func NewUserHandler(userSvc service.UserService, authSvc service.AuthService, cookie *session.Cookie) *UserHandler {
	return &UserHandler{userSvc: userSvc, authSvc: authSvc, cookie: cookie}
}

// ListUsers
// GET /api/v1/admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	users, err := h.userSvc.List(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, gin.H{"list": users})
}

// CreateUser
// POST /api/v1/admin/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, msgInvalidInput)
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, service.MsgUserCreated, user)
}

// UpdateUser
// PUT /api/v1/admin/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	userID, ok := ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, msgInvalidInput)
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OKMessage(c, service.MsgUserUpdated, "", user)
}

// DeleteUser
// DELETE /api/v1/admin/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	userID, ok := ParseID(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}

	response.OKMessage(c, service.MsgUserDeleted, "", nil)
}

// ResetPassword sets a new credential for any account. Resetting the admin's
// own row ends the admin's session.
// PUT /api/v1/admin/users/:id/password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	userID, ok := ParseID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, msgInvalidInput)
		return
	}

	result, err := h.userSvc.ResetPassword(c.Request.Context(), id, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.SessionEnded {
		endSession(c, h.authSvc, h.cookie)
		response.OKMessage(c, service.MsgOwnPasswordResetDone, response.LoginPage, result)
		return
	}
	response.OKMessage(c, service.MsgUserPasswordReset, "", result)
}
