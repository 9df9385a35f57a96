package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pca-portal/backend/internal/api/session"
	"pca-portal/backend/internal/policy"
	"pca-portal/backend/internal/service"
	apperrors "pca-portal/backend/pkg/errors"
	"pca-portal/backend/pkg/response"
)

const (
	msgInvalidInput = "Erro: Dados inválidos. Verifique os campos preenchidos."
	msgInvalidID    = "Erro: Identificador inválido."
)

// MustGetIdentity returns the identity injected by SessionAuth.
// Writes a 401 and returns false when it is missing; callers return right away.
func MustGetIdentity(c *gin.Context) (*policy.Identity, bool) {
	id := session.Identity(c)
	if id == nil {
		response.Unauthorized(c, response.CodeUnauthenticated, apperrors.Message(policy.ErrNotAuthenticated, ""))
		return nil, false
	}
	return id, true
}

// ParseID reads the :id path parameter
func ParseID(c *gin.Context) (uint, bool) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || v == 0 {
		response.BadRequest(c, response.CodeValidation, msgInvalidID)
		return 0, false
	}
	return uint(v), true
}

// respondError maps a service error onto the response envelope. Only messages
// declared by the services reach the client; anything else is a 500.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	msg := apperrors.Message(err, "")

	switch {
	// recovery links fail back to the login screen, not as a session problem
	case errors.Is(err, service.ErrResetTokenExpired):
		response.ErrorRedirect(c, http.StatusBadRequest, response.CodeTokenExpired, msg, response.LoginPage)
	case errors.Is(err, service.ErrResetTokenInvalid):
		response.ErrorRedirect(c, http.StatusBadRequest, response.CodeTokenInvalid, msg, response.LoginPage)
	case errors.Is(err, apperrors.ErrTokenExpired):
		response.Unauthorized(c, response.CodeTokenExpired, msg)
	case errors.Is(err, apperrors.ErrTokenInvalid):
		response.Unauthorized(c, response.CodeTokenInvalid, msg)
	case msg == "":
		response.InternalError(c)
	case errors.Is(err, apperrors.ErrUnauthenticated):
		response.Unauthorized(c, response.CodeUnauthenticated, msg)
	case errors.Is(err, apperrors.ErrDenied):
		response.Forbidden(c, response.CodeDenied, msg)
	case errors.Is(err, apperrors.ErrValidation):
		response.BadRequest(c, response.CodeValidation, msg)
	case errors.Is(err, apperrors.ErrNotFound):
		response.NotFound(c, response.CodeNotFound, msg)
	case errors.Is(err, apperrors.ErrConflict):
		response.Conflict(c, response.CodeConflict, msg)
	default:
		response.InternalError(c)
	}
}
