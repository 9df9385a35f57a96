package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/service"
	"pca-portal/backend/pkg/response"
)

const logoField = "logo"

// EntityHandler government body data shown in every page header
type EntityHandler struct {
	entitySvc service.EntityService
}

// NewEntityHandler creates an EntityHandler
func NewEntityHandler(entitySvc service.EntityService) *EntityHandler {
	return &EntityHandler{entitySvc: entitySvc}
}

// GetEntity
// GET /api/v1/entity
func (h *EntityHandler) GetEntity(c *gin.Context) {
	entity, err := h.entitySvc.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, entity)
}

// UpdateEntity multipart form; the logo file is optional
// PUT /api/v1/admin/entity
func (h *EntityHandler) UpdateEntity(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.EntityRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, msgInvalidInput)
		return
	}

	var logo *service.LogoUpload
	file, header, err := c.Request.FormFile(logoField)
	switch {
	case err == nil:
		defer file.Close()
		logo = &service.LogoUpload{Filename: header.Filename, Content: file}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		response.BadRequest(c, response.CodeValidation, msgInvalidInput)
		return
	}

	entity, err := h.entitySvc.Update(c.Request.Context(), id, &req, logo)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OKMessage(c, service.MsgEntityUpdated, "", entity)
}
