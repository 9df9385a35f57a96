package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/service"
	"pca-portal/backend/pkg/response"
)

// PortalHandler public disclosure page and its exports. No session required.
type PortalHandler struct {
	portalSvc service.PortalService
	exportSvc service.ExportService
}

// NewPortalHandler creates a PortalHandler
func NewPortalHandler(portalSvc service.PortalService, exportSvc service.ExportService) *PortalHandler {
	return &PortalHandler{portalSvc: portalSvc, exportSvc: exportSvc}
}

// Home filtered listing
// GET /api/v1/portal?department_id=&fiscal_year=&code=
func (h *PortalHandler) Home(c *gin.Context) {
	var q dto.FilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeValidation, msgInvalidInput)
		return
	}

	page, err := h.portalSvc.Home(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, page)
}

// ExportExcel spreadsheet of the filtered listing
// GET /api/v1/portal/export/excel
func (h *PortalHandler) ExportExcel(c *gin.Context) {
	var q dto.FilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeValidation, msgInvalidInput)
		return
	}

	buf, filename, err := h.exportSvc.ExportExcel(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Attachment(c, filename, service.XLSXContentType, buf.Bytes())
}

// ExportDocument printable report, saved as PDF from the browser
// GET /api/v1/portal/export/pdf
func (h *PortalHandler) ExportDocument(c *gin.Context) {
	var q dto.FilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeValidation, msgInvalidInput)
		return
	}

	buf, err := h.exportSvc.ExportDocument(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
