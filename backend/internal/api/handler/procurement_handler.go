package handler

import (
	"github.com/gin-gonic/gin"

	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/service"
	"pca-portal/backend/pkg/response"
)

// ProcurementHandler back-office dashboard and procurement records
type ProcurementHandler struct {
	procSvc service.ProcurementService
}

// NewProcurementHandler creates a ProcurementHandler
func NewProcurementHandler(procSvc service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{procSvc: procSvc}
}

// Dashboard records visible to the signed-in user
// GET /api/v1/admin/dashboard
func (h *ProcurementHandler) Dashboard(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	dash, err := h.procSvc.Dashboard(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, dash)
}

// GetProcurement
// GET /api/v1/admin/procurements/:id
func (h *ProcurementHandler) GetProcurement(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	procID, ok := ParseID(c)
	if !ok {
		return
	}

	proc, err := h.procSvc.Get(c.Request.Context(), id, procID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, proc)
}

// CreateProcurement
// POST /api/v1/admin/procurements
func (h *ProcurementHandler) CreateProcurement(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.ProcurementRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, msgInvalidInput)
		return
	}

	proc, err := h.procSvc.Create(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, service.MsgProcurementCreated, proc)
}

// UpdateProcurement
// PUT /api/v1/admin/procurements/:id
func (h *ProcurementHandler) UpdateProcurement(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	procID, ok := ParseID(c)
	if !ok {
		return
	}

	var req dto.ProcurementRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, msgInvalidInput)
		return
	}

	proc, err := h.procSvc.Update(c.Request.Context(), id, procID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OKMessage(c, service.MsgProcurementUpdated, response.DashboardPage, proc)
}

// DeleteProcurement
// DELETE /api/v1/admin/procurements/:id
func (h *ProcurementHandler) DeleteProcurement(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	procID, ok := ParseID(c)
	if !ok {
		return
	}

	if err := h.procSvc.Delete(c.Request.Context(), id, procID); err != nil {
		respondError(c, err)
		return
	}

	response.OKMessage(c, service.MsgProcurementDeleted, response.DashboardPage, nil)
}
