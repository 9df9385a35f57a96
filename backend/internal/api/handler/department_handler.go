package handler

import (
	"github.com/gin-gonic/gin"

	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/service"
	"pca-portal/backend/pkg/response"
)

// DepartmentHandler department management (admin)
type DepartmentHandler struct {
	deptSvc service.DepartmentService
}

// NewDepartmentHandler creates a DepartmentHandler
func NewDepartmentHandler(deptSvc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc}
}

// ListDepartments
// GET /api/v1/admin/departments
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	depts, err := h.deptSvc.List(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, gin.H{"list": depts})
}

// CreateDepartment
// POST /api/v1/admin/departments
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.DepartmentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, msgInvalidInput)
		return
	}

	dept, err := h.deptSvc.Create(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, service.MsgDepartmentCreated, dept)
}

// UpdateDepartment
// PUT /api/v1/admin/departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	deptID, ok := ParseID(c)
	if !ok {
		return
	}

	var req dto.DepartmentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, msgInvalidInput)
		return
	}

	dept, err := h.deptSvc.Update(c.Request.Context(), id, deptID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OKMessage(c, service.MsgDepartmentUpdated, "", dept)
}

// DeleteDepartment refused while users or procurements still point at it
// DELETE /api/v1/admin/departments/:id
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	deptID, ok := ParseID(c)
	if !ok {
		return
	}

	if err := h.deptSvc.Delete(c.Request.Context(), id, deptID); err != nil {
		respondError(c, err)
		return
	}

	response.OKMessage(c, service.MsgDepartmentDeleted, "", nil)
}
