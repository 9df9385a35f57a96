package service

import (
	"strconv"
	"strings"
	"time"

	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/model"
	"pca-portal/backend/internal/repository"
	"pca-portal/backend/pkg/currency"
	apperrors "pca-portal/backend/pkg/errors"
)

// LogoURLPrefix public path the upload directory is served under
const LogoURLPrefix = "/uploads/"

const timestampLayout = "02/01/2006 15:04"

// ── filter ──

var ErrInvalidFilter = apperrors.New(apperrors.ErrValidation, "Erro: Filtro de pesquisa inválido.")

// parseFilter is the only place the public filter parameters are interpreted;
// the public listing and both exports go through it
func parseFilter(q *dto.FilterQuery) (repository.ProcurementFilter, error) {
	var f repository.ProcurementFilter
	if q == nil {
		return f, nil
	}

	switch dept := strings.TrimSpace(q.DepartmentID); strings.ToLower(dept) {
	case "", "todas", "all":
	default:
		id, err := strconv.ParseUint(dept, 10, 64)
		if err != nil || id == 0 {
			return f, ErrInvalidFilter
		}
		v := uint(id)
		f.DepartmentID = &v
	}

	if year := strings.TrimSpace(q.FiscalYear); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			return f, ErrInvalidFilter
		}
		f.FiscalYear = &y
	}

	f.Code = strings.TrimSpace(q.Code)
	return f, nil
}

// ── model → dto ──

func toDepartmentResponse(d *model.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{ID: d.ID, Name: d.Name}
}

func toDepartmentResponses(depts []model.Department) []dto.DepartmentResponse {
	out := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		out = append(out, toDepartmentResponse(&depts[i]))
	}
	return out
}

func toUserResponse(u *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:      u.ID,
		Name:    u.Name,
		Login:   u.Login,
		Email:   u.EmailValue(),
		IsAdmin: u.IsAdmin(),
	}
	if u.Department != nil {
		dept := toDepartmentResponse(u.Department)
		resp.Department = &dept
	}
	return resp
}

func toProcurementResponse(p *model.Procurement) dto.ProcurementResponse {
	resp := dto.ProcurementResponse{
		ID:                p.ID,
		Code:              p.CodeValue(),
		FiscalYear:        p.FiscalYear,
		Subject:           p.Subject,
		Description:       p.Description,
		EstimatedValue:    p.EstimatedValue.StringFixed(2),
		EstimatedValueBRL: currency.FormatBRL(p.EstimatedValue),
		BudgetLine:        p.BudgetLine,
		Department:        dto.DepartmentResponse{ID: p.DepartmentID, Name: p.DepartmentName()},
	}
	if !p.PlannedDate.IsZero() {
		resp.PlannedDate = p.PlannedDate.Format(model.DateLayout)
	}
	if !p.UpdatedAt.IsZero() {
		resp.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func toProcurementResponses(list []model.Procurement) []dto.ProcurementResponse {
	out := make([]dto.ProcurementResponse, 0, len(list))
	for i := range list {
		out = append(out, toProcurementResponse(&list[i]))
	}
	return out
}

func toEntityResponse(e *model.Entity) dto.EntityResponse {
	resp := dto.EntityResponse{
		Name:    e.Name,
		Address: e.Address,
		Phone:   e.Phone,
		Email:   e.Email,
	}
	if e.LogoPath != nil && *e.LogoPath != "" {
		resp.LogoURL = LogoURLPrefix + *e.LogoPath
	}
	return resp
}
