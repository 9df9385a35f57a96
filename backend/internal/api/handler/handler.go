package handler

import (
	"pca-portal/backend/internal/api/session"
	"pca-portal/backend/internal/service"
)

// Handler aggregates every HTTP handler
type Handler struct {
	Auth        *AuthHandler
	Portal      *PortalHandler
	Procurement *ProcurementHandler
	Department  *DepartmentHandler
	User        *UserHandler
	Entity      *EntityHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(svc *service.Service, cookie *session.Cookie) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth, svc.User, cookie),
		Portal:      NewPortalHandler(svc.Portal, svc.Export),
		Procurement: NewProcurementHandler(svc.Procurement),
		Department:  NewDepartmentHandler(svc.Department),
		User:        NewUserHandler(svc.User, svc.Auth, cookie),
		Entity:      NewEntityHandler(svc.Entity),
	}
}
