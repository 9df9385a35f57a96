package service

import (
	"go.uber.org/zap"

	"pca-portal/backend/config"
	"pca-portal/backend/internal/repository"
	"pca-portal/backend/pkg/jwt"
	"pca-portal/backend/pkg/mail"
	"pca-portal/backend/pkg/timedtoken"
)

// Service aggregate of every service
type Service struct {
	Auth        AuthService
	Portal      PortalService
	Export      ExportService
	Procurement ProcurementService
	Department  DepartmentService
	User        UserService
	Entity      EntityService
	Bootstrap   BootstrapService
}

// Deps collaborators shared by the services
type Deps struct {
	JWT      *jwt.Manager
	Signer   *timedtoken.Signer
	Sessions SessionStore
	Mailer   mail.Sender
}

// NewService builds the aggregate
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	deps Deps,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:        NewAuthService(cfg, repo, deps.JWT, deps.Signer, deps.Sessions, deps.Mailer, logger),
		Portal:      NewPortalService(repo, logger),
		Export:      NewExportService(repo, cfg.Server.UploadDir, logger),
		Procurement: NewProcurementService(repo, logger),
		Department:  NewDepartmentService(repo, logger),
		User:        NewUserService(repo, logger),
		Entity:      NewEntityService(repo, cfg.Server.UploadDir, cfg.Server.MaxUploadBytes, logger),
		Bootstrap:   NewBootstrapService(&cfg.Bootstrap, repo, logger),
	}
}
