package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/repository"
)

// PortalService anonymous disclosure of every department's records
type PortalService interface {
	Home(ctx context.Context, q *dto.FilterQuery) (*dto.PortalResponse, error)
}

type portalService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewPortalService creates a PortalService
func NewPortalService(repo *repository.Repository, logger *zap.Logger) PortalService {
	return &portalService{repo: repo, logger: logger, now: time.Now}
}

// Home the filtered listing plus what the filter form needs
func (s *portalService) Home(ctx context.Context, q *dto.FilterQuery) (*dto.PortalResponse, error) {
	filter, err := parseFilter(q)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.Procurement.List(ctx, filter)
	if err != nil {
		s.logger.Error("falha ao listar contratações públicas", zap.Error(err))
		return nil, err
	}

	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("falha ao listar secretarias", zap.Error(err))
		return nil, err
	}

	years, err := s.repo.Procurement.FiscalYears(ctx)
	if err != nil {
		s.logger.Error("falha ao listar exercícios", zap.Error(err))
		return nil, err
	}

	entity, err := loadEntity(ctx, s.repo)
	if err != nil {
		s.logger.Error("falha ao carregar ente", zap.Error(err))
		return nil, err
	}

	resp := &dto.PortalResponse{
		Entity:       toEntityResponse(entity),
		Departments:  toDepartmentResponses(depts),
		FiscalYears:  years,
		Procurements: toProcurementResponses(list),
		CurrentYear:  s.now().Year(),
	}
	if q != nil {
		resp.Filter = *q
	}
	if resp.FiscalYears == nil {
		resp.FiscalYears = []int{}
	}

	last, err := s.repo.Procurement.LastModified(ctx)
	if err != nil {
		s.logger.Warn("falha ao consultar última modificação", zap.Error(err))
	} else if last != nil {
		resp.LastModified = last.Format(timestampLayout)
	}

	return resp, nil
}
