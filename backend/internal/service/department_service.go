package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/model"
	"pca-portal/backend/internal/policy"
	"pca-portal/backend/internal/repository"
	apperrors "pca-portal/backend/pkg/errors"
)

// ── department errors ──

var (
	ErrDepartmentNotFound     = apperrors.New(apperrors.ErrNotFound, "Erro: Secretaria não encontrada.")
	ErrDepartmentNameRequired = apperrors.New(apperrors.ErrValidation, "Erro: Informe o nome da secretaria.")
	ErrDepartmentNameExists   = apperrors.New(apperrors.ErrConflict, "Erro: Já existe uma secretaria cadastrada com este nome.")
	ErrDepartmentInUse        = apperrors.New(apperrors.ErrConflict, "Erro ao excluir: Esta secretaria possui usuários ou contratações vinculadas. Exclua-os primeiro.")
	ErrDepartmentWriteFailed  = apperrors.New(apperrors.ErrConflict, "Erro interno ao salvar a secretaria. Tente novamente mais tarde.")
)

const (
	MsgDepartmentCreated = "Secretaria cadastrada com sucesso!"
	MsgDepartmentUpdated = "Secretaria atualizada com sucesso!"
	MsgDepartmentDeleted = "Secretaria excluída com sucesso!"
)

// DepartmentService admin-only management of departments
type DepartmentService interface {
	List(ctx context.Context, id *policy.Identity) ([]dto.DepartmentResponse, error)
	Create(ctx context.Context, id *policy.Identity, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error)
	Update(ctx context.Context, id *policy.Identity, deptID uint, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error)
	Delete(ctx context.Context, id *policy.Identity, deptID uint) error
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService creates a DepartmentService
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *departmentService) List(ctx context.Context, id *policy.Identity) ([]dto.DepartmentResponse, error) {
	if err := policy.RequireAdmin(id); err != nil {
		return nil, err
	}

	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("falha ao listar secretarias", zap.Error(err))
		return nil, err
	}
	return toDepartmentResponses(depts), nil
}

// ────────────────────── Create ──────────────────────

// Create checks the name up front; the unique index is the backstop for a
// concurrent insert that slips between check and write.
func (s *departmentService) Create(ctx context.Context, id *policy.Identity, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error) {
	if err := policy.RequireAdmin(id); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrDepartmentNameRequired
	}

	existing, err := s.repo.Department.GetByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("falha ao consultar secretaria", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrDepartmentNameExists
	}

	dept := &model.Department{Name: name}
	if err := s.repo.Department.Create(ctx, dept); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDepartmentNameExists
		}
		s.logger.Error("falha ao cadastrar secretaria", zap.Error(err))
		return nil, ErrDepartmentWriteFailed
	}

	resp := toDepartmentResponse(dept)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *departmentService) Update(ctx context.Context, id *policy.Identity, deptID uint, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error) {
	if err := policy.RequireAdmin(id); err != nil {
		return nil, err
	}

	dept, err := s.repo.Department.GetByID(ctx, deptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("falha ao carregar secretaria", zap.Uint("id", deptID), zap.Error(err))
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrDepartmentNameRequired
	}

	if name != dept.Name {
		existing, err := s.repo.Department.GetByName(ctx, name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != dept.ID {
			return nil, ErrDepartmentNameExists
		}
		dept.Name = name
	}

	if err := s.repo.Department.Update(ctx, dept); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDepartmentNameExists
		}
		s.logger.Error("falha ao atualizar secretaria", zap.Uint("id", deptID), zap.Error(err))
		return nil, ErrDepartmentWriteFailed
	}

	resp := toDepartmentResponse(dept)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *departmentService) Delete(ctx context.Context, id *policy.Identity, deptID uint) error {
	if err := policy.RequireAdmin(id); err != nil {
		return err
	}

	if _, err := s.repo.Department.GetByID(ctx, deptID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		s.logger.Error("falha ao carregar secretaria", zap.Uint("id", deptID), zap.Error(err))
		return err
	}

	users, procurements, err := s.repo.Department.CountDependents(ctx, deptID)
	if err != nil {
		s.logger.Error("falha ao contar dependentes", zap.Uint("id", deptID), zap.Error(err))
		return err
	}
	if users > 0 || procurements > 0 {
		return ErrDepartmentInUse
	}

	if err := s.repo.Department.Delete(ctx, deptID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrDepartmentNotFound
		case errors.Is(err, repository.ErrReferenced):
			return ErrDepartmentInUse
		}
		s.logger.Error("falha ao excluir secretaria", zap.Uint("id", deptID), zap.Error(err))
		return ErrDepartmentWriteFailed
	}

	s.logger.Info("secretaria excluída", zap.Uint("id", deptID), zap.Uint("by", id.UserID))
	return nil
}
