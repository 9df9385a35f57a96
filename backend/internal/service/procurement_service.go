package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/model"
	"pca-portal/backend/internal/policy"
	"pca-portal/backend/internal/repository"
	"pca-portal/backend/pkg/currency"
	apperrors "pca-portal/backend/pkg/errors"
)

// ── procurement errors ──

var (
	ErrProcurementNotFound     = apperrors.New(apperrors.ErrNotFound, "Erro: Contratação não encontrada.")
	ErrInvalidEstimatedValue   = apperrors.New(apperrors.ErrValidation, "Erro: O valor estimado inserido tem um formato inválido.")
	ErrInvalidPlannedDate      = apperrors.New(apperrors.ErrValidation, "Erro: A data planejada informada é inválida.")
	ErrDepartmentRequired      = apperrors.New(apperrors.ErrValidation, "Erro: Selecione a secretaria responsável.")
	ErrSubjectRequired         = apperrors.New(apperrors.ErrValidation, "Erro: Informe o objeto da contratação.")
	ErrProcurementCreateFailed = apperrors.New(apperrors.ErrConflict, "Erro interno ao cadastrar a contratação. Verifique os dados e tente novamente.")
	ErrProcurementUpdateFailed = apperrors.New(apperrors.ErrConflict, "Erro interno ao atualizar a contratação.")
	ErrProcurementDeleteFailed = apperrors.New(apperrors.ErrConflict, "Erro interno ao excluir a contratação.")
)

// maxEstimatedValue first amount that no longer fits valor_estimado decimal(15,2)
var maxEstimatedValue = decimal.New(1, 13)

const (
	MsgProcurementCreated = "Item do PCA cadastrado com sucesso!"
	MsgProcurementUpdated = "Contratação atualizada com sucesso!"
	MsgProcurementDeleted = "Contratação excluída com sucesso!"
)

// ProcurementService record lifecycle behind the back office
type ProcurementService interface {
	Dashboard(ctx context.Context, id *policy.Identity) (*dto.DashboardResponse, error)
	Get(ctx context.Context, id *policy.Identity, procurementID uint) (*dto.ProcurementResponse, error)
	Create(ctx context.Context, id *policy.Identity, req *dto.ProcurementRequest) (*dto.ProcurementResponse, error)
	Update(ctx context.Context, id *policy.Identity, procurementID uint, req *dto.ProcurementRequest) (*dto.ProcurementResponse, error)
	Delete(ctx context.Context, id *policy.Identity, procurementID uint) error
}

type procurementService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProcurementService creates a ProcurementService
func NewProcurementService(repo *repository.Repository, logger *zap.Logger) ProcurementService {
	return &procurementService{repo: repo, logger: logger}
}

// ────────────────────── Dashboard ──────────────────────

func (s *procurementService) Dashboard(ctx context.Context, id *policy.Identity) (*dto.DashboardResponse, error) {
	if id == nil {
		return nil, policy.ErrNotAuthenticated
	}

	filter := repository.ProcurementFilter{DepartmentID: policy.VisibleDepartment(id)}
	list, err := s.repo.Procurement.List(ctx, filter)
	if err != nil {
		s.logger.Error("falha ao listar contratações", zap.Error(err))
		return nil, err
	}

	var depts []model.Department
	if id.IsAdmin() {
		depts, err = s.repo.Department.List(ctx)
		if err != nil {
			s.logger.Error("falha ao listar secretarias", zap.Error(err))
			return nil, err
		}
	} else {
		own, err := s.repo.Department.GetByID(ctx, id.DepartmentID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("falha ao carregar secretaria", zap.Uint("id", id.DepartmentID), zap.Error(err))
			return nil, err
		}
		if own != nil {
			depts = []model.Department{*own}
		}
	}

	user := dto.UserResponse{ID: id.UserID, Login: id.Login, IsAdmin: id.IsAdmin()}
	if u, err := s.repo.User.GetByID(ctx, id.UserID); err == nil {
		user = *toUserResponse(u)
	}

	return &dto.DashboardResponse{
		User:         user,
		Procurements: toProcurementResponses(list),
		Departments:  toDepartmentResponses(depts),
	}, nil
}

// ────────────────────── Get ──────────────────────

func (s *procurementService) Get(ctx context.Context, id *policy.Identity, procurementID uint) (*dto.ProcurementResponse, error) {
	p, err := s.load(ctx, procurementID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanMutate(id, p.DepartmentID, policy.ActionUpdate); err != nil {
		return nil, err
	}
	resp := toProcurementResponse(p)
	return &resp, nil
}

// ────────────────────── Create ──────────────────────

// Create validates everything first, then inserts and stamps the identifier
// inside one transaction.
func (s *procurementService) Create(ctx context.Context, id *policy.Identity, req *dto.ProcurementRequest) (*dto.ProcurementResponse, error) {
	if id == nil {
		return nil, policy.ErrNotAuthenticated
	}

	deptID := policy.ResolveDepartment(id, req.DepartmentID, 0)
	if deptID == 0 {
		return nil, ErrDepartmentRequired
	}
	if err := policy.CanMutate(id, deptID, policy.ActionCreate); err != nil {
		return nil, err
	}

	p := &model.Procurement{DepartmentID: deptID}
	if err := applyProcurementFields(p, req); err != nil {
		return nil, err
	}
	if err := s.ensureDepartment(ctx, deptID); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("falha ao abrir transação", zap.Error(err))
		return nil, ErrProcurementCreateFailed
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Procurement.Create(ctx, p); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("falha ao inserir contratação", zap.Error(err))
		return nil, ErrProcurementCreateFailed
	}

	code := model.ProcurementCode(p.ID, p.FiscalYear, p.DepartmentID)
	if err := txRepo.Procurement.SetCode(ctx, p.ID, code); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("falha ao gravar código da contratação", zap.Uint("id", p.ID), zap.Error(err))
		return nil, ErrProcurementCreateFailed
	}
	p.Code = &code

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("falha ao confirmar transação", zap.Error(err))
			return nil, ErrProcurementCreateFailed
		}
	}

	s.logger.Info("contratação cadastrada",
		zap.Uint("id", p.ID),
		zap.String("code", code),
		zap.Uint("by", id.UserID),
	)

	created, err := s.repo.Procurement.GetByID(ctx, p.ID)
	if err != nil {
		resp := toProcurementResponse(p)
		return &resp, nil
	}
	resp := toProcurementResponse(created)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

// Update never recomputes the identifier; only the admin may move a record
// to another department.
func (s *procurementService) Update(ctx context.Context, id *policy.Identity, procurementID uint, req *dto.ProcurementRequest) (*dto.ProcurementResponse, error) {
	if id == nil {
		return nil, policy.ErrNotAuthenticated
	}

	p, err := s.load(ctx, procurementID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanMutate(id, p.DepartmentID, policy.ActionUpdate); err != nil {
		return nil, err
	}

	if err := applyProcurementFields(p, req); err != nil {
		return nil, err
	}

	if target := policy.ResolveDepartment(id, req.DepartmentID, p.DepartmentID); id.IsAdmin() && target != p.DepartmentID {
		if err := s.ensureDepartment(ctx, target); err != nil {
			return nil, err
		}
		p.DepartmentID = target
		p.Department = nil
	}

	if err := s.repo.Procurement.Update(ctx, p); err != nil {
		s.logger.Error("falha ao atualizar contratação", zap.Uint("id", procurementID), zap.Error(err))
		return nil, ErrProcurementUpdateFailed
	}

	updated, err := s.repo.Procurement.GetByID(ctx, procurementID)
	if err != nil {
		resp := toProcurementResponse(p)
		return &resp, nil
	}
	resp := toProcurementResponse(updated)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *procurementService) Delete(ctx context.Context, id *policy.Identity, procurementID uint) error {
	if id == nil {
		return policy.ErrNotAuthenticated
	}

	p, err := s.load(ctx, procurementID)
	if err != nil {
		return err
	}
	if err := policy.CanMutate(id, p.DepartmentID, policy.ActionDelete); err != nil {
		return err
	}

	if err := s.repo.Procurement.Delete(ctx, procurementID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProcurementNotFound
		}
		s.logger.Error("falha ao excluir contratação", zap.Uint("id", procurementID), zap.Error(err))
		return ErrProcurementDeleteFailed
	}

	s.logger.Info("contratação excluída", zap.Uint("id", procurementID), zap.Uint("by", id.UserID))
	return nil
}

// ── helpers ──

func (s *procurementService) load(ctx context.Context, procurementID uint) (*model.Procurement, error) {
	p, err := s.repo.Procurement.GetByID(ctx, procurementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProcurementNotFound
		}
		s.logger.Error("falha ao carregar contratação", zap.Uint("id", procurementID), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (s *procurementService) ensureDepartment(ctx context.Context, deptID uint) error {
	if _, err := s.repo.Department.GetByID(ctx, deptID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		s.logger.Error("falha ao carregar secretaria", zap.Uint("id", deptID), zap.Error(err))
		return err
	}
	return nil
}

// applyProcurementFields normalizes the request onto p; p is untouched on error
func applyProcurementFields(p *model.Procurement, req *dto.ProcurementRequest) error {
	value, err := currency.Normalize(req.EstimatedValue)
	if err != nil {
		return ErrInvalidEstimatedValue
	}
	value = value.Round(2)
	if value.Abs().GreaterThanOrEqual(maxEstimatedValue) {
		return ErrInvalidEstimatedValue
	}
	planned, err := model.ParseDate(strings.TrimSpace(req.PlannedDate))
	if err != nil || planned.IsZero() {
		return ErrInvalidPlannedDate
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return ErrSubjectRequired
	}

	p.FiscalYear = req.FiscalYear
	p.Subject = subject
	p.Description = strings.TrimSpace(req.Description)
	p.EstimatedValue = value
	p.BudgetLine = strings.TrimSpace(req.BudgetLine)
	p.PlannedDate = planned
	return nil
}
