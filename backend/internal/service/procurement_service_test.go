package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/policy"
	apperrors "pca-portal/backend/pkg/errors"
)

// ── test helpers ──

func setupTestProcurementService() (ProcurementService, *testRepos) {
	r := newTestRepos()
	return NewProcurementService(r.repo, zap.NewNop()), r
}

func sampleProcurementRequest() *dto.ProcurementRequest {
	return &dto.ProcurementRequest{
		FiscalYear:     2025,
		Subject:        "Aquisição de medicamentos",
		Description:    "Farmácia básica",
		EstimatedValue: "R$ 1.234,56",
		BudgetLine:     "10.301.0001",
		PlannedDate:    "2025-03-15",
		DepartmentID:   2,
	}
}

// ── Create ──

func TestProcurementService_Create_StampsCode(t *testing.T) {
	svc, _ := setupTestProcurementService()

	got, err := svc.Create(context.Background(), adminIdentity, sampleProcurementRequest())
	if err != nil {
		t.Fatalf("Create deveria ter sucesso: %v", err)
	}
	if got.Code != "PCA-1.2025-2" {
		t.Errorf("esperado código PCA-1.2025-2, obtido %s", got.Code)
	}
	if got.EstimatedValue != "1234.56" {
		t.Errorf("esperado valor 1234.56, obtido %s", got.EstimatedValue)
	}
	if got.EstimatedValueBRL != "1.234,56" {
		t.Errorf("esperado valor formatado 1.234,56, obtido %s", got.EstimatedValueBRL)
	}
	if got.PlannedDate != "2025-03-15" {
		t.Errorf("esperado data 2025-03-15, obtido %s", got.PlannedDate)
	}
	if got.Department.Name != "Secretaria de Saúde" {
		t.Errorf("esperado secretaria carregada, obtido %q", got.Department.Name)
	}
}

func TestProcurementService_Create_DepartmentUserIsForcedToOwnDepartment(t *testing.T) {
	svc, r := setupTestProcurementService()

	req := sampleProcurementRequest()
	req.DepartmentID = 1 // someone else's department, silently ignored

	got, err := svc.Create(context.Background(), saudeIdentity, req)
	if err != nil {
		t.Fatalf("Create deveria ter sucesso: %v", err)
	}
	if got.Department.ID != 2 {
		t.Errorf("esperado secretaria 2, obtido %d", got.Department.ID)
	}
	if r.procs.items[got.ID].DepartmentID != 2 {
		t.Error("registro gravado em secretaria diferente da do usuário")
	}
	if got.Code != "PCA-1.2025-2" {
		t.Errorf("esperado código PCA-1.2025-2, obtido %s", got.Code)
	}
}

func TestProcurementService_Create_LargestValueAccepted(t *testing.T) {
	svc, _ := setupTestProcurementService()

	req := sampleProcurementRequest()
	req.EstimatedValue = "R$ 9.999.999.999.999,99"
	got, err := svc.Create(context.Background(), adminIdentity, req)
	if err != nil {
		t.Fatalf("maior valor da coluna deveria ser aceito: %v", err)
	}
	if got.EstimatedValue != "9999999999999.99" {
		t.Errorf("esperado 9999999999999.99, obtido %s", got.EstimatedValue)
	}
}

func TestProcurementService_Create_InvalidValue(t *testing.T) {
	svc, r := setupTestProcurementService()

	for _, raw := range []string{"abc", "", "R$", "1e5", "10000000000000", "R$ 10.000.000.000.000,00", "-10000000000000", "9999999999999.999"} {
		req := sampleProcurementRequest()
		req.EstimatedValue = raw
		_, err := svc.Create(context.Background(), adminIdentity, req)
		if !errors.Is(err, ErrInvalidEstimatedValue) {
			t.Errorf("%q: esperado ErrInvalidEstimatedValue, obtido %v", raw, err)
		}
		if !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("%q: esperado categoria de validação", raw)
		}
	}
	if len(r.procs.items) != 0 {
		t.Errorf("nenhum registro deveria ter sido gravado, obtido %d", len(r.procs.items))
	}
}

func TestProcurementService_Create_InvalidDate(t *testing.T) {
	svc, _ := setupTestProcurementService()

	req := sampleProcurementRequest()
	req.PlannedDate = "15/03/2025"
	if _, err := svc.Create(context.Background(), adminIdentity, req); !errors.Is(err, ErrInvalidPlannedDate) {
		t.Errorf("esperado ErrInvalidPlannedDate, obtido %v", err)
	}
}

func TestProcurementService_Create_UnknownDepartment(t *testing.T) {
	svc, _ := setupTestProcurementService()

	req := sampleProcurementRequest()
	req.DepartmentID = 99
	if _, err := svc.Create(context.Background(), adminIdentity, req); !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("esperado ErrDepartmentNotFound, obtido %v", err)
	}
}

// rollback of the inserted row is covered against PostgreSQL in the repository integration suite
func TestProcurementService_Create_SecondStepFailureReportsError(t *testing.T) {
	svc, r := setupTestProcurementService()
	r.procs.failSetCode = true

	resp, err := svc.Create(context.Background(), adminIdentity, sampleProcurementRequest())
	if !errors.Is(err, ErrProcurementCreateFailed) {
		t.Fatalf("esperado ErrProcurementCreateFailed, obtido %v", err)
	}
	if resp != nil {
		t.Errorf("nenhuma resposta esperada em falha, obtido %+v", resp)
	}
}

func TestProcurementService_Create_NoSession(t *testing.T) {
	svc, _ := setupTestProcurementService()

	if _, err := svc.Create(context.Background(), nil, sampleProcurementRequest()); !errors.Is(err, policy.ErrNotAuthenticated) {
		t.Errorf("esperado ErrNotAuthenticated, obtido %v", err)
	}
}

// ── Update ──

func TestProcurementService_Update_KeepsCode(t *testing.T) {
	svc, _ := setupTestProcurementService()
	ctx := context.Background()

	created, err := svc.Create(ctx, adminIdentity, sampleProcurementRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := sampleProcurementRequest()
	req.FiscalYear = 2026
	req.DepartmentID = 1
	req.EstimatedValue = "2000"

	updated, err := svc.Update(ctx, adminIdentity, created.ID, req)
	if err != nil {
		t.Fatalf("Update deveria ter sucesso: %v", err)
	}
	if updated.Code != created.Code {
		t.Errorf("código não deveria mudar: antes %s, depois %s", created.Code, updated.Code)
	}
	if updated.FiscalYear != 2026 || updated.Department.ID != 1 {
		t.Errorf("campos não atualizados: %+v", updated)
	}
	if updated.EstimatedValue != "2000.00" {
		t.Errorf("esperado 2000.00, obtido %s", updated.EstimatedValue)
	}
}

func TestProcurementService_Update_OtherDepartmentDenied(t *testing.T) {
	svc, _ := setupTestProcurementService()
	ctx := context.Background()

	req := sampleProcurementRequest()
	req.DepartmentID = 1
	created, err := svc.Create(ctx, adminIdentity, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Update(ctx, saudeIdentity, created.ID, sampleProcurementRequest())
	if !errors.Is(err, apperrors.ErrDenied) {
		t.Fatalf("esperado negação, obtido %v", err)
	}
	if msg := apperrors.Message(err, ""); msg != "Erro: Acesso Negado. Você não pode alterar itens de outra secretaria." {
		t.Errorf("mensagem inesperada: %q", msg)
	}
}

func TestProcurementService_Update_DepartmentUserCannotMove(t *testing.T) {
	svc, r := setupTestProcurementService()
	ctx := context.Background()

	created, err := svc.Create(ctx, saudeIdentity, sampleProcurementRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := sampleProcurementRequest()
	req.DepartmentID = 1
	if _, err := svc.Update(ctx, saudeIdentity, created.ID, req); err != nil {
		t.Fatalf("Update deveria ter sucesso: %v", err)
	}
	if r.procs.items[created.ID].DepartmentID != 2 {
		t.Error("usuário de secretaria não pode mover o registro")
	}
}

func TestProcurementService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestProcurementService()

	if _, err := svc.Update(context.Background(), adminIdentity, 42, sampleProcurementRequest()); !errors.Is(err, ErrProcurementNotFound) {
		t.Errorf("esperado ErrProcurementNotFound, obtido %v", err)
	}
}

// ── Delete ──

func TestProcurementService_Delete(t *testing.T) {
	svc, r := setupTestProcurementService()
	ctx := context.Background()

	own, _ := svc.Create(ctx, saudeIdentity, sampleProcurementRequest())
	req := sampleProcurementRequest()
	req.DepartmentID = 1
	other, _ := svc.Create(ctx, adminIdentity, req)

	if err := svc.Delete(ctx, saudeIdentity, other.ID); !errors.Is(err, apperrors.ErrDenied) {
		t.Errorf("esperado negação ao excluir item de outra secretaria, obtido %v", err)
	}
	if err := svc.Delete(ctx, saudeIdentity, own.ID); err != nil {
		t.Errorf("exclusão do próprio item deveria ter sucesso: %v", err)
	}
	if err := svc.Delete(ctx, adminIdentity, other.ID); err != nil {
		t.Errorf("administrador deveria excluir qualquer item: %v", err)
	}
	if len(r.procs.items) != 0 {
		t.Errorf("esperado 0 registros, obtido %d", len(r.procs.items))
	}
	if err := svc.Delete(ctx, adminIdentity, own.ID); !errors.Is(err, ErrProcurementNotFound) {
		t.Errorf("esperado ErrProcurementNotFound, obtido %v", err)
	}
}

// ── Dashboard ──

func TestProcurementService_Dashboard_ScopedByDepartment(t *testing.T) {
	svc, _ := setupTestProcurementService()
	ctx := context.Background()

	svc.Create(ctx, saudeIdentity, sampleProcurementRequest())
	req := sampleProcurementRequest()
	req.DepartmentID = 1
	svc.Create(ctx, adminIdentity, req)

	admin, err := svc.Dashboard(ctx, adminIdentity)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(admin.Procurements) != 2 || len(admin.Departments) != 2 {
		t.Errorf("administrador deveria ver tudo: %d itens, %d secretarias", len(admin.Procurements), len(admin.Departments))
	}
	if !admin.User.IsAdmin {
		t.Error("esperado IsAdmin=true")
	}

	saude, err := svc.Dashboard(ctx, saudeIdentity)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(saude.Procurements) != 1 || saude.Procurements[0].Department.ID != 2 {
		t.Errorf("usuário de secretaria deveria ver apenas os próprios itens: %+v", saude.Procurements)
	}
	if len(saude.Departments) != 1 || saude.Departments[0].ID != 2 {
		t.Errorf("usuário de secretaria deveria ver apenas a própria secretaria: %+v", saude.Departments)
	}
}
