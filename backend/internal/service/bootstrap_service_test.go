package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"pca-portal/backend/config"
	"pca-portal/backend/internal/model"
	"pca-portal/backend/pkg/password"
)

func setupTestBootstrapService(adminPassword string) (BootstrapService, *testRepos) {
	r := newTestRepos()
	// start from an empty database
	for id := range r.users.users {
		delete(r.users.users, id)
	}
	for id := range r.depts.depts {
		delete(r.depts.depts, id)
	}
	cfg := &config.BootstrapConfig{
		AdminPassword:     adminPassword,
		DefaultDepartment: "Secretaria de Administração",
	}
	return NewBootstrapService(cfg, r.repo, zap.NewNop()), r
}

func TestBootstrapService_Bootstrap_GeneratesPassword(t *testing.T) {
	svc, r := setupTestBootstrapService("")
	ctx := context.Background()

	res, err := svc.Bootstrap(ctx)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if !res.DepartmentCreated || !res.AdminCreated {
		t.Errorf("esperado secretaria e administrador criados: %+v", res)
	}
	if len(res.GeneratedPassword) != 16 {
		t.Errorf("esperado senha aleatória de 16 caracteres, obtido %q", res.GeneratedPassword)
	}

	admin, err := r.users.GetByLogin(ctx, model.AdminLogin)
	if err != nil {
		t.Fatalf("administrador não criado: %v", err)
	}
	if !password.Verify(res.GeneratedPassword, admin.PasswordHash) {
		t.Error("senha gerada não confere com o hash gravado")
	}
	dept, _ := r.depts.GetByName(ctx, "Secretaria de Administração")
	if dept == nil || admin.DepartmentID != dept.ID {
		t.Error("administrador deveria pertencer à secretaria padrão")
	}

	// idempotent
	again, err := svc.Bootstrap(ctx)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if again.DepartmentCreated || again.AdminCreated || again.GeneratedPassword != "" {
		t.Errorf("segunda execução não deveria criar nada: %+v", again)
	}
	if len(r.users.users) != 1 || len(r.depts.depts) != 1 {
		t.Error("registros duplicados pelo bootstrap")
	}
}

func TestBootstrapService_Bootstrap_ConfiguredPassword(t *testing.T) {
	svc, r := setupTestBootstrapService("senha-configurada")

	res, err := svc.Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if res.GeneratedPassword != "" {
		t.Error("senha configurada não deveria ser exibida")
	}
	admin, _ := r.users.GetByLogin(context.Background(), model.AdminLogin)
	if !password.Verify("senha-configurada", admin.PasswordHash) {
		t.Error("senha configurada não aplicada")
	}
}

func TestBootstrapService_ResetPassword(t *testing.T) {
	svc, r := setupTestBootstrapService("senha-configurada")
	ctx := context.Background()
	svc.Bootstrap(ctx)

	if _, err := svc.ResetPassword(ctx, "ninguem", ""); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("esperado ErrUserNotFound, obtido %v", err)
	}
	if _, err := svc.ResetPassword(ctx, model.AdminLogin, "curta"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("esperado ErrPasswordTooShort, obtido %v", err)
	}

	plain, err := svc.ResetPassword(ctx, model.AdminLogin, "")
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	admin, _ := r.users.GetByLogin(ctx, model.AdminLogin)
	if !password.Verify(plain, admin.PasswordHash) {
		t.Error("nova senha não confere")
	}
	if admin.PasswordChangedAt == nil {
		t.Error("esperado carimbo de alteração de senha")
	}
}
