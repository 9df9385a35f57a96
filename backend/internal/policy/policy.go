// Package policy decides whether an identity may perform a back-office action.
//
// Every function is pure: callers pass the identity resolved from the session
// and the target explicitly. A nil identity means no session.
package policy

import (
	"pca-portal/backend/internal/model"
	apperrors "pca-portal/backend/pkg/errors"
)

// AdminLogin the superuser login
const AdminLogin = model.AdminLogin

// Identity who is acting
type Identity struct {
	UserID       uint
	Login        string
	DepartmentID uint
}

// IsAdmin reports whether id is the superuser
func (id *Identity) IsAdmin() bool {
	return id != nil && id.Login == AdminLogin
}

// Action a mutating operation over a procurement record
type Action int

const (
	ActionCreate Action = iota + 1
	ActionUpdate
	ActionDelete
)

var (
	ErrNotAuthenticated = apperrors.New(apperrors.ErrUnauthenticated, "Faça login para acessar esta página.")
	ErrAdminOnly        = apperrors.New(apperrors.ErrDenied, "Acesso Negado: Você não tem permissão para executar esta ação.")
	ErrSelfDelete       = apperrors.New(apperrors.ErrDenied, "Erro: Ação não permitida. Você não pode excluir a sua própria conta logada.")

	errCreateOtherDepartment = apperrors.New(apperrors.ErrDenied, "Erro de Segurança: Você só pode cadastrar itens para a sua própria secretaria.")
	errUpdateOtherDepartment = apperrors.New(apperrors.ErrDenied, "Erro: Acesso Negado. Você não pode alterar itens de outra secretaria.")
	errDeleteOtherDepartment = apperrors.New(apperrors.ErrDenied, "Erro: Acesso Negado. Você não pode excluir itens de outra secretaria.")
	errUnknownAction         = apperrors.New(apperrors.ErrDenied, "Erro: Acesso Negado.")
)

// CanMutate allows the admin everywhere and anyone else only inside their own department
func CanMutate(id *Identity, targetDepartmentID uint, action Action) error {
	if id == nil {
		return ErrNotAuthenticated
	}
	if id.IsAdmin() {
		return nil
	}
	if targetDepartmentID == id.DepartmentID {
		return nil
	}
	switch action {
	case ActionCreate:
		return errCreateOtherDepartment
	case ActionUpdate:
		return errUpdateOtherDepartment
	case ActionDelete:
		return errDeleteOtherDepartment
	default:
		return errUnknownAction
	}
}

// ResolveDepartment picks the department a write lands in. Only the admin may
// choose; for everyone else the requested value is ignored, not rejected.
// A zero requested value keeps fallback.
func ResolveDepartment(id *Identity, requested, fallback uint) uint {
	if id.IsAdmin() && requested != 0 {
		return requested
	}
	if id.IsAdmin() {
		return fallback
	}
	return id.DepartmentID
}

// RequireAdmin gates department, user and entity management
func RequireAdmin(id *Identity) error {
	if id == nil {
		return ErrNotAuthenticated
	}
	if !id.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}

// CanDeleteUser blocks deleting the account behind the current session
func CanDeleteUser(id *Identity, targetUserID uint) error {
	if err := RequireAdmin(id); err != nil {
		return err
	}
	if id.UserID == targetUserID {
		return ErrSelfDelete
	}
	return nil
}

// RequiresCurrentPassword reports whether changing targetUserID's password
// must re-verify the current one: always for one's own credential.
func RequiresCurrentPassword(id *Identity, targetUserID uint) bool {
	return id == nil || id.UserID == targetUserID
}

// VisibleDepartment restricts listings: nil (all) for the admin, own department otherwise
func VisibleDepartment(id *Identity) *uint {
	if id.IsAdmin() {
		return nil
	}
	dept := id.DepartmentID
	return &dept
}
