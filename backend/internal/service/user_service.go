package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/model"
	"pca-portal/backend/internal/policy"
	"pca-portal/backend/internal/repository"
	apperrors "pca-portal/backend/pkg/errors"
	"pca-portal/backend/pkg/password"
)

// ── user errors ──

var (
	ErrUserNotFound          = apperrors.New(apperrors.ErrNotFound, "Erro: Usuário não encontrado no sistema.")
	ErrPasswordMismatch      = apperrors.New(apperrors.ErrValidation, "Erro: As senhas digitadas não conferem. Tente novamente.")
	ErrPasswordTooShort      = apperrors.New(apperrors.ErrValidation, "Erro: A senha deve ter pelo menos 8 caracteres.")
	ErrPasswordTooLong       = apperrors.New(apperrors.ErrValidation, "Erro: A senha deve ter no máximo 72 caracteres.")
	ErrCurrentPasswordWrong  = apperrors.New(apperrors.ErrDenied, "Erro de Segurança: A senha atual está incorreta. Operação bloqueada.")
	ErrLoginExists           = apperrors.New(apperrors.ErrConflict, "Erro: O login informado já está em uso. Escolha um login diferente.")
	ErrEmailExists           = apperrors.New(apperrors.ErrConflict, "Erro: O e-mail informado já está cadastrado para outro usuário.")
	ErrUserFieldsRequired    = apperrors.New(apperrors.ErrValidation, "Erro: Informe nome e login do usuário.")
	ErrUserWriteFailed       = apperrors.New(apperrors.ErrConflict, "Erro interno ao salvar usuário. Tente novamente mais tarde.")
	ErrAdminLoginImmutable   = apperrors.New(apperrors.ErrDenied, "Erro: O login do administrador não pode ser alterado.")
	ErrAdminLoginUnavailable = apperrors.New(apperrors.ErrConflict, "Erro: O login \"admin\" é reservado ao administrador.")
)

const (
	MsgUserCreated          = "Usuário cadastrado com sucesso!"
	MsgUserUpdated          = "Usuário atualizado com sucesso!"
	MsgUserDeleted          = "Usuário excluído com sucesso!"
	MsgOwnPasswordChanged   = "Sua senha foi alterada com sucesso! Por favor, faça login novamente com a nova senha."
	MsgUserPasswordReset    = "Senha do usuário foi redefinida com sucesso!"
	MsgOwnPasswordResetDone = "Sua senha foi alterada com sucesso! Por favor, faça login novamente com a nova credencial."
)

// UserService admin-only account management plus self-service password change
type UserService interface {
	List(ctx context.Context, id *policy.Identity) ([]dto.UserResponse, error)
	Create(ctx context.Context, id *policy.Identity, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, id *policy.Identity, userID uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, id *policy.Identity, userID uint) error
	// ResetPassword admin sets a new credential for any account; the admin's own
	// row requires the current password and ends the admin's session
	ResetPassword(ctx context.Context, id *policy.Identity, userID uint, req *dto.ChangePasswordRequest) (*dto.PasswordChangeResult, error)
	// ChangeOwnPassword any signed-in user; always ends the session
	ChangeOwnPassword(ctx context.Context, id *policy.Identity, req *dto.ChangePasswordRequest) (*dto.PasswordChangeResult, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewUserService creates a UserService
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, id *policy.Identity) ([]dto.UserResponse, error) {
	if err := policy.RequireAdmin(id); err != nil {
		return nil, err
	}

	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("falha ao listar usuários", zap.Error(err))
		return nil, err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *toUserResponse(&users[i]))
	}
	return out, nil
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, id *policy.Identity, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := policy.RequireAdmin(id); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	login := strings.TrimSpace(req.Login)
	if name == "" || login == "" {
		return nil, ErrUserFieldsRequired
	}
	if login == model.AdminLogin {
		return nil, ErrAdminLoginUnavailable
	}
	if err := checkNewPassword(req.Password, req.ConfirmPassword); err != nil {
		return nil, err
	}

	// login uniqueness
	if _, err := s.repo.User.GetByLogin(ctx, login); err == nil {
		return nil, ErrLoginExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// email uniqueness, only when given
	email := optionalEmail(req.Email)
	if email != nil {
		if _, err := s.repo.User.GetByEmail(ctx, *email); err == nil {
			return nil, ErrEmailExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if err := s.ensureDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		s.logger.Error("falha ao gerar hash de senha", zap.Error(err))
		return nil, ErrUserWriteFailed
	}

	user := &model.User{
		Name:         name,
		Login:        login,
		Email:        email,
		PasswordHash: hash,
		DepartmentID: req.DepartmentID,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if dup := duplicateUserField(err); dup != nil {
			return nil, dup
		}
		s.logger.Error("falha ao cadastrar usuário", zap.Error(err))
		return nil, ErrUserWriteFailed
	}

	s.logger.Info("usuário cadastrado", zap.Uint("id", user.ID), zap.String("login", login), zap.Uint("by", id.UserID))

	created, err := s.repo.User.GetByID(ctx, user.ID)
	if err != nil {
		return toUserResponse(user), nil
	}
	return toUserResponse(created), nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id *policy.Identity, userID uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := policy.RequireAdmin(id); err != nil {
		return nil, err
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	login := strings.TrimSpace(req.Login)
	if name == "" || login == "" {
		return nil, ErrUserFieldsRequired
	}

	// the superuser is recognized by login; renaming it would drop the privilege
	if user.IsAdmin() && login != model.AdminLogin {
		return nil, ErrAdminLoginImmutable
	}
	if !user.IsAdmin() && login == model.AdminLogin {
		return nil, ErrAdminLoginUnavailable
	}

	if login != user.Login {
		if other, err := s.repo.User.GetByLogin(ctx, login); err == nil && other.ID != user.ID {
			return nil, ErrLoginExists
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	email := optionalEmail(req.Email)
	if email != nil && *email != user.EmailValue() {
		if other, err := s.repo.User.GetByEmail(ctx, *email); err == nil && other.ID != user.ID {
			return nil, ErrEmailExists
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if req.DepartmentID != user.DepartmentID {
		if err := s.ensureDepartment(ctx, req.DepartmentID); err != nil {
			return nil, err
		}
	}

	user.Name = name
	user.Login = login
	user.Email = email
	user.DepartmentID = req.DepartmentID
	user.Department = nil

	if err := s.repo.User.Update(ctx, user); err != nil {
		if dup := duplicateUserField(err); dup != nil {
			return nil, dup
		}
		s.logger.Error("falha ao atualizar usuário", zap.Uint("id", userID), zap.Error(err))
		return nil, ErrUserWriteFailed
	}

	updated, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return toUserResponse(user), nil
	}
	return toUserResponse(updated), nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id *policy.Identity, userID uint) error {
	if err := policy.CanDeleteUser(id, userID); err != nil {
		return err
	}

	if err := s.repo.User.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("falha ao excluir usuário", zap.Uint("id", userID), zap.Error(err))
		return ErrUserWriteFailed
	}

	s.logger.Info("usuário excluído", zap.Uint("id", userID), zap.Uint("by", id.UserID))
	return nil
}

// ────────────────────── Passwords ──────────────────────

func (s *userService) ResetPassword(ctx context.Context, id *policy.Identity, userID uint, req *dto.ChangePasswordRequest) (*dto.PasswordChangeResult, error) {
	if err := policy.RequireAdmin(id); err != nil {
		return nil, err
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	self := policy.RequiresCurrentPassword(id, user.ID)
	if self && !password.Verify(req.CurrentPassword, user.PasswordHash) {
		return nil, ErrCurrentPasswordWrong
	}
	if err := checkNewPassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return nil, err
	}

	if err := s.setPassword(ctx, user.ID, req.NewPassword); err != nil {
		return nil, err
	}

	s.logger.Info("senha redefinida pelo administrador", zap.Uint("id", user.ID), zap.Bool("self", self))
	return &dto.PasswordChangeResult{SessionEnded: self}, nil
}

func (s *userService) ChangeOwnPassword(ctx context.Context, id *policy.Identity, req *dto.ChangePasswordRequest) (*dto.PasswordChangeResult, error) {
	if id == nil {
		return nil, policy.ErrNotAuthenticated
	}

	user, err := s.load(ctx, id.UserID)
	if err != nil {
		return nil, err
	}

	if !password.Verify(req.CurrentPassword, user.PasswordHash) {
		return nil, ErrCurrentPasswordWrong
	}
	if err := checkNewPassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return nil, err
	}

	if err := s.setPassword(ctx, user.ID, req.NewPassword); err != nil {
		return nil, err
	}

	s.logger.Info("senha alterada pelo próprio usuário", zap.Uint("id", user.ID))
	return &dto.PasswordChangeResult{SessionEnded: true}, nil
}

// ── helpers ──

func (s *userService) load(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("falha ao carregar usuário", zap.Uint("id", userID), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *userService) ensureDepartment(ctx context.Context, deptID uint) error {
	if deptID == 0 {
		return ErrDepartmentRequired
	}
	if _, err := s.repo.Department.GetByID(ctx, deptID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}
	return nil
}

// setPassword stores a new digest and stamps the change time, which
// invalidates every session issued before it
func (s *userService) setPassword(ctx context.Context, userID uint, plain string) error {
	return storePassword(ctx, s.repo, s.logger, userID, plain, s.now())
}

func storePassword(ctx context.Context, repo *repository.Repository, logger *zap.Logger, userID uint, plain string, at time.Time) error {
	hash, err := password.Hash(plain)
	if err != nil {
		logger.Error("falha ao gerar hash de senha", zap.Error(err))
		return ErrUserWriteFailed
	}
	if err := repo.User.UpdatePassword(ctx, userID, hash, at.UTC().Truncate(time.Millisecond)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		logger.Error("falha ao gravar senha", zap.Uint("id", userID), zap.Error(err))
		return ErrUserWriteFailed
	}
	return nil
}

// duplicateUserField maps a unique violation that slipped past the pre-checks
// onto the field it concerns; nil when err is not a duplicate
func duplicateUserField(err error) error {
	switch {
	case repository.DuplicateOn(err, repository.ConstraintUserEmail):
		return ErrEmailExists
	case errors.Is(err, repository.ErrDuplicate):
		return ErrLoginExists
	}
	return nil
}

// checkNewPassword confirmation first, then length bounds
func checkNewPassword(plain, confirm string) error {
	if plain != confirm {
		return ErrPasswordMismatch
	}
	switch err := password.Validate(plain); {
	case errors.Is(err, password.ErrTooShort):
		return ErrPasswordTooShort
	case errors.Is(err, password.ErrTooLong):
		return ErrPasswordTooLong
	}
	return nil
}

func optionalEmail(raw string) *string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return nil
	}
	return &email
}
