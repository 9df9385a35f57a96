package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pca-portal/backend/config"
	"pca-portal/backend/internal/model"
	"pca-portal/backend/internal/repository"
	"pca-portal/backend/pkg/password"
)

const adminDisplayName = "Administrador do Sistema"

// BootstrapResult what the first run created. GeneratedPassword is set only
// when a random credential was minted and must be shown to the operator once.
type BootstrapResult struct {
	DepartmentCreated bool
	AdminCreated      bool
	GeneratedPassword string
}

// BootstrapService seeds the default department and the superuser, and
// rescues a lost credential from the command line
type BootstrapService interface {
	Bootstrap(ctx context.Context) (*BootstrapResult, error)
	// ResetPassword sets plain (or a random value when empty) on login and returns it
	ResetPassword(ctx context.Context, login, plain string) (string, error)
}

type bootstrapService struct {
	cfg    *config.BootstrapConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewBootstrapService creates a BootstrapService
func NewBootstrapService(cfg *config.BootstrapConfig, repo *repository.Repository, logger *zap.Logger) BootstrapService {
	return &bootstrapService{cfg: cfg, repo: repo, logger: logger}
}

// Bootstrap is idempotent: existing rows are left untouched
func (s *bootstrapService) Bootstrap(ctx context.Context) (*BootstrapResult, error) {
	result := &BootstrapResult{}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()
	rollback := func() {
		if tx != nil {
			tx.Rollback()
		}
	}

	txRepo := s.repo.WithTx(tx)

	// 1. default department, needed by the admin's foreign key
	deptName := strings.TrimSpace(s.cfg.DefaultDepartment)
	dept, err := txRepo.Department.GetByName(ctx, deptName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		dept = &model.Department{Name: deptName}
		if err := txRepo.Department.Create(ctx, dept); err != nil {
			rollback()
			return nil, err
		}
		result.DepartmentCreated = true
	} else if err != nil {
		rollback()
		return nil, err
	}

	// 2. superuser
	_, err = txRepo.User.GetByLogin(ctx, model.AdminLogin)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		plain := s.cfg.AdminPassword
		if plain == "" {
			if plain, err = randomPassword(); err != nil {
				rollback()
				return nil, err
			}
			result.GeneratedPassword = plain
		}

		hash, err := password.Hash(plain)
		if err != nil {
			rollback()
			return nil, err
		}
		admin := &model.User{
			Name:         adminDisplayName,
			Login:        model.AdminLogin,
			PasswordHash: hash,
			DepartmentID: dept.ID,
		}
		if err := txRepo.User.Create(ctx, admin); err != nil {
			rollback()
			return nil, err
		}
		result.AdminCreated = true
	} else if err != nil {
		rollback()
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			return nil, err
		}
	}

	s.logger.Info("bootstrap concluído",
		zap.Bool("department_created", result.DepartmentCreated),
		zap.Bool("admin_created", result.AdminCreated),
	)
	return result, nil
}

func (s *bootstrapService) ResetPassword(ctx context.Context, login, plain string) (string, error) {
	user, err := s.repo.User.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if plain == "" {
		if plain, err = randomPassword(); err != nil {
			return "", err
		}
	} else if err := checkNewPassword(plain, plain); err != nil {
		return "", err
	}

	if err := storePassword(ctx, s.repo, s.logger, user.ID, plain, time.Now()); err != nil {
		return "", err
	}

	s.logger.Info("senha redefinida pela linha de comando", zap.String("login", login))
	return plain, nil
}

// randomPassword 16 hex characters
func randomPassword() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
