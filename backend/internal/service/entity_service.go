package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/model"
	"pca-portal/backend/internal/policy"
	"pca-portal/backend/internal/repository"
	apperrors "pca-portal/backend/pkg/errors"
)

// ── entity errors ──

var (
	ErrEntityAdminOnly   = apperrors.New(apperrors.ErrDenied, "Erro: Apenas o Administrador pode alterar os dados do Órgão.")
	ErrEntityNameMissing = apperrors.New(apperrors.ErrValidation, "Erro: Informe o nome do Órgão.")
	ErrLogoType          = apperrors.New(apperrors.ErrValidation, "Erro: O logotipo deve ser uma imagem PNG ou JPG.")
	ErrLogoTooLarge      = apperrors.New(apperrors.ErrValidation, "Erro: O logotipo excede o tamanho máximo permitido.")
	ErrEntitySaveFailed  = apperrors.New(apperrors.ErrConflict, "Erro interno ao salvar as configurações do Órgão.")
)

const MsgEntityUpdated = "Configurações do Órgão atualizadas com sucesso!"

var allowedLogoExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// LogoUpload an optional image sent along with the entity form
type LogoUpload struct {
	Filename string
	Content  io.Reader
}

// EntityService data of the government body shown on every page
type EntityService interface {
	// Get falls back to defaults while nothing was saved
	Get(ctx context.Context) (*dto.EntityResponse, error)
	Update(ctx context.Context, id *policy.Identity, req *dto.EntityRequest, logo *LogoUpload) (*dto.EntityResponse, error)
}

type entityService struct {
	repo      *repository.Repository
	uploadDir string
	maxBytes  int64
	logger    *zap.Logger
}

// NewEntityService creates an EntityService storing logos under uploadDir
func NewEntityService(repo *repository.Repository, uploadDir string, maxBytes int64, logger *zap.Logger) EntityService {
	return &entityService{repo: repo, uploadDir: uploadDir, maxBytes: maxBytes, logger: logger}
}

// ────────────────────── Get ──────────────────────

func (s *entityService) Get(ctx context.Context) (*dto.EntityResponse, error) {
	entity, err := loadEntity(ctx, s.repo)
	if err != nil {
		s.logger.Error("falha ao carregar ente", zap.Error(err))
		return nil, err
	}
	resp := toEntityResponse(entity)
	return &resp, nil
}

// loadEntity the saved row or model.DefaultEntity
func loadEntity(ctx context.Context, repo *repository.Repository) (*model.Entity, error) {
	entity, err := repo.Entity.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.DefaultEntity(), nil
		}
		return nil, err
	}
	return entity, nil
}

// ────────────────────── Update ──────────────────────

func (s *entityService) Update(ctx context.Context, id *policy.Identity, req *dto.EntityRequest, logo *LogoUpload) (*dto.EntityResponse, error) {
	if err := policy.RequireAdmin(id); err != nil {
		if errors.Is(err, apperrors.ErrDenied) {
			return nil, ErrEntityAdminOnly
		}
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEntityNameMissing
	}

	entity, err := loadEntity(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	previousLogo := entity.LogoPath

	entity.Name = name
	entity.Address = strings.TrimSpace(req.Address)
	entity.Phone = strings.TrimSpace(req.Phone)
	entity.Email = strings.TrimSpace(req.Email)

	var stored string
	if logo != nil && logo.Filename != "" {
		stored, err = s.storeLogo(logo)
		if err != nil {
			return nil, err
		}
		entity.LogoPath = &stored
	}

	if err := s.repo.Entity.Save(ctx, entity); err != nil {
		s.logger.Error("falha ao salvar ente", zap.Error(err))
		if stored != "" {
			os.Remove(filepath.Join(s.uploadDir, stored))
		}
		return nil, ErrEntitySaveFailed
	}

	if stored != "" && previousLogo != nil && *previousLogo != "" && *previousLogo != stored {
		if err := os.Remove(filepath.Join(s.uploadDir, filepath.Base(*previousLogo))); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("falha ao remover logotipo anterior", zap.Error(err))
		}
	}

	s.logger.Info("dados do ente atualizados", zap.Uint("by", id.UserID), zap.Bool("logo", stored != ""))
	resp := toEntityResponse(entity)
	return &resp, nil
}

// storeLogo writes the upload under a collision-free sanitized name and
// returns that name. Only PNG and JPEG content is accepted.
func (s *entityService) storeLogo(logo *LogoUpload) (string, error) {
	name := SanitizeFilename(logo.Filename)
	ext := strings.ToLower(filepath.Ext(name))
	want, ok := allowedLogoExt[ext]
	if !ok {
		return "", ErrLogoType
	}

	limit := s.maxBytes
	if limit <= 0 {
		limit = 2 << 20
	}
	data, err := io.ReadAll(io.LimitReader(logo.Content, limit+1))
	if err != nil {
		s.logger.Error("falha ao ler logotipo", zap.Error(err))
		return "", ErrEntitySaveFailed
	}
	if int64(len(data)) > limit {
		return "", ErrLogoTooLarge
	}
	if http.DetectContentType(data) != want {
		return "", ErrLogoType
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		s.logger.Error("falha ao criar diretório de uploads", zap.Error(err))
		return "", ErrEntitySaveFailed
	}

	stored := uuid.NewString()[:8] + "_" + name
	if err := os.WriteFile(filepath.Join(s.uploadDir, stored), data, 0o644); err != nil {
		s.logger.Error("falha ao gravar logotipo", zap.Error(err))
		return "", ErrEntitySaveFailed
	}
	return stored, nil
}

// SanitizeFilename strips directories and anything outside [A-Za-z0-9._-]
func SanitizeFilename(raw string) string {
	base := filepath.Base(strings.ReplaceAll(raw, `\`, "/"))
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "logo"
	}
	return base
}

