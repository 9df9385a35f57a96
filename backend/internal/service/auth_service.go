package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pca-portal/backend/config"
	"pca-portal/backend/internal/dto"
	"pca-portal/backend/internal/model"
	"pca-portal/backend/internal/policy"
	"pca-portal/backend/internal/repository"
	apperrors "pca-portal/backend/pkg/errors"
	"pca-portal/backend/pkg/jwt"
	"pca-portal/backend/pkg/mail"
	"pca-portal/backend/pkg/password"
	"pca-portal/backend/pkg/timedtoken"
)

// ── auth errors ──

var (
	ErrInvalidCredentials = apperrors.New(apperrors.ErrUnauthenticated, "Login ou senha incorretos. Verifique suas credenciais.")
	ErrSessionExpired     = apperrors.New(apperrors.ErrTokenExpired, "Sua sessão expirou por inatividade. Faça login novamente.")
	ErrSessionInvalid     = apperrors.New(apperrors.ErrTokenInvalid, "Sessão inválida. Faça login novamente.")
	ErrResetTokenExpired  = apperrors.New(apperrors.ErrTokenExpired, "Erro: O link de recuperação expirou. Solicite um novo na tela de login.")
	ErrResetTokenInvalid  = apperrors.New(apperrors.ErrTokenInvalid, "Erro: Link de recuperação inválido ou corrompido.")
	ErrResetMismatch      = apperrors.New(apperrors.ErrValidation, "Erro: As senhas digitadas não conferem.")
)

const (
	// MsgResetRequested is returned whether or not the address is known
	MsgResetRequested = "Se o e-mail estiver cadastrado, um link de recuperação será enviado. Verifique sua caixa de entrada e spam."
	MsgResetDone      = "Sua senha foi redefinida com sucesso! Você já pode acessar o sistema."
	MsgLoggedOut      = "Sessão encerrada."

	recoverySubject = "Recuperação de Senha - PCA"
	recoveryPath    = "/admin/resetar/"
)

// SessionStore revocation list for session ids
type SessionStore interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Session an established or renewed session
type Session struct {
	Token    string
	Claims   *jwt.Claims
	Identity *policy.Identity
	User     *dto.UserResponse
}

// Response body sent next to the cookie
func (s *Session) Response(ttl time.Duration) *dto.SessionResponse {
	return &dto.SessionResponse{User: *s.User, ExpiresIn: int(ttl.Seconds())}
}

// AuthService login, session validation and password recovery
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*Session, error)
	// Authenticate validates a session token and slides its expiry forward
	Authenticate(ctx context.Context, token string) (*Session, error)
	// Logout revokes the session; nil claims is a no-op
	Logout(ctx context.Context, claims *jwt.Claims) error
	// RequestPasswordReset always yields MsgResetRequested
	RequestPasswordReset(ctx context.Context, req *dto.ForgotPasswordRequest) string
	VerifyResetToken(ctx context.Context, token string) error
	ResetPasswordWithToken(ctx context.Context, token string, req *dto.TokenResetPasswordRequest) error
	SessionTTL() time.Duration
}

type authService struct {
	cfg      *config.Config
	repo     *repository.Repository
	jwtMgr   *jwt.Manager
	signer   *timedtoken.Signer
	sessions SessionStore
	mailer   mail.Sender
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates an AuthService
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	signer *timedtoken.Signer,
	sessions SessionStore,
	mailer mail.Sender,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:      cfg,
		repo:     repo,
		jwtMgr:   jwtMgr,
		signer:   signer,
		sessions: sessions,
		mailer:   mailer,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *authService) SessionTTL() time.Duration {
	return s.jwtMgr.TTL()
}

// ────────────────────── Login ──────────────────────

// Login always mints a fresh session id, so a token held before login is never promoted
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*Session, error) {
	// 1. look up the account
	user, err := s.repo.User.GetByLogin(ctx, strings.TrimSpace(req.Login))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("falha ao consultar usuário", zap.Error(err))
		return nil, err
	}

	// 2. bcrypt
	if req.Password == "" || !password.Verify(req.Password, user.PasswordHash) {
		s.logger.Info("tentativa de login recusada", zap.String("login", user.Login))
		return nil, ErrInvalidCredentials
	}

	// 3. session
	token, claims, err := s.jwtMgr.GenerateSessionToken(user.ID, user.Login, user.DepartmentID)
	if err != nil {
		s.logger.Error("falha ao gerar sessão", zap.Error(err))
		return nil, err
	}

	if full, err := s.repo.User.GetByID(ctx, user.ID); err == nil {
		user = full
	}

	s.logger.Info("login efetuado", zap.Uint("id", user.ID), zap.String("login", user.Login))
	return newSession(token, claims, user), nil
}

// ────────────────────── Authenticate ──────────────────────

func (s *authService) Authenticate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, policy.ErrNotAuthenticated
	}

	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrSessionInvalid
	}

	// revocation list is best effort; without Redis only password stamps apply
	revoked, err := s.sessions.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("falha ao consultar sessões revogadas", zap.Error(err))
	}
	if revoked {
		return nil, ErrSessionInvalid
	}

	// identity comes from the current row, not from the cookie
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		s.logger.Error("falha ao carregar usuário da sessão", zap.Uint("id", claims.UserID), zap.Error(err))
		return nil, err
	}
	if passwordChangedSince(user, claims) {
		return nil, ErrSessionInvalid
	}

	claims.Login = user.Login
	claims.DepartmentID = user.DepartmentID
	renewed, renewedClaims, err := s.jwtMgr.Renew(claims)
	if err != nil {
		s.logger.Error("falha ao renovar sessão", zap.Error(err))
		return nil, err
	}

	return newSession(renewed, renewedClaims, user), nil
}

// passwordChangedSince reports whether the credential changed at or after the
// instant the session began; both sides are compared in milliseconds
func passwordChangedSince(user *model.User, claims *jwt.Claims) bool {
	if user.PasswordChangedAt == nil {
		return false
	}
	authAt := claims.AuthenticatedAt()
	if authAt.IsZero() {
		return true
	}
	return !user.PasswordChangedAt.Truncate(time.Millisecond).Before(authAt.Truncate(time.Millisecond))
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil {
		return nil
	}
	if err := s.sessions.BlacklistToken(ctx, claims.ID, s.jwtMgr.Remaining(claims)); err != nil {
		s.logger.Warn("falha ao revogar sessão", zap.String("jti", claims.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Password recovery ──────────────────────

// RequestPasswordReset never reveals whether the address exists, nor whether delivery failed
func (s *authService) RequestPasswordReset(ctx context.Context, req *dto.ForgotPasswordRequest) string {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return MsgResetRequested
	}

	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("falha ao consultar e-mail", zap.Error(err))
		}
		return MsgResetRequested
	}

	token, err := s.signer.Issue(user.EmailValue(), timedtoken.PurposeRecovery)
	if err != nil {
		s.logger.Error("falha ao gerar token de recuperação", zap.Error(err))
		return MsgResetRequested
	}

	link := strings.TrimRight(s.cfg.Server.BaseURL, "/") + recoveryPath + token
	body := recoveryBody(user.Name, link, s.cfg.Auth.RecoveryTokenTTL)
	if err := s.mailer.Send(ctx, user.EmailValue(), recoverySubject, body); err != nil {
		s.logger.Warn("falha ao enviar e-mail de recuperação", zap.Uint("id", user.ID), zap.Error(err))
		return MsgResetRequested
	}

	s.logger.Info("link de recuperação enviado", zap.Uint("id", user.ID))
	return MsgResetRequested
}

func recoveryBody(name, link string, ttl time.Duration) string {
	return fmt.Sprintf(`Olá %s,

Você solicitou a recuperação da sua senha no sistema PCA.
Para redefinir sua credencial, clique no link abaixo:

%s

Este link expira em %d minutos.
Se você não solicitou esta alteração, apenas ignore este e-mail.
`, name, link, int(ttl.Minutes()))
}

func (s *authService) VerifyResetToken(ctx context.Context, token string) error {
	_, err := s.resolveResetToken(ctx, token)
	return err
}

func (s *authService) ResetPasswordWithToken(ctx context.Context, token string, req *dto.TokenResetPasswordRequest) error {
	user, err := s.resolveResetToken(ctx, token)
	if err != nil {
		return err
	}

	if req.NewPassword != req.ConfirmPassword {
		return ErrResetMismatch
	}
	if err := checkNewPassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}

	if err := storePassword(ctx, s.repo, s.logger, user.ID, req.NewPassword, s.now()); err != nil {
		return err
	}

	s.logger.Info("senha redefinida por link de recuperação", zap.Uint("id", user.ID))
	return nil
}

// resolveResetToken checks signature, then age, then that the account still exists
func (s *authService) resolveResetToken(ctx context.Context, token string) (*model.User, error) {
	email, err := s.signer.Verify(token, timedtoken.PurposeRecovery, s.cfg.Auth.RecoveryTokenTTL)
	if err != nil {
		if errors.Is(err, timedtoken.ErrTokenExpired) {
			return nil, ErrResetTokenExpired
		}
		return nil, ErrResetTokenInvalid
	}

	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("falha ao consultar e-mail", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// ── helpers ──

func newSession(token string, claims *jwt.Claims, user *model.User) *Session {
	return &Session{
		Token:  token,
		Claims: claims,
		Identity: &policy.Identity{
			UserID:       user.ID,
			Login:        user.Login,
			DepartmentID: user.DepartmentID,
		},
		User: toUserResponse(user),
	}
}
