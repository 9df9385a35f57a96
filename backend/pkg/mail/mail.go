// Package mail delivers plain-text notifications over SMTP.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"pca-portal/backend/config"
)

// Sender delivers one message
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewSender returns an SMTP sender, or a log-only sender when no relay is configured
func NewSender(cfg *config.MailConfig, logger *zap.Logger) Sender {
	if !cfg.Enabled() {
		logger.Warn("SMTP não configurado; e-mails serão apenas registrados em log")
		return &LogSender{logger: logger}
	}
	return &SMTPSender{cfg: cfg, logger: logger}
}

// ── SMTP ──

// SMTPSender dials the relay per message
type SMTPSender struct {
	cfg    *config.MailConfig
	logger *zap.Logger
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("remetente inválido: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("destinatário inválido: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	opts := []gomail.Option{gomail.WithPort(s.cfg.SMTPPort)}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	if s.cfg.UseTLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	client, err := gomail.NewClient(s.cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("falha ao criar cliente SMTP: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("falha ao enviar e-mail: %w", err)
	}

	s.logger.Info("e-mail enviado", zap.String("subject", subject))
	return nil
}

// ── log only ──

// LogSender records messages instead of delivering them. The body is not
// logged since it may carry a recovery link.
type LogSender struct {
	logger *zap.Logger
}

func (s *LogSender) Send(_ context.Context, to, subject, _ string) error {
	s.logger.Info("e-mail não enviado (SMTP desabilitado)",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
