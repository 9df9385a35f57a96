package mail

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"pca-portal/backend/config"
)

func TestNewSender_FallsBackToLog(t *testing.T) {
	s := NewSender(&config.MailConfig{}, zap.NewNop())
	if _, ok := s.(*LogSender); !ok {
		t.Fatalf("esperado *LogSender sem SMTP configurado, obtido %T", s)
	}
	if err := s.Send(context.Background(), "a@b.com", "assunto", "corpo"); err != nil {
		t.Errorf("LogSender não deve falhar: %v", err)
	}
}

func TestNewSender_SMTP(t *testing.T) {
	s := NewSender(&config.MailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587}, zap.NewNop())
	if _, ok := s.(*SMTPSender); !ok {
		t.Fatalf("esperado *SMTPSender, obtido %T", s)
	}
}

func TestSMTPSender_InvalidAddresses(t *testing.T) {
	s := &SMTPSender{
		cfg:    &config.MailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587, From: "não é endereço"},
		logger: zap.NewNop(),
	}
	if err := s.Send(context.Background(), "a@b.com", "x", "y"); err == nil {
		t.Error("remetente inválido deveria falhar antes de conectar")
	}
}
