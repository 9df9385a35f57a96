package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"pca-portal/backend/config"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "", "Console"} {
		l, err := NewLogger(&config.LogConfig{Level: "warn", Format: format})
		if err != nil {
			t.Fatalf("formato %q: %v", format, err)
		}
		if l.Core().Enabled(zapcore.InfoLevel) || !l.Core().Enabled(zapcore.WarnLevel) {
			t.Errorf("formato %q: nível warn não aplicado", format)
		}
	}
}

func TestNewLogger_Rejects(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "verboso", Format: "json"}); err == nil {
		t.Error("nível inválido deveria ser recusado")
	}
	if _, err := NewLogger(&config.LogConfig{Level: "info", Format: "xml"}); err == nil {
		t.Error("formato desconhecido deveria ser recusado")
	}
}
