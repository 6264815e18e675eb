package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		level   string
		wantErr bool
	}{
		{"prod default level", "prod", "", false},
		{"local default level", "local", "", false},
		{"explicit level", "local", "warn", false},
		{"unknown environment", "staging", "", true},
		{"invalid level", "local", "loud", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.env, tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogger: %v", err)
			}
			if l == nil {
				t.Fatal("nil logger")
			}
		})
	}
}

func TestNewLoggerLevelApplied(t *testing.T) {
	l, err := NewLogger("local", "error")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn enabled with logging.level=error")
	}
	if !l.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error disabled with logging.level=error")
	}
}
