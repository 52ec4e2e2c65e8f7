package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]*zapcore.Level{
		"debug":   levelPtr(zapcore.DebugLevel),
		"info":    levelPtr(zapcore.InfoLevel),
		"warn":    levelPtr(zapcore.WarnLevel),
		"error":   levelPtr(zapcore.ErrorLevel),
		"verbose": nil,
		"":        nil,
	}
	for in, want := range tests {
		got := parseLevel(in)
		switch {
		case want == nil && got != nil:
			t.Errorf("parseLevel(%q) = %v, want nil", in, *got)
		case want != nil && (got == nil || *got != *want):
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, *want)
		}
	}
}

func TestNewDoesNotPanic(t *testing.T) {
	for _, pretty := range []bool{true, false} {
		l := New("debug", pretty)
		l.Info("hello", String("k", "v"), Int("n", 1))
		_ = l.Sync()
	}
}

func levelPtr(l zapcore.Level) *zapcore.Level { return &l }
