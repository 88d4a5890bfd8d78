package logger

import (
	"testing"

	"github.com/retailcore/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseLevel(tt.input), "level %q", tt.input)
	}
}

func TestNew(t *testing.T) {
	log := New(config.LogConfig{Level: "debug", Format: "json", Output: "stdout"})
	assert.NotNil(t, log)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log = New(config.LogConfig{Level: "error", Format: "console", Output: "stderr"})
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
}
