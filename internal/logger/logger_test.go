package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel zapcore.Level
	}{
		{name: "default level", level: "", format: "console", wantLevel: zapcore.InfoLevel},
		{name: "debug", level: "debug", format: "console", wantLevel: zapcore.DebugLevel},
		{name: "warn json", level: "WARN", format: "json", wantLevel: zapcore.WarnLevel},
		{name: "error", level: "error", format: "json", wantLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.level, tt.format)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}

func TestMust(t *testing.T) {
	assert.NotNil(t, Must("info", "json"))
}
