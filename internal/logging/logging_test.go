package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level   string
		verbose bool
		want    zapcore.Level
	}{
		{level: "", want: zapcore.WarnLevel},
		{level: "info", want: zapcore.InfoLevel},
		{level: "error", want: zapcore.ErrorLevel},
		{level: "error", verbose: true, want: zapcore.DebugLevel},
	}
	for _, tt := range tests {
		l, err := New(tt.level, tt.verbose)
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(tt.want), "level %q verbose=%v", tt.level, tt.verbose)
		if tt.want > zapcore.DebugLevel {
			assert.False(t, l.Core().Enabled(tt.want-1), "level %q should not enable %s", tt.level, tt.want-1)
		}
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("chatty", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "chatty"`)
}
