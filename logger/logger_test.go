package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/rustyeddy/evalsim/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.LogConfig
		level zapcore.Level
	}{
		{"defaults", config.LogConfig{}, zapcore.InfoLevel},
		{"debug json", config.LogConfig{Level: "debug", Encoding: "json"}, zapcore.DebugLevel},
		{"upper case", config.LogConfig{Level: "WARN", Encoding: "console"}, zapcore.WarnLevel},
		{"bad level", config.LogConfig{Level: "loud"}, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.level))
			if tt.level > zapcore.DebugLevel {
				assert.False(t, log.Core().Enabled(tt.level-1))
			}
		})
	}
}

func TestNewRejectsUnknownEncoding(t *testing.T) {
	_, err := New(config.LogConfig{Encoding: "xml"})
	assert.Error(t, err)
}
