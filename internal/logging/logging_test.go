package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestNewWritesJSONAtLevel(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tidy.log")
	logger, err := New(Config{Level: "info", Format: "json", OutputPath: out})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("Moved files", zap.Int("moved", 2))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Moved files", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, float64(2), entry["moved"])
}

func TestNewDefaultsToWarn(t *testing.T) {
	logger, err := New(Config{OutputPath: filepath.Join(t.TempDir(), "x.log")})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}
