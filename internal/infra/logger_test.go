package infra

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Development(t *testing.T) {
	logger, err := NewLogger("", "debug", false)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger("", "chatty", false)
	assert.Error(t, err)
}

func TestNewLogger_FileIsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autopress.log")

	logger, err := NewLogger(path, "info", true)
	require.NoError(t, err)
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.True(t, strings.HasPrefix(line, "{"), line)
	assert.Contains(t, line, `"time":`)
	assert.Contains(t, line, `"msg":"hello"`)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_UnwritableFileFallsBack(t *testing.T) {
	logger, err := NewLogger("/nonexistent-dir/autopress.log", "", false)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
