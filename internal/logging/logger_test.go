package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nconklindev/manifest/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_NopForUIWithoutFile(t *testing.T) {
	logger, err := New(&config.Config{LogLevel: "info"}, false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.log")
	logger, err := New(&config.Config{LogLevel: "warn", LogFile: path}, false)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("export failed", zap.String("file", "T1.MR1.PBS"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"msg":"export failed"`)
	assert.Contains(t, string(data), `"file":"T1.MR1.PBS"`)
}

func TestNew_ConsoleLevel(t *testing.T) {
	logger, err := New(&config.Config{LogLevel: "debug"}, true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(&config.Config{LogLevel: "nope"}, true)
	assert.Error(t, err)
}
