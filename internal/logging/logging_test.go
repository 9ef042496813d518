package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogDir(t *testing.T) {
	dir := DefaultLogDir()
	require.NotEmpty(t, dir)
	assert.True(t, strings.Contains(dir, ".codesearchd"))
	assert.True(t, strings.Contains(dir, "logs"))
}

func TestDefaultLogPath(t *testing.T) {
	path := DefaultLogPath()
	require.NotEmpty(t, path)
	assert.Equal(t, "codesearchd.log", filepath.Base(path))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, 10, cfg.MaxSizeMB)
	assert.Equal(t, 5, cfg.MaxFiles)
	assert.True(t, cfg.WriteToStderr)
}

func TestDebugConfig(t *testing.T) {
	cfg := DebugConfig()
	assert.Equal(t, "debug", cfg.Level)
}

func TestSetupWritesJSONLogs(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	cfg := Config{
		Level:         "info",
		FilePath:      logPath,
		MaxSizeMB:     1,
		MaxFiles:      3,
		WriteToStderr: false,
	}

	logger, cleanup, err := Setup(cfg)
	require.NoError(t, err)
	defer cleanup()

	logger.Info("hello", "project", "demo")
	cleanup()

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"hello"`)
	assert.Contains(t, string(content), `"project":"demo"`)
}

func TestFindLogFileMissing(t *testing.T) {
	_, err := FindLogFile(filepath.Join(t.TempDir(), "missing.log"))
	assert.Error(t, err)
}

func TestFindLogFileExplicit(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "explicit.log")
	require.NoError(t, os.WriteFile(logPath, []byte("x"), 0o644))

	found, err := FindLogFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, logPath, found)
}

func TestEnsureLogDir(t *testing.T) {
	require.NoError(t, EnsureLogDir())
}
