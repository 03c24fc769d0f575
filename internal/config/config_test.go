package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 4, cfg.Edgar.RatePerSecond)
	assert.Equal(t, 3, cfg.Edgar.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Edgar.RetryBase)
	assert.Equal(t, 30*time.Second, cfg.Edgar.Timeout)
	assert.Equal(t, "./index", cfg.Edgar.IndexDir)
	assert.Equal(t, 1000, cfg.Edgar.BatchSize)
	assert.False(t, cfg.Edgar.DownloadNonXML)
	assert.NotEmpty(t, cfg.Edgar.UserAgent)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
database:
  url: postgres://localhost:5432/edgar
edgar:
  rate_per_second: 2
  user_agent: "Example Co ops@example.com"
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/edgar", cfg.Database.URL)
	assert.Equal(t, 2, cfg.Edgar.RatePerSecond)
	assert.Equal(t, "Example Co ops@example.com", cfg.Edgar.UserAgent)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	require.NoError(t, os.WriteFile("config.yaml", []byte("{nope: ["), 0o644))

	_, err := Load()
	require.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level"})
	require.Error(t, err)
}
