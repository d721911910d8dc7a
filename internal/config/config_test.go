package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, BackendJSON, cfg.DataBackend)
	assert.Equal(t, 60, cfg.RefreshIntervalMinutes)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.DesktopNotifications)
}

func TestLoadTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
data_backend = "sqlite"
data_dir = "/tmp/duetick-test"
refresh_interval_minutes = 30
desktop_notifications = false
log_level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.DataBackend)
	assert.Equal(t, "/tmp/duetick-test", cfg.DataDir)
	assert.Equal(t, 30, cfg.RefreshIntervalMinutes)
	assert.False(t, cfg.DesktopNotifications)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("data_backend = [oops"), 0o640))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DUETICK_DATA_BACKEND", "sqlite")
	t.Setenv("DUETICK_REFRESH_INTERVAL_MINUTES", "15")
	t.Setenv("DUETICK_DESKTOP_NOTIFICATIONS", "off")

	cfg := FromEnv(Default())
	assert.Equal(t, BackendSQLite, cfg.DataBackend)
	assert.Equal(t, 15, cfg.RefreshIntervalMinutes)
	assert.False(t, cfg.DesktopNotifications)
}

func TestEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("DUETICK_REFRESH_INTERVAL_MINUTES", "soon")
	t.Setenv("DUETICK_DESKTOP_NOTIFICATIONS", "maybe")

	cfg := FromEnv(Default())
	assert.Equal(t, 60, cfg.RefreshIntervalMinutes)
	assert.True(t, cfg.DesktopNotifications)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := Default()
	cfg.DataBackend = "redis"
	require.Error(t, cfg.Validate())
}

func TestPathsDeriveFromDataDir(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/data/duetick"
	assert.Equal(t, "/data/duetick/tasks.json", cfg.TasksPath())
	assert.Equal(t, "/data/duetick/duetick.db", cfg.DatabasePath())
	assert.Equal(t, "/data/duetick/duetick.log", cfg.LogPath())
}
