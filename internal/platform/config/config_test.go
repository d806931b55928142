package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"studylog/internal/platform/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STUDYLOG_DATABASE_DSN", "")
	t.Setenv("DISCORD_CLIENT_ID", "")

	cfg, err := config.Load(dir, "")
	require.NoError(t, err)
	require.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	require.Equal(t, filepath.Join(dir, "studylog.db"), cfg.Database.DSN)
	require.Equal(t, config.WindowMonth, cfg.Presence.Window)
	require.Equal(t, 24, cfg.Report.RecentHours)
	require.Equal(t, filepath.Join(dir, "report.md"), cfg.Report.ExportPath)
	require.False(t, cfg.Presence.Enabled)
}

func TestLoadOverlaysYAMLAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	body := []byte(`
presence:
  enabled: true
  plugin: /opt/studylog/discord
  window: trailing
  trailing_days: 7
  timeout: 1500ms
report:
  recent_hours: 12
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), body, 0o644))
	t.Setenv("DISCORD_CLIENT_ID", "12345")
	t.Setenv("STUDYLOG_DATABASE_DSN", "")

	cfg, err := config.Load(dir, "")
	require.NoError(t, err)
	require.True(t, cfg.Presence.Enabled)
	require.Equal(t, "/opt/studylog/discord", cfg.Presence.Plugin)
	require.Equal(t, config.WindowTrailing, cfg.Presence.Window)
	require.Equal(t, 7, cfg.Presence.TrailingDays)
	require.Equal(t, 1500*time.Millisecond, cfg.Presence.Timeout)
	require.Equal(t, "12345", cfg.Presence.DiscordClientID)
	require.Equal(t, 12, cfg.Report.RecentHours)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "image", cfg.Presence.DefaultImageKey)
}

func TestLoadRejectsUnknownDriverAndMissingExplicitFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STUDYLOG_DATABASE_DSN", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("database:\n  driver: mysql\n"), 0o644))
	_, err := config.Load(dir, "")
	require.Error(t, err)

	_, err = config.Load(t.TempDir(), filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
