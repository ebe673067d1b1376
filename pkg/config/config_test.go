package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: debug
  format: json

catalog:
  host: db.internal
  port: 6543
  user: peerdb
  password: secret
  database: catalog
  health_check_period: 30s

auto_migrate: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, "db.internal", cfg.Catalog.Host)
	assert.Equal(t, uint16(6543), cfg.Catalog.Port)
	assert.Equal(t, "secret", cfg.Catalog.Password)
	assert.Equal(t, 30*time.Second, cfg.Catalog.HealthCheckPeriod)
	assert.Equal(t, 3, cfg.Catalog.FailureThreshold)
	assert.Equal(t, int32(4), cfg.Catalog.MaxConns)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, GetDefaultConfig(), cfg)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PEERCATALOG_CATALOG_HOST", "env-host")
	t.Setenv("PEERCATALOG_CATALOG_PORT", "7000")
	t.Setenv("PEERCATALOG_CATALOG_CONNECT_TIMEOUT", "2s")
	t.Setenv("PEERCATALOG_LOGGING_LEVEL", "warn")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("catalog:\n  host: file-host\n"), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "env-host", cfg.Catalog.Host)
	assert.Equal(t, uint16(7000), cfg.Catalog.Port)
	assert.Equal(t, 2*time.Second, cfg.Catalog.ConnectTimeout)
	assert.Equal(t, "WARN", cfg.Logging.Level)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"BadLogLevel", "logging:\n  level: chatty\n", "logging.level must be one of"},
		{"BadFormat", "logging:\n  format: xml\n", "logging.format must be one of"},
		{"BadSampleRate", "telemetry:\n  sample_rate: 2\n", "telemetry.samplerate must be at most 1"},
		{"BadMetricsPort", "metrics:\n  port: 70000\n", "metrics.port must be at most 65535"},
		{"BadPoolSizing", "catalog:\n  max_conns: 2\n  min_conns: 5\n", "min_conns (5) cannot be greater"},
		{"BadDuration", "catalog:\n  connect_timeout: soon\n", "failed to unmarshal config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.content), 0644))

			_, err := Load(configPath)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Catalog.Host = "saved-host"
	cfg.Catalog.Password = "pw"
	cfg.Catalog.HealthCheckPeriod = 45 * time.Second
	require.NoError(t, SaveConfig(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefaultConfigPathHonoursXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "peercatalog", "config.yaml"), GetDefaultConfigPath())
	assert.False(t, DefaultConfigExists())
}
