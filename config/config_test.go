package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
env: prod
listen: ":9000"
redis:
  addr: "localhost:6380"
  db: 2
records_api:
  base_url: "https://records.example.com/rest/v1"
  api_key: "key"
refresh:
  cron: "*/30 * * * *"
  max_retries: 5
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ENV_PROD, cfg.Env)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "Asia/Dubai", cfg.Timezone)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "https://records.example.com/rest/v1", cfg.RecordsAPI.BaseURL)
	assert.False(t, cfg.RecordsAPI.UseMock)
	assert.Equal(t, "*/30 * * * *", cfg.Refresh.Cron)
	assert.Equal(t, 5, cfg.Refresh.MaxRetries)
	assert.Equal(t, 5, cfg.Refresh.RetryWaitSeconds)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
listen: ":9000"
records_api:
  use_mock: true
`)
	t.Setenv("LISTEN_ADDR", ":7000")
	t.Setenv("REDIS_USE_MOCK", "true")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Listen)
	assert.True(t, cfg.Redis.UseMock)
}

func TestLoad_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("RECORDS_API_USE_MOCK", "true")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, ENV_DEV, cfg.Env)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "0 */6 * * *", cfg.Refresh.Cron)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.True(t, cfg.RecordsAPI.UseMock)
}

func TestLoad_MissingFileEnvTurnsOffMock(t *testing.T) {
	t.Setenv("RECORDS_API_USE_MOCK", "false")
	t.Setenv("RECORDS_API_BASE_URL", "https://records.example.com/rest/v1")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.False(t, cfg.RecordsAPI.UseMock)
	assert.Equal(t, "https://records.example.com/rest/v1", cfg.RecordsAPI.BaseURL)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("timezone", func(t *testing.T) {
		path := writeConfig(t, "timezone: Mars/Olympus\nrecords_api:\n  use_mock: true\n")
		_, err := Load(path)
		assert.Error(t, err)
	})
	t.Run("records api without url", func(t *testing.T) {
		path := writeConfig(t, "timezone: UTC\n")
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := DefaultConfig()
	want.Timezone = "UTC"
	want.Redis.UseMock = true

	require.NoError(t, Save(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSave_Rejects(t *testing.T) {
	assert.Error(t, Save("", DefaultConfig()))
	assert.Error(t, Save(filepath.Join(t.TempDir(), "c.yaml"), nil))
}
