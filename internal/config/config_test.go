package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, dotenv, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, dotenv)
	assert.Equal(t, "api_key.bin", cfg.Keys.BinaryFile)
	assert.Equal(t, "api_key.txt", cfg.Keys.TextFile)
	assert.Equal(t, "https://v6.exchangerate-api.com/v6", cfg.ExchangeAPI.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.ExchangeAPI.Timeout)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "conversion_log.txt", cfg.Files.ConversionLog)
	assert.Equal(t, "conversion_results.csv", cfg.Files.Export)
	assert.Equal(t, 7, cfg.History.Days)
	assert.Empty(t, cfg.Metrics.Textfile)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("EXCHANGE_API_TIMEOUT", "0s")
	t.Setenv("HISTORY_DAYS", "30")
	t.Setenv("TIMESERIES_API_KEY", "host-key")

	cfg, _, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.ExchangeAPI.Timeout)
	assert.Equal(t, 30, cfg.History.Days)
	assert.Equal(t, "host-key", cfg.Timeseries.APIKey)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EXPORT_FILE=out.csv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("EXPORT_FILE") })

	cfg, dotenv, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, dotenv)
	assert.Equal(t, "out.csv", cfg.Files.Export)
}

func TestLoadConfig_Invalid(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("CACHE_TTL", "soon")
	_, _, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("CACHE_TTL", "-1h")
	_, _, err = LoadConfig()
	assert.Error(t, err)
}
