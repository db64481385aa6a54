package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  path: `+filepath.Join(t.TempDir(), "test.db")+`
redis:
  address: localhost:6379
  db: 1
booking_store:
  base_url: https://store.example.com
  api_key: secret
  cache_ttl_seconds: 120
  rate_per_second: 5
  rate_burst: 10
session:
  timeout_minutes: 15
  horizon_days: 180
  cleanup_minutes: 2
export:
  enabled: true
  path: /tmp/reports
  retention_days: 90
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, "https://store.example.com", cfg.BookingStore.BaseURL)
	assert.Equal(t, "secret", cfg.BookingStore.APIKey)
	assert.Equal(t, 5.0, cfg.BookingStore.RatePerSecond)
	assert.Equal(t, 120*time.Second, cfg.CacheTTL())
	assert.Equal(t, 15*time.Minute, cfg.SessionTimeout())
	assert.Equal(t, 180*24*time.Hour, cfg.BookingHorizon())
	assert.Equal(t, 2*time.Minute, cfg.CleanupInterval())
	assert.True(t, cfg.Export.Enabled)
}

func TestLoadDefaults(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "staybook.db")
	path := writeConfig(t, "database:\n  path: "+dbPath+"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout())
	assert.Equal(t, 365*24*time.Hour, cfg.BookingHorizon())
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval())

	// The database directory is created on load
	_, err = os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("STAYBOOK_TEST_API_KEY", "from-env")
	path := writeConfig(t, `
database:
  path: `+filepath.Join(t.TempDir(), "test.db")+`
booking_store:
  api_key: ${STAYBOOK_TEST_API_KEY}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.BookingStore.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}
