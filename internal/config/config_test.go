package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kaixxz/MediNote/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600))
	return dir
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := config.LoadFrom(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.API.Port)
	assert.Equal(t, "1", cfg.API.DefaultAccountID)
	assert.Equal(t, config.LedgerBackendDatabase, cfg.Ledger.Backend)
	assert.Equal(t, int64(3), cfg.Ledger.StartingGrant)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 60*time.Second, cfg.Provider.Timeout)
	assert.False(t, cfg.Provider.Enable)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadFrom_File(t *testing.T) {
	dir := writeConfig(t, `
api:
  port: ":9000"
ledger:
  backend: memory
  starting_grant: 10
database:
  driver: postgres
  host: db
  port: "5432"
provider:
  enable: true
  api_key: sk-file
  timeout: 5s
  breaker:
    failure_threshold: 3
rabbitmq:
  enable: true
  queue: audit
`)

	cfg, err := config.LoadFrom(dir)

	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.API.Port)
	assert.Equal(t, config.LedgerBackendMemory, cfg.Ledger.Backend)
	assert.Equal(t, int64(10), cfg.Ledger.StartingGrant)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.True(t, cfg.Provider.Enable)
	assert.Equal(t, "sk-file", cfg.Provider.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, uint32(3), cfg.Provider.Breaker.FailureThreshold)
	assert.True(t, cfg.RabbitMQ.Enable)
	assert.Equal(t, "audit", cfg.RabbitMQ.Queue)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	dir := writeConfig(t, "provider:\n  api_key: sk-file\n")
	t.Setenv("MEDINOTE_PROVIDER_API_KEY", "sk-env")
	t.Setenv("MEDINOTE_API_DEFAULT_ACCOUNT_ID", "clinic-7")

	cfg, err := config.LoadFrom(dir)

	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.Provider.APIKey)
	assert.Equal(t, "clinic-7", cfg.API.DefaultAccountID)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown backend": "ledger:\n  backend: redis\n",
		"negative grant":  "ledger:\n  starting_grant: -1\n",
		"broken yaml":     "api: [\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.LoadFrom(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
