package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoad_FileThenEnv(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
  read_timeout: 5s
store:
  driver: postgres
  postgres:
    host: db
    max_conns: 20
auth:
  token_ttl: 1h
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("MONGO_TRANSACTIONS", "true")
	t.Setenv("IDEMPOTENCY_TTL", "10m")

	// Act
	cfg, err := Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "db.internal", cfg.Store.Postgres.Host)
	assert.EqualValues(t, 20, cfg.Store.Postgres.MaxConns)
	assert.Equal(t, "root", cfg.Store.Postgres.User)
	assert.True(t, cfg.Store.Mongo.Transactions)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10*time.Minute, cfg.Redis.IdempotencyTTL)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := Load()
	assert.ErrorContains(t, err, "unknown store driver")

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("MONGO_TRANSACTIONS", "maybe")
	_, err = Load()
	assert.ErrorContains(t, err, "MONGO_TRANSACTIONS")
}
