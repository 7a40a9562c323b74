package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "shopping_store.db", cfg.Database.SQLitePath)
	assert.Equal(t, 5000, cfg.Gateway.Port)
	assert.False(t, cfg.Order.AllowOversell)
	assert.True(t, cfg.Order.AllowEmpty)
	assert.Equal(t, 10*time.Second, cfg.Order.RequestTimeout)
	assert.Equal(t, []string{"stdout"}, cfg.Log.OutputPaths)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
gateway:
  host: 127.0.0.1
  port: 8080
database:
  driver: mysql
  host: db
  port: 3307
  username: shop
  password: secret
  database: store
order:
  allow_oversell: true
  request_timeout: 3s
redis:
  enabled: true
  addr: cache:6379
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Gateway.Addr())
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "shop:secret@tcp(db:3307)/store?charset=utf8mb4&parseTime=True&loc=Local", cfg.Database.DSN())
	assert.True(t, cfg.Order.AllowOversell)
	assert.Equal(t, 3*time.Second, cfg.Order.RequestTimeout)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	// untouched keys keep their defaults
	assert.Equal(t, "audit_logs", cfg.MongoDB.Collection)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SHOPSTORE_GATEWAY_PORT", "9090")
	t.Setenv("SHOPSTORE_ORDER_ALLOW_EMPTY", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Gateway.Port)
	assert.False(t, cfg.Order.AllowEmpty)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("unsupported driver", func(t *testing.T) {
		path := writeConfig(t, "database:\n  driver: oracle\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported database driver")
	})

	t.Run("mysql without username", func(t *testing.T) {
		path := writeConfig(t, "database:\n  driver: mysql\n")
		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestDatabaseConfig_SQLiteDSN(t *testing.T) {
	cfg := DatabaseConfig{Driver: "sqlite", SQLitePath: "store.db"}
	assert.Equal(t, "store.db?_foreign_keys=on", cfg.DSN())

	cfg.SQLitePath = "file:store.db?cache=shared"
	assert.Equal(t, "file:store.db?cache=shared&_foreign_keys=on", cfg.DSN())
}
