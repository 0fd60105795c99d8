package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "data/presence.db", cfg.Database.Path)
	assert.Equal(t, "presence", cfg.Storage.KeyPrefix)
	assert.Equal(t, "us-east-1", cfg.Storage.Region)
	assert.Equal(t, 8.0, cfg.Presence.OffsetHours)
	assert.Equal(t, 16, cfg.Presence.MaxInFlight)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PRESENCE_SERVER_ADDR", "127.0.0.1:9999")
	t.Setenv("PRESENCE_STORE_DRIVER", "S3")
	t.Setenv("PRESENCE_STORAGE_BUCKET", "realm")
	t.Setenv("PRESENCE_AUTH_JWTSECRET", "s3cr3t")
	t.Setenv("PRESENCE_PRESENCE_OFFSETHOURS", "-5.5")

	cfg, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.Equal(t, DriverS3, cfg.Store.Driver)
	assert.Equal(t, "realm", cfg.Storage.Bucket)
	assert.Equal(t, "s3cr3t", cfg.Auth.JWTSecret)
	assert.Equal(t, -5.5, cfg.Presence.OffsetHours)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
store:
  driver: postgres
database:
  dsn: postgres://localhost/presence
presence:
  maxinflight: 4
`), 0o600))

	cfg, err := load(dir)
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/presence", cfg.Database.DSN)
	assert.Equal(t, 4, cfg.Presence.MaxInFlight)
}

func TestLoad_BrokenConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unterminated"), 0o600))

	_, err := load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(`
# comment
PRESENCE_AUTH_JWTSECRET="from-dotenv"
not a pair
`), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("PRESENCE_AUTH_JWTSECRET") })

	cfg, err := load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Auth.JWTSecret)
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":  {"PRESENCE_STORE_DRIVER": "mongo"},
		"postgres no dsn": {"PRESENCE_STORE_DRIVER": "postgres"},
		"s3 no bucket":    {"PRESENCE_STORE_DRIVER": "s3"},
		"zero in flight":  {"PRESENCE_PRESENCE_MAXINFLIGHT": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := load(t.TempDir())
			require.Error(t, err)
		})
	}
}
