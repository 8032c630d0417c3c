package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.AllowOrigin)
	assert.Equal(t, "", cfg.Database.Driver)
	assert.False(t, cfg.Database.Configured())
	assert.Equal(t, "memory", cfg.KV.Driver)
	assert.Equal(t, "redis", cfg.Redis.Type)
	assert.Equal(t, 3*time.Second, cfg.Reconcile.Timeout)
	assert.True(t, cfg.Reconcile.Converge)
	assert.Equal(t, "+218", cfg.Registration.CountryCode)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_NAME", "registry.db")
	t.Setenv("RECONCILE_TIMEOUT", "750ms")
	t.Setenv("KV_DRIVER", "redis")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.Database.Configured())
	assert.Equal(t, 750*time.Millisecond, cfg.Reconcile.Timeout)
	assert.Equal(t, "redis", cfg.KV.Driver)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_API_KEY=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SERVER_API_KEY") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Server.ApiKey)
}
