package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NUTSHELL_AUTH_TOKEN", "test-token-1234567890")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "lru", cfg.Cache.Backend)
	assert.Equal(t, 50, cfg.Cache.Capacity)
	assert.Equal(t, 6, cfg.App.CodeLength)
	assert.Equal(t, "test-token-1234567890", cfg.Auth.Token)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NUTSHELL_AUTH_TOKEN", "test-token-1234567890")
	t.Setenv("NUTSHELL_DATABASE_TYPE", "memory")
	t.Setenv("NUTSHELL_CACHE_BACKEND", "none")
	t.Setenv("NUTSHELL_CACHE_CAPACITY", "128")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Database.Type)
	assert.Equal(t, "none", cfg.Cache.Backend)
	assert.Equal(t, 128, cfg.Cache.Capacity)
}

func TestLoad_MissingAuthToken(t *testing.T) {
	t.Setenv("NUTSHELL_AUTH_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NUTSHELL_AUTH_TOKEN")
}

func TestLoad_ShortAuthToken(t *testing.T) {
	t.Setenv("NUTSHELL_AUTH_TOKEN", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 10 characters")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Auth:  AuthConfig{Token: "valid-token-123456"},
			Cache: CacheConfig{Backend: "lru", Capacity: 50},
			App:   AppConfig{CodeLength: 6},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("zero cache capacity", func(t *testing.T) {
		cfg := base()
		cfg.Cache.Capacity = 0
		assert.Error(t, cfg.validate())
	})

	t.Run("code length too small", func(t *testing.T) {
		cfg := base()
		cfg.App.CodeLength = 1
		assert.Error(t, cfg.validate())
	})
}

func TestGetDatabaseURL(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Type:     "sqlite",
			SQLite:   SQLiteConfig{Path: "./data/test.db"},
			Postgres: PostgresConfig{URL: "postgres://localhost/test"},
		},
	}

	assert.Equal(t, "./data/test.db", cfg.GetDatabaseURL())

	cfg.Database.Type = "postgres"
	assert.Equal(t, "postgres://localhost/test", cfg.GetDatabaseURL())

	cfg.Database.Type = "memory"
	assert.Equal(t, "", cfg.GetDatabaseURL())
}
