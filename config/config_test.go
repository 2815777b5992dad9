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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":9090", cfg.Server.Addr())
	assert.Equal(t, 10, cfg.Pagination.PageSize)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 20*time.Second, cfg.Cache.IndexTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadFileValues(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  dsn: ":memory:"
pagination:
  page_size: 5
cache:
  index_ttl: 1m
redis:
  enabled: true
  addr: redis:6379
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5, cfg.Pagination.PageSize)
	assert.Equal(t, time.Minute, cfg.Cache.IndexTTL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "pagination:\n  page_size: 5\n")
	t.Setenv("YATUBE_PAGINATION_PAGE_SIZE", "25")
	t.Setenv("YATUBE_JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Pagination.PageSize)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero page size", mutate: func(c *Config) { c.Pagination.PageSize = 0 }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "release without secret", mutate: func(c *Config) { c.Server.Mode = "release" }, wantErr: true},
		{name: "release with secret", mutate: func(c *Config) {
			c.Server.Mode = "release"
			c.JWT.Secret = "s3cret"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server:     ServerConfig{Mode: "debug"},
				Database:   DatabaseConfig{Driver: "sqlite"},
				Pagination: PaginationConfig{PageSize: 10},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
