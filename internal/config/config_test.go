package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ENVIRONMENT", "LOG_LEVEL", "CODEBAKERS_DATA_DIR", "CODEBAKERS_STORE",
		"CODEBAKERS_PROJECT_KEY", "CODEBAKERS_HTTP_ADDR",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, ":8787", cfg.HTTPAddr)
	assert.Equal(t, filepath.Join(home, ".codebakers"), cfg.DataDir)
	assert.Empty(t, cfg.ProjectKey)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CODEBAKERS_DATA_DIR", "/var/lib/codebakers")
	t.Setenv("CODEBAKERS_STORE", " File ")
	t.Setenv("CODEBAKERS_PROJECT_KEY", "/work/acme")
	t.Setenv("CODEBAKERS_HTTP_ADDR", "127.0.0.1:9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/lib/codebakers", cfg.DataDir)
	assert.Equal(t, StoreFile, cfg.Store)
	assert.Equal(t, "/work/acme", cfg.ProjectKey)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
}

func TestLoad_UnknownStore(t *testing.T) {
	clearEnv(t)
	t.Setenv("CODEBAKERS_STORE", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CODEBAKERS_STORE")
}

func TestValidate(t *testing.T) {
	valid := Config{Store: StoreMemory, HTTPAddr: ":1"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty store", func(c *Config) { c.Store = "" }},
		{"unknown store", func(c *Config) { c.Store = "redis" }},
		{"empty http addr", func(c *Config) { c.HTTPAddr = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestIsDevelopment(t *testing.T) {
	assert.False(t, (&Config{Environment: "production"}).IsDevelopment())
	assert.True(t, (&Config{Environment: "Development"}).IsDevelopment())
}
