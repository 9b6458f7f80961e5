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
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MEDICONSULT_JWT_SECRET", "s3cret")
	path := writeConfig(t, "generation:\n  provider: static\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "mediConsult_", cfg.Store.Prefix)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 90*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, "gemini-3-pro-preview", cfg.Generation.PrescriptionModel)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	t.Setenv("MEDICONSULT_GEMINI_API_KEY", "key-from-env")
	t.Setenv("MEDICONSULT_SERVER_PORT", "9090")
	path := writeConfig(t, `
store:
  backend: redis
  redis:
    url: redis://cache:6379/1
jwt:
  secret: from-file
generation:
  provider: gemini
  timeout: 45s
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "redis://cache:6379/1", cfg.Store.Redis.URL)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, "key-from-env", cfg.Generation.APIKey)
	assert.Equal(t, 45*time.Second, cfg.Generation.Timeout)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Store:      StoreConfig{Backend: "postgres"},
		JWT:        JWTConfig{Secret: "x"},
		Generation: GenerationConfig{Provider: "gemini", APIKey: "k"},
	}
	require.NoError(t, valid.Validate())

	tests := map[string]func(*Config){
		"unknown backend":  func(c *Config) { c.Store.Backend = "sqlite" },
		"unknown provider": func(c *Config) { c.Generation.Provider = "openai" },
		"missing secret":   func(c *Config) { c.JWT.Secret = "" },
		"missing api key":  func(c *Config) { c.Generation.APIKey = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
