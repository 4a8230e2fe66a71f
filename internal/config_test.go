package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8, cfg.Memory.MaxMessages)
	assert.Equal(t, 30*time.Minute, cfg.Memory.SessionTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Memory.CleanupInterval)
	assert.Equal(t, 1000, cfg.Cache.MaxSize)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 10*time.Minute, cfg.Cache.CleanupInterval)
	assert.Equal(t, 50, cfg.Cache.MaxHistoryPerSession)
	assert.Equal(t, ":5000", cfg.Server.Addr)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tourmate.yaml")
	content := `memory:
  max_messages: 12
  session_timeout: 45m
cache:
  max_size: 200
server:
  addr: ":6000"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("TOURMATE_TAVILY_API_KEY", "tav-key")
	t.Setenv("TOURMATE_CACHE_TTL", "2h")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("model", "gemini-default", "")
	require.NoError(t, flags.Parse([]string{"--model", "gemini-pro"}))

	cfg, err := LoadConfig(path, flags, map[string]string{"gemini.model": "model"})
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Memory.MaxMessages)
	assert.Equal(t, 45*time.Minute, cfg.Memory.SessionTimeout)
	assert.Equal(t, 200, cfg.Cache.MaxSize)
	assert.Equal(t, 2*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, ":6000", cfg.Server.Addr)
	assert.Equal(t, "gem-key", cfg.Gemini.APIKey)
	assert.Equal(t, "tav-key", cfg.Tavily.APIKey)
	assert.Equal(t, "gemini-pro", cfg.Gemini.Model)
	assert.Empty(t, cfg.MissingCredentials())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("TAVILY_API_KEY", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Memory.MaxMessages)
	assert.ElementsMatch(t, []string{"GEMINI_API_KEY", "TAVILY_API_KEY"}, cfg.MissingCredentials())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{"zero max messages", func(c *Config) { c.Memory.MaxMessages = 0 }, "memory.max_messages"},
		{"negative cache size", func(c *Config) { c.Cache.MaxSize = -1 }, "cache.max_size"},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, "cache.ttl"},
		{"zero session timeout", func(c *Config) { c.Memory.SessionTimeout = 0 }, "memory.session_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}
