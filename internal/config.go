package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every tunable of the assistant
type Config struct {
	Memory MemoryConfig
	Cache  CacheConfig
	Gemini GeminiConfig
	Tavily TavilyConfig
	Server ServerConfig
}

// MemoryConfig tunes the per-session message store
type MemoryConfig struct {
	MaxMessages     int
	SessionTimeout  time.Duration
	CleanupInterval time.Duration
	ContextWindow   int
}

// CacheConfig tunes the response cache and request history
type CacheConfig struct {
	MaxSize              int
	TTL                  time.Duration
	CleanupInterval      time.Duration
	MaxHistoryPerSession int
}

// GeminiConfig holds LLM settings
type GeminiConfig struct {
	APIKey string
	Model  string
}

// TavilyConfig holds search API settings
type TavilyConfig struct {
	APIKey     string
	BaseURL    string
	MaxResults int
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr string
}

var configDefaults = map[string]interface{}{
	"memory.max_messages":           8,
	"memory.session_timeout":        30 * time.Minute,
	"memory.cleanup_interval":       5 * time.Minute,
	"memory.context_window":         8,
	"cache.max_size":                1000,
	"cache.ttl":                     time.Hour,
	"cache.cleanup_interval":        10 * time.Minute,
	"cache.max_history_per_session": 50,
	"gemini.model":                  "gemini-2.0-flash",
	"tavily.base_url":               "https://api.tavily.com",
	"tavily.max_results":            5,
	"server.addr":                   ":5000",
}

// DefaultConfig returns the built-in defaults without reading files or env
func DefaultConfig() *Config {
	v := viper.New()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}
	return fromViper(v)
}

// DefaultConfigPath returns $HOME/.tourmate.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".tourmate.yaml"
	}
	return filepath.Join(homeDir, ".tourmate.yaml")
}

// LoadConfig layers defaults, the YAML config file, .env, environment and
// bound flags. A missing config file or .env is not an error.
// flagBindings maps config keys to flag names in flags.
func LoadConfig(path string, flags *pflag.FlagSet, flagBindings map[string]string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		LogWarn("Failed to load .env: %v", err)
	}

	v := viper.New()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}
	if port := os.Getenv("PORT"); port != "" {
		v.SetDefault("server.addr", ":"+port)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, &ConfigError{Key: path, Err: err}
			}
			LogDebug("Loaded config from %s", path)
		} else {
			LogDebug("Config file %s not found, using defaults and environment", path)
		}
	}

	v.SetEnvPrefix("TOURMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("gemini.api_key", "TOURMATE_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("tavily.api_key", "TOURMATE_TAVILY_API_KEY", "TAVILY_API_KEY")

	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, &ConfigError{Key: key, Err: err}
				}
			}
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Memory: MemoryConfig{
			MaxMessages:     v.GetInt("memory.max_messages"),
			SessionTimeout:  v.GetDuration("memory.session_timeout"),
			CleanupInterval: v.GetDuration("memory.cleanup_interval"),
			ContextWindow:   v.GetInt("memory.context_window"),
		},
		Cache: CacheConfig{
			MaxSize:              v.GetInt("cache.max_size"),
			TTL:                  v.GetDuration("cache.ttl"),
			CleanupInterval:      v.GetDuration("cache.cleanup_interval"),
			MaxHistoryPerSession: v.GetInt("cache.max_history_per_session"),
		},
		Gemini: GeminiConfig{
			APIKey: v.GetString("gemini.api_key"),
			Model:  v.GetString("gemini.model"),
		},
		Tavily: TavilyConfig{
			APIKey:     v.GetString("tavily.api_key"),
			BaseURL:    v.GetString("tavily.base_url"),
			MaxResults: v.GetInt("tavily.max_results"),
		},
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
	}
}

// Validate rejects sizes and durations that would disable the stores
func (c *Config) Validate() error {
	positiveInts := map[string]int{
		"memory.max_messages":           c.Memory.MaxMessages,
		"memory.context_window":         c.Memory.ContextWindow,
		"cache.max_size":                c.Cache.MaxSize,
		"cache.max_history_per_session": c.Cache.MaxHistoryPerSession,
	}
	for key, value := range positiveInts {
		if value <= 0 {
			return &ConfigError{Key: key, Err: fmt.Errorf("must be positive, got %d", value)}
		}
	}

	positiveDurations := map[string]time.Duration{
		"memory.session_timeout":  c.Memory.SessionTimeout,
		"memory.cleanup_interval": c.Memory.CleanupInterval,
		"cache.ttl":               c.Cache.TTL,
		"cache.cleanup_interval":  c.Cache.CleanupInterval,
	}
	for key, value := range positiveDurations {
		if value <= 0 {
			return &ConfigError{Key: key, Err: fmt.Errorf("must be positive, got %s", value)}
		}
	}
	return nil
}

// MissingCredentials lists the collaborator keys that are not configured
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.Gemini.APIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if c.Tavily.APIKey == "" {
		missing = append(missing, "TAVILY_API_KEY")
	}
	return missing
}
