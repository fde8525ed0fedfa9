// Package config provides centralized configuration management for
// MealDesk: built-in defaults, an optional YAML config file, and
// MEALDESK_* environment variable overrides layered via viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. MEALDESK_LIMITS_QUOTA.
const EnvPrefix = "MEALDESK"

var (
	appConfig *Config
	configMu  sync.RWMutex
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("store.driver", "libsql")

	v.SetDefault("limits.quota", 30)
	v.SetDefault("limits.window", time.Minute)
	v.SetDefault("limits.max_message_length", 4000)

	v.SetDefault("ailink.provider", "openai")
	v.SetDefault("ailink.model", "gpt-4o-mini")
	v.SetDefault("ailink.call_timeout", 30*time.Second)
	v.SetDefault("ailink.max_tokens", 1024)

	v.SetDefault("logging.level", "info")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("health.enabled", true)
}

// Load reads configuration from defaults, an optional file, and the
// environment. Safe to call multiple times (e.g. for config reload).
func Load(configFile string) (*Config, error) {
	v := viper.GetViper()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(configFile) != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "mealdesk"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No file is fine; defaults and env vars apply.
	}

	cfg := &Config{}
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.Store.URL) == "" && strings.TrimSpace(cfg.Store.Path) == "" {
		cfg.Store.Path = defaultStorePath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setConfig(cfg)
	return cfg, nil
}

// Validate rejects configurations the core cannot run under.
func (c *Config) Validate() error {
	if c.Limits.Quota < 1 {
		return fmt.Errorf("limits.quota must be at least 1, got %d", c.Limits.Quota)
	}
	if c.Limits.Window < time.Second {
		return fmt.Errorf("limits.window must be at least 1s, got %s", c.Limits.Window)
	}
	if c.Limits.MaxMessageLength < 1 {
		return fmt.Errorf("limits.max_message_length must be at least 1, got %d", c.Limits.MaxMessageLength)
	}
	if c.AILink.CallTimeout <= 0 {
		return fmt.Errorf("ailink.call_timeout must be positive, got %s", c.AILink.CallTimeout)
	}
	return nil
}

// GetConfig returns the current application configuration (thread-safe).
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

func defaultStorePath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "mealdesk", "mealdesk.db")
	}
	return filepath.Join(".", "mealdesk.db")
}
