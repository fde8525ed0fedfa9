package config

import (
	"time"
)

// Config represents the complete application configuration. Values are
// layered: built-in defaults, an optional YAML file, then MEALDESK_*
// environment variables.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Limits  LimitsConfig  `mapstructure:"limits"`
	AILink  AILinkConfig  `mapstructure:"ailink"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// AntiForgeryToken is the sentinel value the transport layer
	// expects on every chat request.
	AntiForgeryToken string `mapstructure:"anti_forgery_token"`
}

// StoreConfig contains database configuration for libsql/Turso.
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// LimitsConfig holds the admission and rate budget knobs. None of these
// are hardcoded in core logic; they always flow in from here.
type LimitsConfig struct {
	// Quota is the number of admitted requests per subject per window.
	Quota int `mapstructure:"quota"`
	// Window is the fixed rate-limit window size.
	Window time.Duration `mapstructure:"window"`
	// MaxMessageLength bounds chat message size in characters.
	MaxMessageLength int `mapstructure:"max_message_length"`
}

// AILinkConfig configures the upstream model provider.
type AILinkConfig struct {
	// Provider selects the driver: "openai" or "anthropic".
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	// CallTimeout is the hard per-call deadline for upstream calls.
	CallTimeout time.Duration `mapstructure:"call_timeout"`
	MaxTokens   int           `mapstructure:"max_tokens"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level controls the minimum log level.
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Port is the dedicated metrics endpoint port (Prometheus format).
	Port int `mapstructure:"port"`
}

// HealthConfig contains health check configuration.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
