// Package config defines all configuration for the BTNL client. Config is
// loaded from a YAML file (default: configs/config.yaml) with the sensitive
// auth token overridable via a BTNL_* environment variable.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level configuration. Maps directly to the YAML file
// structure.
type Config struct {
	Connection ConnectionConfig `mapstructure:"connection"`
	API        APIConfig        `mapstructure:"api"`
	WS         WSConfig         `mapstructure:"ws"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ConnectionConfig addresses and authenticates one BTP session.
type ConnectionConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	ConnectionID      uint64 `mapstructure:"connection_id"`
	AuthToken         string `mapstructure:"auth_token"` // 64 hex chars = 32 raw bytes
	HeartbeatInterval uint8  `mapstructure:"heartbeat_interval"`
}

// APIConfig addresses the REST façade.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Env     string `mapstructure:"env"` // "prod" or "sandbox"
}

// WSConfig addresses the WebSocket façade.
type WSConfig struct {
	URL string `mapstructure:"url"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultRESTBaseURL is the production REST façade base URL (spec.md §6).
const DefaultRESTBaseURL = "https://bitnomial.com/exchange/api/v1"

// DefaultWSURL is the production WebSocket façade URL (spec.md §6).
const DefaultWSURL = "wss://bitnomial.com/exchange/ws"

// DefaultHeartbeatInterval is the session heartbeat cadence used when the
// config file doesn't set one (spec.md §8 scenario 3 uses the same value).
const DefaultHeartbeatInterval uint8 = 30

// Load reads config from a YAML file with env var overrides. The auth token
// is the one sensitive field and can be supplied via BTNL_AUTH_TOKEN instead
// of committing it to the YAML file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("BTNL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("connection.heartbeat_interval", DefaultHeartbeatInterval)
	v.SetDefault("api.base_url", DefaultRESTBaseURL)
	v.SetDefault("api.env", "prod")
	v.SetDefault("ws.url", DefaultWSURL)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if token := os.Getenv("BTNL_AUTH_TOKEN"); token != "" {
		cfg.Connection.AuthToken = token
	}

	return &cfg, nil
}

// Validate checks all required fields and value ranges.
func (c *Config) Validate() error {
	if c.Connection.Host == "" {
		return fmt.Errorf("connection.host is required")
	}
	if c.Connection.Port == 0 {
		return fmt.Errorf("connection.port is required")
	}
	if c.Connection.ConnectionID == 0 {
		return fmt.Errorf("connection.connection_id is required")
	}
	if len(c.Connection.AuthToken) != 64 {
		return fmt.Errorf("connection.auth_token must be 64 hex characters (32 bytes), got %d", len(c.Connection.AuthToken))
	}
	if c.Connection.HeartbeatInterval == 0 {
		return fmt.Errorf("connection.heartbeat_interval must be > 0")
	}
	if c.API.Env != "prod" && c.API.Env != "sandbox" {
		return fmt.Errorf("api.env must be one of: prod, sandbox")
	}
	return nil
}
