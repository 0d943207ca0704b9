package config

import (
	"encoding/json"
	"fmt"
)

// Config represents the main SlicerTools configuration
type Config struct {
	// Slicer bridge connection
	Slicer SlicerConfig `json:"slicer" mapstructure:"slicer"`

	// Gateway configuration
	Gateway GatewayConfig `json:"gateway" mapstructure:"gateway"`

	// Metrics configuration
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// SlicerConfig holds Slicer bridge connection settings
type SlicerConfig struct {
	// URL of the bridge WebSocket endpoint inside the Slicer process,
	// e.g. ws://localhost:2016/slicer
	URL string `json:"url" mapstructure:"url"`

	// Handshake timeout in seconds for the initial dial
	HandshakeTimeout int `json:"handshake_timeout" mapstructure:"handshake_timeout"`
}

// GatewayConfig holds the orchestrator-facing gateway settings
type GatewayConfig struct {
	Port         int    `json:"port" mapstructure:"port"`
	Host         string `json:"host" mapstructure:"host"`
	SharedSecret string `json:"shared_secret" mapstructure:"shared_secret"`

	// IdempotencyTTL is how long, in seconds, completed tool responses
	// are replayed for repeated idempotency keys
	IdempotencyTTL int `json:"idempotency_ttl" mapstructure:"idempotency_ttl"`
}

// MetricsConfig holds metrics exposure settings
type MetricsConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Slicer: SlicerConfig{
			URL:              "ws://localhost:2016/slicer",
			HandshakeTimeout: 10,
		},
		Gateway: GatewayConfig{
			Port:           8080,
			Host:           "0.0.0.0",
			SharedSecret:   "",
			IdempotencyTTL: 300,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
		DataDir: "",
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	v := NewValidator()

	if err := v.ValidateBridgeURL(c.Slicer.URL); err != nil {
		return fmt.Errorf("slicer: %w", err)
	}
	if c.Slicer.HandshakeTimeout < 0 {
		return fmt.Errorf("invalid handshake timeout: %d", c.Slicer.HandshakeTimeout)
	}
	if c.Gateway.Port <= 0 || c.Gateway.Port > 65535 {
		return fmt.Errorf("invalid gateway port: %d", c.Gateway.Port)
	}
	if err := v.ValidateSharedSecret(c.Gateway.SharedSecret); err != nil {
		return fmt.Errorf("gateway: %w", err)
	}
	if c.Gateway.IdempotencyTTL < 0 {
		return fmt.Errorf("invalid idempotency TTL: %d", c.Gateway.IdempotencyTTL)
	}
	if err := v.ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
