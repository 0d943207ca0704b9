package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateBridgeURL validates a Slicer bridge WebSocket URL
func (v *Validator) ValidateBridgeURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("bridge URL cannot be empty")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid bridge URL: %w", err)
	}

	if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
		return fmt.Errorf("bridge URL must use ws or wss scheme, got %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("bridge URL must include a host")
	}

	return nil
}

// ValidateLogLevel validates a log level name
func (v *Validator) ValidateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
		return nil
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}
}

// ValidateSharedSecret validates a gateway shared secret
func (v *Validator) ValidateSharedSecret(secret string) error {
	// An empty secret disables gateway auth, which is only sane for
	// local development
	if secret == "" {
		return nil
	}
	if len(secret) < 16 {
		return fmt.Errorf("shared secret must be at least 16 characters")
	}
	return nil
}
