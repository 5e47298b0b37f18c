package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// AppConfig is the main configuration struct for the client session
// subsystem, composed from domain-specific configuration in separate
// files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library:
//   - api.go: remote API endpoint configuration
//   - storage.go: durable session storage configuration
//   - heartbeat.go: liveness heartbeat configuration
type AppConfig struct {
	// IsDev controls development mode behavior (verbose logging).
	IsDev bool `env:"DEV" envDefault:"false"`

	// API is the remote API endpoint configuration.
	API APIConfig `envPrefix:"API_"`

	// Storage selects and configures the durable session store.
	Storage StorageConfig `envPrefix:"STORAGE_"`

	// Heartbeat configures the liveness signal.
	Heartbeat HeartbeatConfig `envPrefix:"HEARTBEAT_"`
}

// Load parses the configuration from environment variables and
// applies guardrails.
func Load() (AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config from env: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// Sanitize applies guardrails to configuration values loaded from
// env. It is called by Load and is safe to call again.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.Storage.Sanitize()
	c.Heartbeat.Sanitize()
}
