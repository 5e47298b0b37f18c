package config

import (
	"strings"
	"time"
)

// APIConfig configures how the client reaches the remote API.
type APIConfig struct {
	// BaseURL is the API base. Relative bases ("/api") match the
	// browser deployment; terminal deployments use an absolute URL.
	BaseURL string `env:"BASE_URL" envDefault:"/api"`

	// LoginPath is the login entry point a 401 redirects to.
	LoginPath string `env:"LOGIN_PATH" envDefault:"/login"`

	// Timeout is the per-request timeout of the underlying transport.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to the API configuration.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL == "" {
		c.BaseURL = "/api"
	}
	if c.LoginPath == "" {
		c.LoginPath = "/login"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}
