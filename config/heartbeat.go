package config

import "time"

// HeartbeatConfig configures the liveness heartbeat.
type HeartbeatConfig struct {
	// Interval is the beat period.
	Interval time.Duration `env:"INTERVAL" envDefault:"60s"`
}

// minHeartbeatInterval guards the server against misconfigured
// sub-second beat storms.
const minHeartbeatInterval = 5 * time.Second

// Sanitize applies guardrails to the heartbeat configuration.
func (c *HeartbeatConfig) Sanitize() {
	if c.Interval < minHeartbeatInterval {
		c.Interval = minHeartbeatInterval
	}
}
