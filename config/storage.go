package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StorageBackend selects the durable session store implementation.
type StorageBackend string

const (
	// StorageFile keeps the slots in local files (default).
	StorageFile StorageBackend = "file"
	// StorageRedis keeps the slots in Redis for shared terminals.
	StorageRedis StorageBackend = "redis"
	// StoragePostgres keeps the slots in Postgres for back-office
	// deployments.
	StoragePostgres StorageBackend = "postgres"
)

// UnmarshalText implements encoding.TextUnmarshaler for
// StorageBackend.
func (b *StorageBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "file", "redis", "postgres":
		*b = StorageBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageBackend: %q (valid options: file, redis, postgres)", v)
	}
}

// RedisStorageConfig configures the Redis backend.
type RedisStorageConfig struct {
	Addr      string `env:"ADDR"       envDefault:"localhost:6379"`
	Password  string `env:"PASSWORD"`
	DB        int    `env:"DB"         envDefault:"0"`
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"oressource:session:"`
}

// PostgresStorageConfig configures the Postgres backend.
type PostgresStorageConfig struct {
	// URL is a pgx connection string.
	URL string `env:"URL"`
}

// StorageConfig selects and configures the durable session store.
type StorageConfig struct {
	Backend StorageBackend `env:"BACKEND" envDefault:"file"`

	// Dir is the file backend's directory. Defaults to
	// ~/.oressource when unset.
	Dir string `env:"DIR"`

	// TerminalID scopes the Redis and Postgres slots so several
	// terminals can share one backend.
	TerminalID string `env:"TERMINAL_ID" envDefault:"default"`

	Redis    RedisStorageConfig    `envPrefix:"REDIS_"`
	Postgres PostgresStorageConfig `envPrefix:"PG_"`
}

// Sanitize applies guardrails to the storage configuration.
func (c *StorageConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = StorageFile
	}
	if c.TerminalID == "" {
		c.TerminalID = "default"
	}
	if c.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Dir = filepath.Join(home, ".oressource")
		} else {
			c.Dir = ".oressource"
		}
	}
}
