package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the server configuration, loaded from an optional YAML
// file with environment variable overrides for the secrets.
type Config struct {
	// Listen is the address the HTTP server binds to.
	Listen string `yaml:"listen"`

	// Dev enables debug logging and console log output.
	Dev bool `yaml:"dev"`

	Database Database `yaml:"database"`
	Auth     Auth     `yaml:"auth"`
	CORS     CORS     `yaml:"cors"`
}

// Database configures the PostgreSQL store. When ConnString is empty the
// server falls back to the in-memory store.
type Database struct {
	ConnString      string `yaml:"conn_string"`
	MaxConns        int32  `yaml:"max_conns"`
	MinConns        int32  `yaml:"min_conns"`
	MaxConnLifetime int32  `yaml:"max_conn_lifetime"`
	MaxConnIdleTime int32  `yaml:"max_conn_idle_time"`
	AutoMigrate     bool   `yaml:"auto_migrate"`
}

// Auth configures caller token verification.
type Auth struct {
	// Secret signs and verifies caller bearer tokens. Minimum 32 bytes.
	Secret string `yaml:"secret"`
}

// CORS configures cross-origin access for browser clients.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads configuration from path (optional - pass "" to use defaults)
// and applies environment overrides: BUDGETFLOW_DATABASE_URL and
// BUDGETFLOW_AUTH_SECRET.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v := os.Getenv("BUDGETFLOW_DATABASE_URL"); v != "" {
		cfg.Database.ConnString = v
	}
	if v := os.Getenv("BUDGETFLOW_AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}

	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = "localhost:8080"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"http://localhost:5173"}
	}
}

// Validate checks that the configuration is complete enough to start the
// server.
func (c *Config) Validate() error {
	if c.Auth.Secret == "" {
		return errors.New("auth secret is required (set auth.secret or BUDGETFLOW_AUTH_SECRET)")
	}
	if len(c.Auth.Secret) < 32 {
		return errors.New("auth secret must be at least 32 bytes")
	}
	return nil
}
