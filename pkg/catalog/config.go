package catalog

import (
	"fmt"
	"time"

	"github.com/marmos91/peercatalog/pkg/peers"
)

// Config holds the connection parameters of the catalog's metadata store.
type Config struct {
	Host     string `mapstructure:"host" yaml:"host" validate:"required"`
	Port     uint16 `mapstructure:"port" yaml:"port" validate:"required"`
	User     string `mapstructure:"user" yaml:"user" validate:"required"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	Database string `mapstructure:"database" yaml:"database" validate:"required"`

	// Connection pool
	MaxConns int32 `mapstructure:"max_conns" yaml:"max_conns,omitempty"` // Default: 4
	MinConns int32 `mapstructure:"min_conns" yaml:"min_conns,omitempty"` // Default: 0

	// Supervision
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period" yaml:"health_check_period,omitempty"` // Default: 15s
	FailureThreshold  int           `mapstructure:"failure_threshold" yaml:"failure_threshold,omitempty"`     // Default: 3
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout,omitempty"`         // Default: 5s
}

// NewConfig returns a Config for the given endpoint with defaults applied.
func NewConfig(host string, port uint16, user, password, database string) *Config {
	cfg := &Config{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		Database: database,
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults sets default values for unspecified configuration fields
func (c *Config) ApplyDefaults() {
	if c.MaxConns == 0 {
		c.MaxConns = 4
	}
	if c.HealthCheckPeriod == 0 {
		c.HealthCheckPeriod = 15 * time.Second
	}
	if c.FailureThreshold == 0 {
		c.FailureThreshold = 3
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 5 * time.Second
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if c.User == "" {
		return fmt.Errorf("user is required")
	}
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	if c.MaxConns < 1 {
		return fmt.Errorf("max_conns must be at least 1")
	}
	if c.MinConns < 0 {
		return fmt.Errorf("min_conns cannot be negative")
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("min_conns (%d) cannot be greater than max_conns (%d)", c.MinConns, c.MaxConns)
	}
	if c.FailureThreshold < 1 {
		return fmt.Errorf("failure_threshold must be at least 1")
	}
	return nil
}

// ConnectionString renders the keyword/value connection string for the store.
// The password pair is omitted when no password is configured.
func (c *Config) ConnectionString() string {
	return c.PostgresConfig().ConnectionString()
}

// PostgresConfig converts the catalog endpoint into a Postgres peer
// configuration, used to open the query executor against the same store.
func (c *Config) PostgresConfig() *peers.PostgresConfig {
	return &peers.PostgresConfig{
		Host:     c.Host,
		Port:     uint32(c.Port),
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
	}
}
