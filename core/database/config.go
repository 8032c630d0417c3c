package database

import "time"

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds configuration for the primary relational store.
// An empty Driver means the store is not configured.
type Config struct {
	// Driver is the database driver (postgres, mysql, sqlite) or empty.
	Driver string `mapstructure:"driver" default:""`
	// URL is a full connection string. When set it takes precedence over the
	// individual fields (postgres and mysql only).
	URL string `mapstructure:"url" default:""`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port. Zero selects the driver default.
	Port int `mapstructure:"port" default:"0"`
	// User is the database user.
	User string `mapstructure:"user" default:"postgres"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name, or the file path for sqlite.
	Name string `mapstructure:"name" default:"course_registry"`
	// SSLMode is passed to postgres.
	SSLMode string `mapstructure:"ssl_mode" default:"disable"`
	// TimeoutSeconds bounds connection setup and I/O.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
	// RetrySeconds is the minimum wait between connection attempts while the
	// database is unreachable.
	RetrySeconds int `mapstructure:"retry_seconds" default:"30"`
}

// Configured reports whether a primary store should be used at all.
func (c Config) Configured() bool {
	switch c.Driver {
	case DriverSQLite:
		return c.Name != ""
	case DriverMySQL, DriverPostgres:
		return c.URL != "" || c.Host != ""
	default:
		return false
	}
}

func (c Config) port() int {
	if c.Port > 0 {
		return c.Port
	}
	if c.Driver == DriverMySQL {
		return 3306
	}
	return 5432
}

func (c Config) timeout() int {
	if c.TimeoutSeconds <= 0 {
		return 5
	}
	return c.TimeoutSeconds
}

// RetryInterval returns RetrySeconds as a duration.
func (c Config) RetryInterval() time.Duration {
	if c.RetrySeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RetrySeconds) * time.Second
}
