// Package config loads application settings from environment variables.
// Defaults cover everything except the database URL, and Load validates the
// result so misconfiguration fails at startup.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Import   ImportConfig
	Audit    AuditConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including waiting for
	// running imports (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required).
	// DB_URL is accepted as an alternative.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// ConnectTimeout bounds each (re)connection attempt (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`
}

// ImportConfig holds CSV import settings.
type ImportConfig struct {
	// MaxFileSize is the largest accepted upload in bytes (default: 20MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"20971520"`

	// MaxConcurrent is the number of imports allowed to run at once.
	// The default of 1 keeps a single writer.
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" default:"1"`

	// MaxWaitTime is how long a new import waits for a slot (default: 30s)
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" default:"30s"`

	// ResultTTL is how long finished import results stay queryable (default: 15m)
	ResultTTL time.Duration `env:"IMPORT_RESULT_TTL" default:"15m"`
}

// Audit sink names.
const (
	AuditSinkLog  = "log"
	AuditSinkDB   = "db"
	AuditSinkBoth = "both"
)

// AuditConfig selects where audit messages go.
type AuditConfig struct {
	// Sink is one of log, db, both (default: both)
	Sink string `env:"AUDIT_SINK" default:"both"`

	// Timeout bounds a single audit write (default: 5s)
	Timeout time.Duration `env:"AUDIT_TIMEOUT" default:"5s"`

	// Retention deletes database audit entries older than this; 0 keeps them forever (default: 2160h, 90 days)
	Retention time.Duration `env:"AUDIT_RETENTION" default:"2160h"`

	// PurgeInterval is how often the retention job runs (default: 24h)
	PurgeInterval time.Duration `env:"AUDIT_PURGE_INTERVAL" default:"24h"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
