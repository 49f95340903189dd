package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultServerPort       = 8080
	DefaultDatePattern      = "2006-1-2" // accepts both "2022-1-1" and "2022-01-01"
	DefaultReadTimeout      = 10 * time.Second
	DefaultWriteTimeout     = 30 * time.Second
	DefaultShutdownTimeout  = 10 * time.Second
	DefaultDBDriver         = "postgres"
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultIngestDirectory  = "prices"
	DefaultLimitRequests    = 10
	DefaultLimitPeriod      = 1 * time.Minute
	DefaultQueryConcurrency = 8
)

func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.DatePattern == "" {
		c.Server.DatePattern = DefaultDatePattern
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Database defaults
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDBDriver
	}
	applyDBDefaults(&c.Database.Postgres)

	// Ingest defaults
	if c.Ingest.Directory == "" {
		c.Ingest.Directory = DefaultIngestDirectory
	}

	// Rate limit defaults
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = DefaultLimitRequests
	}
	if c.RateLimit.Period == 0 {
		c.RateLimit.Period = DefaultLimitPeriod
	}

	// Stats defaults
	if c.Stats.QueryConcurrency == 0 {
		c.Stats.QueryConcurrency = DefaultQueryConcurrency
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
