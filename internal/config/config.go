package config

import "time"

// Config is the root configuration for a cryptostats instance.
type Config struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Ingest    IngestConfig    `yaml:"ingest"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Stats     StatsConfig     `yaml:"stats"`
}

// InstanceConfig identifies this service instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	DatePattern     string        `yaml:"date_pattern"` // Go reference layout for request dates
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects and configures the price store backend.
type DatabaseConfig struct {
	// Driver is "postgres" or "memory". The memory driver keeps everything
	// in-process and is intended for local runs and tests.
	Driver   string   `yaml:"driver"`
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// IngestConfig holds batch ingestion settings.
type IngestConfig struct {
	// Directory containing the price batch CSV files, processed once at startup.
	Directory string `yaml:"directory"`
}

// RateLimitConfig holds per-client request budget settings.
type RateLimitConfig struct {
	Requests int           `yaml:"requests"` // Bucket capacity
	Period   time.Duration `yaml:"period"`   // Interval between full refills
}

// StatsConfig holds statistics engine settings.
type StatsConfig struct {
	// QueryConcurrency bounds the per-asset fan-out of ranking queries.
	QueryConcurrency int `yaml:"query_concurrency"`
}
