package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL      = "https://api.polygon.io"
	DefaultPageLimit    = 1000
	DefaultAPITimeout   = Duration(30 * time.Second)
	DefaultMaxRetries   = 3
	DefaultDBPort       = 5432
	DefaultDBSchema     = "public"
	DefaultDBSSLMode    = "prefer"
	DefaultMaxConns     = 10
	DefaultMinConns     = 2
	DefaultTable        = "stock_tickers"
	DefaultChunkSize    = 500
	DefaultDailyAt      = "09:00"
	DefaultPollInterval = Duration(60 * time.Second)
	DefaultHealthPort   = 8080
)

func (c *SyncConfig) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.PageLimit == 0 {
		c.API.PageLimit = DefaultPageLimit
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}

	// Warehouse defaults
	if c.Warehouse.Port == 0 {
		c.Warehouse.Port = DefaultDBPort
	}
	if c.Warehouse.Schema == "" {
		c.Warehouse.Schema = DefaultDBSchema
	}
	if c.Warehouse.SSLMode == "" {
		c.Warehouse.SSLMode = DefaultDBSSLMode
	}
	if c.Warehouse.MaxConns == 0 {
		c.Warehouse.MaxConns = DefaultMaxConns
	}
	if c.Warehouse.MinConns == 0 {
		c.Warehouse.MinConns = DefaultMinConns
	}

	// Loader defaults
	if c.Loader.Table == "" {
		c.Loader.Table = DefaultTable
	}
	if c.Loader.ChunkSize == 0 {
		c.Loader.ChunkSize = DefaultChunkSize
	}

	// Scheduler defaults
	if c.Scheduler.DailyAt == "" {
		c.Scheduler.DailyAt = DefaultDailyAt
	}
	if c.Scheduler.PollInterval == 0 {
		c.Scheduler.PollInterval = DefaultPollInterval
	}

	// Health defaults
	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}
}
