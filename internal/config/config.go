package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts time.ParseDuration strings ("30s", "1m") in YAML, which
// plain time.Duration fields do not.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) String() string { return time.Duration(d).String() }

// SyncConfig is the root configuration for a tickersync instance.
type SyncConfig struct {
	API       APIConfig       `yaml:"api"`
	Warehouse DBConfig        `yaml:"warehouse"`
	Loader    LoaderConfig    `yaml:"loader"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Health    HealthConfig    `yaml:"health"`
}

// APIConfig holds upstream market-data API settings.
type APIConfig struct {
	BaseURL    string   `yaml:"base_url"`
	Key        string   `yaml:"key"`
	PageLimit  int      `yaml:"page_limit"` // listing page size; large pages risk memory pressure
	Timeout    Duration `yaml:"timeout"`
	MaxRetries int      `yaml:"max_retries"`
}

// DBConfig holds the warehouse connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Schema   string `yaml:"schema"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// LoaderConfig holds warehouse load settings.
type LoaderConfig struct {
	Table     string `yaml:"table"`
	ChunkSize int    `yaml:"chunk_size"`
}

// SchedulerConfig holds the daily trigger settings.
type SchedulerConfig struct {
	DailyAt      string   `yaml:"daily_at"` // local wall-clock trigger, "HH:MM"
	PollInterval Duration `yaml:"poll_interval"`
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Port int `yaml:"port"`
}
