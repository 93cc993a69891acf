package config

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Destination table name is interpolated into DDL/DML, so it must be a bare
// SQL identifier.
var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that all required fields are set and values are valid.
func (c *SyncConfig) Validate() error {
	if c.API.Key == "" {
		return errors.New("api.key is required")
	}
	if c.API.PageLimit < 1 {
		return errors.New("api.page_limit must be >= 1")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}

	if err := c.Warehouse.validate("warehouse"); err != nil {
		return err
	}

	if !identifierRe.MatchString(c.Loader.Table) {
		return fmt.Errorf("loader.table %q is not a valid identifier", c.Loader.Table)
	}
	if c.Loader.ChunkSize < 1 {
		return errors.New("loader.chunk_size must be >= 1")
	}

	if _, err := time.Parse("15:04", c.Scheduler.DailyAt); err != nil {
		return fmt.Errorf("scheduler.daily_at %q is not a valid HH:MM time", c.Scheduler.DailyAt)
	}
	if time.Duration(c.Scheduler.PollInterval) < time.Second {
		return errors.New("scheduler.poll_interval must be >= 1s")
	}

	if c.Health.Port < 1 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 1 and 65535, got %d", c.Health.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
