package database

import (
	"fmt"
	"net/url"

	"github.com/quantfeed/tickersync/internal/config"
)

// BuildConnString builds a PostgreSQL connection string from config.
func BuildConnString(cfg config.DBConfig) string {
	// URL-encode password to handle special characters
	escapedPassword := url.QueryEscape(cfg.Password)

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		escapedPassword,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		sslMode,
	)

	// pgx passes unrecognized URL params through as runtime parameters.
	if cfg.Schema != "" {
		connStr += "&search_path=" + url.QueryEscape(cfg.Schema)
	}

	return connStr
}
