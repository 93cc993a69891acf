// Package config loads and validates YAML configuration with ${VAR}
// environment substitution. Missing required settings fail at startup,
// before any sync is attempted.
package config
