// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server needs to start.
type Config struct {
	// HTTP server
	Port string

	// Storage
	DataBackend  string // "sqlite" or "memory"
	SQLiteDBPath string

	// Auth
	JWTSecret     string
	TokenDuration time.Duration
}

type getenv func(key string) string

// Load reads configuration from the environment, falling back to
// development defaults.
func Load(lookup getenv) *Config {
	return &Config{
		Port:          getEnv(lookup, "PORT", "8080"),
		DataBackend:   getEnv(lookup, "DATA_BACKEND", "sqlite"),
		SQLiteDBPath:  getEnv(lookup, "SQLITE_DB_PATH", "./data/splitledger.db"),
		JWTSecret:     getEnv(lookup, "JWT_SECRET", ""),
		TokenDuration: getEnvDuration(lookup, "TOKEN_DURATION", 24*time.Hour),
	}
}

func getEnv(lookup getenv, key, fallback string) string {
	if value := lookup(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(lookup getenv, key string, fallback time.Duration) time.Duration {
	value := lookup(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// Validate checks the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		}
	case "memory":
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [sqlite memory]", c.DataBackend))
	}

	if c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, fmt.Sprintf("invalid token duration %s: must be positive", c.TokenDuration))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
