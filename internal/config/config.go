// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Storage backend selectors. The backend is a startup-time decision;
// nothing downstream of the repository interfaces branches on it.
const (
	BackendPostgres = "postgres"
	BackendCouchDB  = "couchdb"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Storage backend: "postgres" or "couchdb"
	StorageBackend string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// CouchDB connection (legacy backend)
	CouchURL      string
	CouchUser     string
	CouchPassword string
	CouchDBName   string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Initial admin account, seeded on first start if no users exist
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		StorageBackend: envOrDefault("STORAGE_BACKEND", BackendPostgres),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "pagecraft"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "pagecraft"),

		CouchURL:      envOrDefault("COUCHDB_URL", "http://localhost:5984"),
		CouchUser:     envOrDefault("COUCHDB_USER", "admin"),
		CouchPassword: os.Getenv("COUCHDB_PASSWORD"),
		CouchDBName:   envOrDefault("COUCHDB_DATABASE", "pagecraft"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AdminEmail:    envOrDefault("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	switch cfg.StorageBackend {
	case BackendPostgres, BackendCouchDB:
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q",
			BackendPostgres, BackendCouchDB, cfg.StorageBackend)
	}

	if cfg.Env == "production" {
		if cfg.StorageBackend == BackendPostgres && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.StorageBackend == BackendCouchDB && cfg.CouchPassword == "" {
			return nil, fmt.Errorf("COUCHDB_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// CouchDSN returns the CouchDB server URL with credentials applied.
func (c *Config) CouchDSN() string {
	if c.CouchUser == "" {
		return c.CouchURL
	}
	scheme, rest, found := strings.Cut(c.CouchURL, "://")
	if !found {
		return c.CouchURL
	}
	return fmt.Sprintf("%s://%s:%s@%s", scheme, c.CouchUser, c.CouchPassword, rest)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
