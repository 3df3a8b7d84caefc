package config

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds the server settings read from the environment.
// Listen ports, log level and loop intervals come from flags instead.
type Config struct {
	DatabaseURL       string `env:"ROCKETJAM_DATABASE_URL" envDefault:"sqlite://rocketjam.db"`
	MigrationsDir     string `env:"ROCKETJAM_MIGRATIONS_DIR" envDefault:"./migrations"`
	TLSCertFile       string `env:"ROCKETJAM_TLS_CERT_FILE"`
	TLSKeyFile        string `env:"ROCKETJAM_TLS_KEY_FILE"`
	FirebaseProjectID string `env:"ROCKETJAM_FIREBASE_PROJECT_ID"`
	FirebaseAPIKey    string `env:"ROCKETJAM_FIREBASE_API_KEY"`
	StaticDir         string `env:"ROCKETJAM_STATIC_DIR"`
	UserCacheSize     int    `env:"ROCKETJAM_USER_CACHE_SIZE" envDefault:"1024"`
}

// DatabaseKind identifies which repository implementation a database URL selects.
type DatabaseKind string

const (
	DatabaseKindSQLite   DatabaseKind = "sqlite"
	DatabaseKindPostgres DatabaseKind = "postgresql"
)

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %v", err)
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return nil, fmt.Errorf("ROCKETJAM_TLS_CERT_FILE and ROCKETJAM_TLS_KEY_FILE must be set together")
	}
	return cfg, nil
}

// TLSEnabled reports whether both TLS files are configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// TokenLoginEnabled reports whether ID token login through Firebase is configured.
func (c *Config) TokenLoginEnabled() bool {
	return c.FirebaseProjectID != ""
}

// Database splits the database URL into the repository kind and the
// location handed to that repository (a file path for sqlite, the full
// URL for postgres).
func (c *Config) Database() (DatabaseKind, string, error) {
	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse connection string: %v", err)
	}

	switch DatabaseKind(u.Scheme) {
	case DatabaseKindSQLite:
		path := u.Host + u.Path
		if path == "" {
			return "", "", fmt.Errorf("sqlite connection string has no path: %s", c.DatabaseURL)
		}
		return DatabaseKindSQLite, path, nil
	case DatabaseKindPostgres, "postgres":
		return DatabaseKindPostgres, u.String(), nil
	default:
		return "", "", fmt.Errorf("unknown database type %s", u.Scheme)
	}
}

// MigrationsFor returns the directory holding the migrations of kind.
func (c *Config) MigrationsFor(kind DatabaseKind) string {
	return filepath.Join(c.MigrationsDir, string(kind))
}
