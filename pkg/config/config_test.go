package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite://rocketjam.db", cfg.DatabaseURL)
	assert.Equal(t, "./migrations", cfg.MigrationsDir)
	assert.Equal(t, 1024, cfg.UserCacheSize)
	assert.False(t, cfg.TLSEnabled())
	assert.False(t, cfg.TokenLoginEnabled())
}

func TestLoad_partialTLS(t *testing.T) {
	t.Setenv("ROCKETJAM_TLS_CERT_FILE", "cert.pem")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_Database(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantKind     DatabaseKind
		wantLocation string
		wantErr      bool
	}{
		{
			name:         "sqlite relative file",
			url:          "sqlite://rocketjam.db",
			wantKind:     DatabaseKindSQLite,
			wantLocation: "rocketjam.db",
		},
		{
			name:         "sqlite nested path",
			url:          "sqlite://data/users.db",
			wantKind:     DatabaseKindSQLite,
			wantLocation: "data/users.db",
		},
		{
			name:         "postgres",
			url:          "postgresql://rocketjam@localhost/rocketjam",
			wantKind:     DatabaseKindPostgres,
			wantLocation: "postgresql://rocketjam@localhost/rocketjam",
		},
		{
			name:    "unknown scheme",
			url:     "mysql://localhost/rocketjam",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DatabaseURL: tt.url}
			kind, location, err := cfg.Database()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantLocation, location)
		})
	}
}

func TestConfig_MigrationsFor(t *testing.T) {
	cfg := &Config{MigrationsDir: "./migrations"}

	assert.Equal(t, "migrations/sqlite", cfg.MigrationsFor(DatabaseKindSQLite))
	assert.Equal(t, "migrations/postgresql", cfg.MigrationsFor(DatabaseKindPostgres))
}
