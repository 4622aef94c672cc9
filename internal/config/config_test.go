package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORAGE", "DB_PORT", "PASSWORD_RESET_TTL_MIN", "EMAIL_WORKERS", "LOGLEVEL", "ENV"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "5432", cfg.DbPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, 30*time.Minute, cfg.PasswordResetTTL())
	assert.Equal(t, 3, cfg.EmailWorkerCount())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE", "Mongo")
	t.Setenv("PASSWORD_RESET_TTL_MIN", "5")
	t.Setenv("RATE_LIMIT_RPS", "2")
	t.Setenv("RATE_LIMIT_BURST", "4")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StorageMongo, cfg.Storage)
	assert.Equal(t, 5*time.Minute, cfg.PasswordResetTTL())
	rps, burst := cfg.RateLimit()
	assert.Equal(t, 2, rps)
	assert.Equal(t, 4, burst)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "postgres without host",
			cfg:     Config{Storage: StoragePostgres, JWTSecret: "s"},
			wantErr: true,
		},
		{
			name: "postgres complete",
			cfg:  Config{Storage: StoragePostgres, DbHost: "h", DbUser: "u", DbName: "n", JWTSecret: "s"},
		},
		{
			name: "mongo complete",
			cfg:  Config{Storage: StorageMongo, MongoURI: "mongodb://x", MongoDB: "db", JWTSecret: "s"},
		},
		{
			name:    "unknown storage",
			cfg:     Config{Storage: "redis", JWTSecret: "s"},
			wantErr: true,
		},
		{
			name:    "empty secret in prod",
			cfg:     Config{Storage: StorageMemory, Env: "prod"},
			wantErr: true,
		},
		{
			name: "empty secret in dev is a warning",
			cfg:  Config{Storage: StorageMemory, Env: "dev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGetDSNSafe_HidesPassword(t *testing.T) {
	cfg := Config{DbUser: "u", DbPass: "secret", DbHost: "h", DbPort: "5432", DbName: "n", DbSSLMode: "disable"}

	assert.Contains(t, cfg.GetDSN(), "secret")
	assert.NotContains(t, cfg.GetDSNSafe(), "secret")
}
