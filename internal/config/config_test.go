package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "data/hipaa_audit.db", cfg.DBDSN)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, int64(16<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.NotEmpty(t, cfg.AdminPassword, "development falls back to a default admin password")
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("DB_DSN", "host=db user=hipaa dbname=hipaa")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.Empty(t, cfg.AdminPassword)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Environment: EnvDevelopment, AdminPassword: "x"}
	assert.Error(t, cfg.Validate(), "missing session secret")

	cfg.SessionSecret = "short"
	assert.NoError(t, cfg.Validate())

	cfg.Environment = EnvProduction
	assert.Error(t, cfg.Validate(), "short secret in production")

	cfg.SessionSecret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())

	cfg.AdminPassword = ""
	assert.Error(t, cfg.Validate())
}
