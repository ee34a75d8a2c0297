package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Environment string

	ServerPort    string
	SessionSecret string

	DBDriver string
	DBDSN    string

	UploadDir      string
	MaxUploadBytes int64

	AdminUsername string
	AdminPassword string
	AdminEmail    string

	LogLevel  string
	LogFormat string

	// пусто — используются встроенные шаблоны
	TemplatesDir string
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_DSN", "data/hipaa_audit.db")
	v.SetDefault("UPLOAD_DIR", "data/uploads")
	v.SetDefault("MAX_UPLOAD_BYTES", 16<<20)
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_EMAIL", "admin@hipaa.local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	cfg := &Config{
		Environment:    strings.ToLower(v.GetString("APP_ENV")),
		ServerPort:     v.GetString("SERVER_PORT"),
		SessionSecret:  v.GetString("SESSION_SECRET"),
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:          v.GetString("DB_DSN"),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		AdminUsername:  v.GetString("ADMIN_USERNAME"),
		AdminPassword:  v.GetString("ADMIN_PASSWORD"),
		AdminEmail:     v.GetString("ADMIN_EMAIL"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		TemplatesDir:   v.GetString("TEMPLATES_DIR"),
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, errors.Newf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, errors.New("MAX_UPLOAD_BYTES must be positive")
	}

	// в dev-режиме разрешаем дефолтный пароль администратора
	if cfg.AdminPassword == "" && !cfg.IsProduction() {
		cfg.AdminPassword = "ChangeMe123!"
	}

	return cfg, nil
}

// Validate проверяет то, что нужно только веб-серверу.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is not set")
	}
	if c.IsProduction() && len(c.SessionSecret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 bytes in production")
	}
	if c.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD is not set")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
