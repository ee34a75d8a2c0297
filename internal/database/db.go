package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hipaa-audit/internal/config"
	"hipaa-audit/internal/models"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	maxAttempts  = 10
	retryBackoff = 2 * time.Second
)

// Init открывает базу, применяет миграции и заполняет чек-лист и администратора.
func Init(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	inserted, err := SeedRequirements(ctx, db)
	if err != nil {
		return nil, err
	}
	if inserted > 0 {
		log.Info("seeded HIPAA requirements", zap.Int64("count", inserted))
	}

	created, err := EnsureAdmin(ctx, db, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail)
	if err != nil {
		return nil, err
	}
	if created {
		log.Info("created default admin user", zap.String("username", cfg.AdminUsername))
	}

	return db, nil
}

func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, attempts, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gcfg := &gorm.Config{
		Logger: gormlogger.New(gormWriter{log.Sugar()}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var db *gorm.DB
	for i := 1; i <= attempts; i++ {
		log.Info("connecting to database",
			zap.String("driver", cfg.DBDriver),
			zap.Int("attempt", i),
			zap.Int("max_attempts", attempts),
		)

		db, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}

		log.Warn("failed to connect to database", zap.Error(err))
		if i == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "waiting for database")
		case <-time.After(retryBackoff):
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s after %d attempts", cfg.DBDriver, attempts)
	}

	if cfg.DBDriver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "sqlite handle")
		}
		// SQLite не любит параллельных писателей
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, int, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DBDSN), maxAttempts, nil
	case config.DriverSQLite:
		if err := ensureSQLiteDir(cfg.DBDSN); err != nil {
			return nil, 0, err
		}
		return sqlite.Open(cfg.DBDSN), 1, nil
	default:
		return nil, 0, errors.Newf("unsupported database driver %q", cfg.DBDriver)
	}
}

func ensureSQLiteDir(dsn string) error {
	if strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, ":memory:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.Wrapf(err, "create database directory %s", dir)
	}
	return nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Requirement{},
		&models.Evidence{},
		&models.Risk{},
		&models.PHIType{},
		&models.BusinessAssociate{},
		&models.AuditLog{},
	)
	return errors.Wrap(err, "migrate")
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormWriter направляет логи gorm в zap.
type gormWriter struct {
	s *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.s.Warnf(format, args...)
}
