// Package store wraps every SQL statement the application issues.
package store

import (
	"context"

	"hipaa-audit/internal/database"
	"hipaa-audit/internal/models"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrUnknownRequirement = errors.New("unknown requirement")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return database.Ping(ctx, s.db)
}

func (s *Store) Audit(ctx context.Context, actor, entity, entityID, action, details string) {
	database.CreateAuditLog(ctx, s.db, actor, entity, entityID, action, details)
}

// notFound переводит gorm.ErrRecordNotFound в ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, what)
	}
	return errors.Wrap(err, what)
}

// TableCounts — размеры основных таблиц для отладочной страницы.
type TableCounts struct {
	Requirements int64 `json:"hipaa_requirements"`
	Evidence     int64 `json:"evidence"`
	Risks        int64 `json:"risks"`
	PHITypes     int64 `json:"phi_tracking"`
	Associates   int64 `json:"business_associates"`
}

func (s *Store) TableCounts(ctx context.Context) (TableCounts, error) {
	var tc TableCounts
	targets := []struct {
		model interface{}
		dst   *int64
	}{
		{&models.Requirement{}, &tc.Requirements},
		{&models.Evidence{}, &tc.Evidence},
		{&models.Risk{}, &tc.Risks},
		{&models.PHIType{}, &tc.PHITypes},
		{&models.BusinessAssociate{}, &tc.Associates},
	}
	for _, t := range targets {
		if err := s.db.WithContext(ctx).Model(t.model).Count(t.dst).Error; err != nil {
			return TableCounts{}, errors.Wrap(err, "count rows")
		}
	}
	return tc, nil
}

// ListAuditLogs — последние записи журнала действий.
func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.db.WithContext(ctx).Order("created_at desc, id desc").Limit(limit).Find(&logs).Error
	return logs, errors.Wrap(err, "list audit logs")
}
