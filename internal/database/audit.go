package database

import (
	"context"

	"hipaa-audit/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// helper для записи в журнал действий; ошибки только логируются
func CreateAuditLog(ctx context.Context, db *gorm.DB, actor, entity, entityID, action, details string) {
	if db == nil {
		return
	}
	record := models.AuditLog{
		Actor:    actor,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	if err := db.WithContext(ctx).Create(&record).Error; err != nil {
		zap.L().Warn("failed to write audit log",
			zap.String("entity", entity),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
