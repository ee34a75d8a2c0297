package models

import "time"

// AuditLog — журнал действий пользователя. Только для информации, целостность не гарантируется.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`

	Actor    string `gorm:"size:50"`
	Entity   string `gorm:"size:50;not null"` // "requirement", "evidence", "risk", ...
	EntityID string `gorm:"size:32"`
	Action   string `gorm:"size:50;not null"` // "create", "update", "status_change" и т.п.
	Details  string `gorm:"type:text"`
}
