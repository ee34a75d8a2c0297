package models

import (
	"time"

	"hipaa-audit/internal/compliance"
)

// Requirement — пункт чек-листа HIPAA. Ключ для ссылок — RequirementID ("A.1").
type Requirement struct {
	ID            uint              `gorm:"primaryKey"`
	RequirementID string            `gorm:"size:16;uniqueIndex;not null"`
	Title         string            `gorm:"size:255;not null"`
	Description   string            `gorm:"type:text"`
	Category      string            `gorm:"size:64;not null;index"`
	Status        compliance.Status `gorm:"size:32;not null;default:'Not Assessed'"`
	Notes         string            `gorm:"type:text"`
	AssessedBy    string            `gorm:"size:50"`
	AssessedAt    *time.Time
	UpdatedAt     time.Time
}

func (Requirement) TableName() string { return "hipaa_requirements" }
