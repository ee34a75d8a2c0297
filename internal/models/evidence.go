package models

import "time"

type Evidence struct {
	ID               uint   `gorm:"primaryKey"`
	RequirementID    string `gorm:"size:16;not null;index"`
	Filename         string `gorm:"size:255;not null"` // имя на диске, с префиксом времени
	OriginalFilename string `gorm:"size:255;not null"`
	FilePath         string `gorm:"size:512;not null"`
	FileSize         int64
	Description      string    `gorm:"type:text"`
	UploadedBy       string    `gorm:"size:50"`
	UploadedAt       time.Time `gorm:"autoCreateTime"`

	// заполняется при выборке с JOIN на hipaa_requirements
	RequirementTitle string `gorm:"->;-:migration"`
}

func (Evidence) TableName() string { return "evidence" }
