package models

import "time"

// PHIType — категория защищаемой медицинской информации и порядок работы с ней.
type PHIType struct {
	ID                 uint   `gorm:"primaryKey"`
	Name               string `gorm:"column:phi_type;size:255;not null"`
	Description        string `gorm:"type:text"`
	Classification     string `gorm:"size:64;not null"`
	AccessPatterns     string `gorm:"type:text"`
	DisposalProcedures string `gorm:"type:text"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (PHIType) TableName() string { return "phi_tracking" }
