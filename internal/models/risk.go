package models

import (
	"time"

	"hipaa-audit/internal/compliance"

	"gorm.io/gorm"
)

type RiskStatus string

const (
	RiskOpen       RiskStatus = "Open"
	RiskInProgress RiskStatus = "In Progress"
	RiskMitigated  RiskStatus = "Mitigated"
	RiskAccepted   RiskStatus = "Accepted"
	RiskClosed     RiskStatus = "Closed"
)

var RiskStatuses = []RiskStatus{RiskOpen, RiskInProgress, RiskMitigated, RiskAccepted, RiskClosed}

type Risk struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	Likelihood  int    `gorm:"not null;check:chk_risks_likelihood,likelihood BETWEEN 1 AND 5"`
	Impact      int    `gorm:"not null;check:chk_risks_impact,impact BETWEEN 1 AND 5"`
	// RiskScore всегда выставляется в BeforeSave, из формы не принимается
	RiskScore  int        `gorm:"not null;index;check:chk_risks_score,risk_score = likelihood * impact"`
	Mitigation string     `gorm:"type:text"`
	Owner      string     `gorm:"size:100"`
	Status     RiskStatus `gorm:"size:32;not null;default:'Open'"`
	CreatedBy  string     `gorm:"size:50"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Risk) TableName() string { return "risks" }

func (r *Risk) BeforeSave(tx *gorm.DB) error {
	score, err := compliance.Score(r.Likelihood, r.Impact)
	if err != nil {
		return err
	}
	r.RiskScore = score
	if r.Status == "" {
		r.Status = RiskOpen
	}
	return nil
}

func (r Risk) Band() compliance.Band {
	return compliance.BandFor(r.RiskScore)
}
