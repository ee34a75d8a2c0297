package models

import "time"

const (
	ContractActive     = "Active"
	ContractPending    = "Pending"
	ContractExpired    = "Expired"
	ContractTerminated = "Terminated"

	AssociateCompliant    = "Compliant"
	AssociateNonCompliant = "Non-Compliant"
	AssociateUnderReview  = "Under Review"
	AssociateNotAssessed  = "Not Assessed"
)

var (
	ContractStatuses           = []string{ContractActive, ContractPending, ContractExpired, ContractTerminated}
	AssociateComplianceOptions = []string{AssociateCompliant, AssociateNonCompliant, AssociateUnderReview, AssociateNotAssessed}
)

type BusinessAssociate struct {
	ID                 uint   `gorm:"primaryKey"`
	Name               string `gorm:"size:255;not null"`
	ContactPerson      string `gorm:"size:255"`
	Email              string `gorm:"size:255"`
	Phone              string `gorm:"size:50"`
	ContractStatus     string `gorm:"size:32;not null;default:'Active'"`
	ComplianceStatus   string `gorm:"size:32;not null;default:'Not Assessed'"`
	LastAssessmentDate *time.Time
	NextAssessmentDate *time.Time
	AssessmentNotes    string `gorm:"type:text"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (BusinessAssociate) TableName() string { return "business_associates" }
