package store

import (
	"context"
	"time"

	"hipaa-audit/internal/models"

	"github.com/cockroachdb/errors"
)

type AssociateInput struct {
	Name               string
	ContactPerson      string
	Email              string
	Phone              string
	ContractStatus     string
	ComplianceStatus   string
	LastAssessmentDate *time.Time
	NextAssessmentDate *time.Time
}

func (in AssociateInput) apply(ba *models.BusinessAssociate) {
	ba.Name = in.Name
	ba.ContactPerson = in.ContactPerson
	ba.Email = in.Email
	ba.Phone = in.Phone
	ba.ContractStatus = in.ContractStatus
	if ba.ContractStatus == "" {
		ba.ContractStatus = models.ContractActive
	}
	ba.ComplianceStatus = in.ComplianceStatus
	if ba.ComplianceStatus == "" {
		ba.ComplianceStatus = models.AssociateNotAssessed
	}
	ba.LastAssessmentDate = in.LastAssessmentDate
	ba.NextAssessmentDate = in.NextAssessmentDate
}

// Assessment — результат проверки бизнес-партнёра.
type Assessment struct {
	ComplianceStatus   string
	AssessmentDate     *time.Time
	NextAssessmentDate *time.Time
	Notes              string
}

func (s *Store) ListAssociates(ctx context.Context) ([]models.BusinessAssociate, error) {
	var list []models.BusinessAssociate
	err := s.db.WithContext(ctx).Order("created_at desc, id desc").Find(&list).Error
	return list, errors.Wrap(err, "list business associates")
}

func (s *Store) GetAssociate(ctx context.Context, id uint) (models.BusinessAssociate, error) {
	var ba models.BusinessAssociate
	if err := s.db.WithContext(ctx).First(&ba, id).Error; err != nil {
		return models.BusinessAssociate{}, notFound(err, "business associate")
	}
	return ba, nil
}

func (s *Store) CreateAssociate(ctx context.Context, in AssociateInput) (models.BusinessAssociate, error) {
	var ba models.BusinessAssociate
	in.apply(&ba)
	if err := s.db.WithContext(ctx).Create(&ba).Error; err != nil {
		return models.BusinessAssociate{}, errors.Wrap(err, "create business associate")
	}
	return ba, nil
}

func (s *Store) UpdateAssociate(ctx context.Context, id uint, in AssociateInput) (models.BusinessAssociate, error) {
	ba, err := s.GetAssociate(ctx, id)
	if err != nil {
		return models.BusinessAssociate{}, err
	}

	in.apply(&ba)
	if err := s.db.WithContext(ctx).Save(&ba).Error; err != nil {
		return models.BusinessAssociate{}, errors.Wrap(err, "update business associate")
	}
	return ba, nil
}

// AssessAssociate меняет только статус соответствия, даты проверки и заметки.
func (s *Store) AssessAssociate(ctx context.Context, id uint, a Assessment) (models.BusinessAssociate, error) {
	if a.ComplianceStatus == "" {
		return models.BusinessAssociate{}, errors.New("compliance status is required")
	}

	ba, err := s.GetAssociate(ctx, id)
	if err != nil {
		return models.BusinessAssociate{}, err
	}

	ba.ComplianceStatus = a.ComplianceStatus
	ba.LastAssessmentDate = a.AssessmentDate
	ba.NextAssessmentDate = a.NextAssessmentDate
	ba.AssessmentNotes = a.Notes

	if err := s.db.WithContext(ctx).Save(&ba).Error; err != nil {
		return models.BusinessAssociate{}, errors.Wrap(err, "assess business associate")
	}
	return ba, nil
}

func (s *Store) DeleteAssociate(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.BusinessAssociate{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete business associate")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "business associate")
	}
	return nil
}

type AssociateStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

func (s *Store) AssociateStats(ctx context.Context) (AssociateStats, error) {
	var st AssociateStats
	err := s.db.WithContext(ctx).Model(&models.BusinessAssociate{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN contract_status = ? THEN 1 ELSE 0 END), 0) AS active", models.ContractActive).
		Scan(&st).Error
	return st, errors.Wrap(err, "business associate stats")
}
