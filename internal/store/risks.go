package store

import (
	"context"
	"strconv"

	"hipaa-audit/internal/compliance"
	"hipaa-audit/internal/models"

	"github.com/cockroachdb/errors"
)

type RiskInput struct {
	Title       string
	Description string
	Likelihood  int
	Impact      int
	Mitigation  string
	Owner       string
	Status      models.RiskStatus
}

func (in RiskInput) apply(r *models.Risk) {
	r.Title = in.Title
	r.Description = in.Description
	r.Likelihood = in.Likelihood
	r.Impact = in.Impact
	r.Mitigation = in.Mitigation
	r.Owner = in.Owner
	if in.Status != "" {
		r.Status = in.Status
	}
}

// CreateRisk сохраняет риск; risk_score вычисляется в models.Risk.BeforeSave.
func (s *Store) CreateRisk(ctx context.Context, in RiskInput, actor string) (models.Risk, error) {
	r := models.Risk{Status: models.RiskOpen, CreatedBy: actor}
	in.apply(&r)

	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return models.Risk{}, errors.Wrap(err, "create risk")
	}
	return r, nil
}

func (s *Store) GetRisk(ctx context.Context, id uint) (models.Risk, error) {
	var r models.Risk
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return models.Risk{}, notFound(err, "risk "+strconv.FormatUint(uint64(id), 10))
	}
	return r, nil
}

func (s *Store) UpdateRisk(ctx context.Context, id uint, in RiskInput) (models.Risk, error) {
	r, err := s.GetRisk(ctx, id)
	if err != nil {
		return models.Risk{}, err
	}

	in.apply(&r)
	if err := s.db.WithContext(ctx).Save(&r).Error; err != nil {
		return models.Risk{}, errors.Wrap(err, "update risk")
	}
	return r, nil
}

func (s *Store) DeleteRisk(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Risk{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete risk")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "risk")
	}
	return nil
}

// ListRisks — по убыванию оценки, при равенстве новые выше.
func (s *Store) ListRisks(ctx context.Context) ([]models.Risk, error) {
	var risks []models.Risk
	err := s.db.WithContext(ctx).
		Order("risk_score desc, created_at desc, id desc").
		Find(&risks).Error
	return risks, errors.Wrap(err, "list risks")
}

func (s *Store) RiskBands(ctx context.Context) (compliance.RiskBands, error) {
	var b compliance.RiskBands
	err := s.db.WithContext(ctx).Model(&models.Risk{}).
		Select(`COALESCE(SUM(CASE WHEN risk_score >= 15 THEN 1 ELSE 0 END), 0) AS high,
			COALESCE(SUM(CASE WHEN risk_score >= 8 AND risk_score < 15 THEN 1 ELSE 0 END), 0) AS medium,
			COALESCE(SUM(CASE WHEN risk_score < 8 THEN 1 ELSE 0 END), 0) AS low`).
		Scan(&b).Error
	return b, errors.Wrap(err, "risk bands")
}
