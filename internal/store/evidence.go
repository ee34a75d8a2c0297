package store

import (
	"context"

	"hipaa-audit/internal/models"

	"github.com/cockroachdb/errors"
)

// CreateEvidence проверяет, что требование существует, и сохраняет запись.
func (s *Store) CreateEvidence(ctx context.Context, ev *models.Evidence) error {
	ok, err := s.RequirementExists(ctx, ev.RequirementID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrUnknownRequirement, "%q", ev.RequirementID)
	}
	return errors.Wrap(s.db.WithContext(ctx).Create(ev).Error, "create evidence")
}

// ListEvidence — все доказательства с названием требования, новые сверху.
// LEFT JOIN: запись без требования всё равно попадает в список.
func (s *Store) ListEvidence(ctx context.Context) ([]models.Evidence, error) {
	var list []models.Evidence
	err := s.db.WithContext(ctx).
		Table("evidence").
		Select("evidence.*, hipaa_requirements.title AS requirement_title").
		Joins("LEFT JOIN hipaa_requirements ON hipaa_requirements.requirement_id = evidence.requirement_id").
		Order("evidence.uploaded_at desc, evidence.id desc").
		Scan(&list).Error
	return list, errors.Wrap(err, "list evidence")
}

func (s *Store) GetEvidence(ctx context.Context, id uint) (models.Evidence, error) {
	var ev models.Evidence
	if err := s.db.WithContext(ctx).First(&ev, id).Error; err != nil {
		return models.Evidence{}, notFound(err, "evidence")
	}
	return ev, nil
}

func (s *Store) DeleteEvidence(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Evidence{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete evidence")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "evidence")
	}
	return nil
}

type EvidenceStats struct {
	Total     int64 `json:"total"`
	TotalSize int64 `json:"total_size"`
}

func (s *Store) EvidenceStats(ctx context.Context) (EvidenceStats, error) {
	var st EvidenceStats
	err := s.db.WithContext(ctx).Model(&models.Evidence{}).
		Select("COUNT(*) AS total, COALESCE(SUM(file_size), 0) AS total_size").
		Scan(&st).Error
	return st, errors.Wrap(err, "evidence stats")
}
