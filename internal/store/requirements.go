package store

import (
	"context"
	"time"

	"hipaa-audit/internal/compliance"
	"hipaa-audit/internal/database"
	"hipaa-audit/internal/models"

	"github.com/cockroachdb/errors"
)

// RequirementGroup — требования одной категории в порядке requirement_id.
type RequirementGroup struct {
	Category     string
	Requirements []models.Requirement
}

func (s *Store) ListRequirements(ctx context.Context) ([]models.Requirement, error) {
	var reqs []models.Requirement
	err := s.db.WithContext(ctx).
		Order("category asc, requirement_id asc").
		Find(&reqs).Error
	return reqs, errors.Wrap(err, "list requirements")
}

// GroupByCategory сохраняет порядок, в котором категории встречаются во входном срезе.
func GroupByCategory(reqs []models.Requirement) []RequirementGroup {
	var groups []RequirementGroup
	index := map[string]int{}
	for _, r := range reqs {
		i, ok := index[r.Category]
		if !ok {
			i = len(groups)
			index[r.Category] = i
			groups = append(groups, RequirementGroup{Category: r.Category})
		}
		groups[i].Requirements = append(groups[i].Requirements, r)
	}
	return groups
}

func (s *Store) GetRequirement(ctx context.Context, requirementID string) (models.Requirement, error) {
	var req models.Requirement
	err := s.db.WithContext(ctx).
		Where("requirement_id = ?", requirementID).
		First(&req).Error
	if err != nil {
		return models.Requirement{}, notFound(err, "requirement "+requirementID)
	}
	return req, nil
}

func (s *Store) RequirementExists(ctx context.Context, requirementID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Requirement{}).
		Where("requirement_id = ?", requirementID).
		Count(&count).Error
	return count > 0, errors.Wrap(err, "check requirement")
}

type StatusUpdate struct {
	RequirementID string
	Status        compliance.Status
	Notes         string
	Actor         string
}

// UpdateRequirementStatus выставляет статус и заметки и отмечает, кто и когда оценивал.
func (s *Store) UpdateRequirementStatus(ctx context.Context, u StatusUpdate, now time.Time) error {
	if !u.Status.Valid() {
		return errors.Wrapf(compliance.ErrInvalidStatus, "%q", u.Status)
	}

	res := s.db.WithContext(ctx).Model(&models.Requirement{}).
		Where("requirement_id = ?", u.RequirementID).
		Updates(map[string]interface{}{
			"status":      u.Status,
			"notes":       u.Notes,
			"assessed_by": u.Actor,
			"assessed_at": now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update requirement %s", u.RequirementID)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "requirement %s", u.RequirementID)
	}
	return nil
}

// RecentAssessments — последние оценённые требования, новые сверху.
func (s *Store) RecentAssessments(ctx context.Context, limit int) ([]models.Requirement, error) {
	var reqs []models.Requirement
	err := s.db.WithContext(ctx).
		Where("assessed_at IS NOT NULL").
		Order("assessed_at desc").
		Limit(limit).
		Find(&reqs).Error
	return reqs, errors.Wrap(err, "recent assessments")
}

func (s *Store) ComplianceStats(ctx context.Context) (compliance.Stats, error) {
	var rows []struct {
		Status compliance.Status
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Requirement{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return compliance.Stats{}, errors.Wrap(err, "compliance stats")
	}

	var st compliance.Stats
	for _, r := range rows {
		st.Total += r.Count
		switch r.Status {
		case compliance.StatusCompliant:
			st.Compliant += r.Count
		case compliance.StatusNotCompliant:
			st.NonCompliant += r.Count
		case compliance.StatusNotApplicable:
			st.NotApplicable += r.Count
		case compliance.StatusNotAssessed:
			st.NotAssessed += r.Count
		}
	}
	return st, nil
}

func (s *Store) SeedRequirements(ctx context.Context) (int64, error) {
	return database.SeedRequirements(ctx, s.db)
}

func (s *Store) ResetRequirements(ctx context.Context) (int64, error) {
	return database.ResetRequirements(ctx, s.db)
}

// SampleRequirements — первые строки таблицы для отладочной страницы.
func (s *Store) SampleRequirements(ctx context.Context, limit int) ([]models.Requirement, error) {
	var reqs []models.Requirement
	err := s.db.WithContext(ctx).Order("id asc").Limit(limit).Find(&reqs).Error
	return reqs, errors.Wrap(err, "sample requirements")
}
