package store

import (
	"context"

	"hipaa-audit/internal/models"

	"github.com/cockroachdb/errors"
)

type PHIInput struct {
	Name               string
	Description        string
	Classification     string
	AccessPatterns     string
	DisposalProcedures string
}

func (in PHIInput) apply(p *models.PHIType) {
	p.Name = in.Name
	p.Description = in.Description
	p.Classification = in.Classification
	p.AccessPatterns = in.AccessPatterns
	p.DisposalProcedures = in.DisposalProcedures
}

func (s *Store) ListPHITypes(ctx context.Context) ([]models.PHIType, error) {
	var list []models.PHIType
	err := s.db.WithContext(ctx).Order("created_at desc, id desc").Find(&list).Error
	return list, errors.Wrap(err, "list phi types")
}

func (s *Store) CreatePHIType(ctx context.Context, in PHIInput) (models.PHIType, error) {
	var p models.PHIType
	in.apply(&p)
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return models.PHIType{}, errors.Wrap(err, "create phi type")
	}
	return p, nil
}

func (s *Store) UpdatePHIType(ctx context.Context, id uint, in PHIInput) (models.PHIType, error) {
	var p models.PHIType
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return models.PHIType{}, notFound(err, "phi type")
	}

	in.apply(&p)
	if err := s.db.WithContext(ctx).Save(&p).Error; err != nil {
		return models.PHIType{}, errors.Wrap(err, "update phi type")
	}
	return p, nil
}

func (s *Store) DeletePHIType(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.PHIType{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete phi type")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "phi type")
	}
	return nil
}

func (s *Store) CountPHITypes(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.PHIType{}).Count(&n).Error
	return n, errors.Wrap(err, "count phi types")
}
