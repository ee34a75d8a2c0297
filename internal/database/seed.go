package database

import (
	"context"

	"hipaa-audit/internal/compliance"
	"hipaa-audit/internal/models"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedRequirements добавляет недостающие пункты встроенного чек-листа.
// Существующие строки не трогает, поэтому повторный вызов ничего не дублирует.
func SeedRequirements(ctx context.Context, db *gorm.DB) (int64, error) {
	rows := make([]models.Requirement, 0, len(compliance.Catalog))
	for _, c := range compliance.Catalog {
		rows = append(rows, models.Requirement{
			RequirementID: c.ID,
			Title:         c.Title,
			Description:   c.Description,
			Category:      c.Category,
			Status:        compliance.StatusNotAssessed,
		})
	}

	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "requirement_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "seed requirements")
	}
	return res.RowsAffected, nil
}

// ResetRequirements удаляет все пункты чек-листа (вместе с оценками) и заполняет заново.
func ResetRequirements(ctx context.Context, db *gorm.DB) (int64, error) {
	var inserted int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&models.Requirement{}).Error; err != nil {
			return errors.Wrap(err, "clear requirements")
		}

		n, err := SeedRequirements(ctx, tx)
		inserted = n
		return err
	})
	return inserted, err
}

// EnsureAdmin создаёт учётную запись администратора, если её ещё нет.
func EnsureAdmin(ctx context.Context, db *gorm.DB, username, password, email string) (bool, error) {
	if username == "" || password == "" {
		return false, errors.New("admin username and password are required")
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "check admin user")
	}
	if count > 0 {
		return false, nil
	}

	if err := CreateUser(ctx, db, username, password, email); err != nil {
		return false, err
	}
	return true, nil
}

func CreateUser(ctx context.Context, db *gorm.DB, username, password, email string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return errors.Wrapf(err, "create user %s", username)
	}
	return nil
}
