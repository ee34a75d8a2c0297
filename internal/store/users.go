package store

import (
	"context"
	"strings"

	"hipaa-audit/internal/database"
	"hipaa-audit/internal/models"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("user already exists")
)

const minPasswordLen = 8

func (s *Store) GetUser(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return models.User{}, notFound(err, "user")
	}
	return u, nil
}

// Authenticate сверяет пароль с bcrypt-хешем. Неизвестный логин и неверный пароль
// неразличимы для вызывающего.
func (s *Store) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, errors.Wrap(err, "find user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, username, password, email string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("username is required")
	}
	if len(password) < minPasswordLen {
		return errors.Newf("password must be at least %d characters", minPasswordLen)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return errors.Wrap(err, "check user")
	}
	if count > 0 {
		return errors.Wrapf(ErrUserExists, "%q", username)
	}
	return database.CreateUser(ctx, s.db, username, password, strings.TrimSpace(email))
}
