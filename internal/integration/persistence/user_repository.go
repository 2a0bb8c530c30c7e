// Package persistence implements the application's storage ports with gorm.
package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/domain/entity"
	domainerror "github.com/authsecure/backend/internal/domain/error"
	"github.com/authsecure/backend/internal/integration/persistence/model"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates an adapter.UserRepository over the users table.
func NewUserRepository(db *gorm.DB) adapter.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	err := r.db.WithContext(ctx).Create(model.FromEntity(user)).Error
	if err != nil && isUniqueViolation(err) {
		return domainerror.ErrEmailAlreadyExists
	}
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email = ?", entity.NormalizeEmail(email))
}

func (r *userRepository) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var row model.UserModel
	err := r.db.WithContext(ctx).Where(query, arg).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerror.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.ToEntity(), nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("email = ?", entity.NormalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"updated_at":    at.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.RefreshTokenModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.PasswordResetTokenModel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.UserModel{}).Error
	})
}

// isUniqueViolation reports whether err is a unique constraint failure from
// Postgres or SQLite.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
