package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	userDomain "loanhub-backend/internal/domain/user"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return userDomain.ErrDuplicateName
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).First(&out, id)
	return &out, res.Error
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("username = ?", username).First(&out)
	return &out, res.Error
}

func (r *UserRepository) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&userDomain.User{}).
		Where("is_staff = ?", false).
		Count(&n)
	return n, res.Error
}

func (r *UserRepository) ListCustomers(ctx context.Context) ([]userDomain.User, error) {
	var out []userDomain.User
	res := r.db.WithContext(ctx).
		Where("is_staff = ?", false).
		Order("username ASC").
		Find(&out)
	return out, res.Error
}
