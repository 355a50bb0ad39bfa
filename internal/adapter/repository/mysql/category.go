package mysql

import (
	"context"

	"gorm.io/gorm"

	categoryDomain "loanhub-backend/internal/domain/category"
)

type CategoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) *CategoryRepository { return &CategoryRepository{db: db} }

func (r *CategoryRepository) Create(ctx context.Context, c *categoryDomain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint64) (*categoryDomain.Category, error) {
	var out categoryDomain.Category
	res := r.db.WithContext(ctx).First(&out, id)
	return &out, res.Error
}

func (r *CategoryRepository) List(ctx context.Context) ([]categoryDomain.Category, error) {
	var out []categoryDomain.Category
	res := r.db.WithContext(ctx).Order("name ASC").Find(&out)
	return out, res.Error
}

func (r *CategoryRepository) Save(ctx context.Context, c *categoryDomain.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&categoryDomain.Category{}, id).Error
}
