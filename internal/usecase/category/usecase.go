package category

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"loanhub-backend/internal/domain/category"
)

type Usecase struct{ repo category.Repository }

func NewUsecase(r category.Repository) *Usecase { return &Usecase{repo: r} }

type CategoryDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (u *Usecase) Create(ctx context.Context, name, description string) (*CategoryDTO, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	c := &category.Category{Name: name, Description: description}
	if err := u.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return &CategoryDTO{ID: c.ID, Name: c.Name, Description: c.Description}, nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*CategoryDTO, error) {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrNotFound
		}
		return nil, err
	}
	return &CategoryDTO{ID: c.ID, Name: c.Name, Description: c.Description}, nil
}

func (u *Usecase) List(ctx context.Context) ([]CategoryDTO, error) {
	cats, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryDTO{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	return out, nil
}

func (u *Usecase) Update(ctx context.Context, id uint64, name, description string) error {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return category.ErrNotFound
		}
		return err
	}
	if name != "" {
		c.Name = name
	}
	if description != "" {
		c.Description = description
	}
	return u.repo.Save(ctx, c)
}

func (u *Usecase) Delete(ctx context.Context, id uint64) error {
	if _, err := u.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return category.ErrNotFound
		}
		return err
	}
	return u.repo.Delete(ctx, id)
}
