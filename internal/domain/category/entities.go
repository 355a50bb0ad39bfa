package category

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("category not found")

type Category struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex:ux_categories_name" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Category) TableName() string { return "loan_categories" }
