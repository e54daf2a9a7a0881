package categories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

// Listing is a category with its parent name resolved.
type Listing struct {
	ID         int64   `gorm:"column:id" json:"id"`
	Name       string  `gorm:"column:name" json:"name"`
	ParentID   *int64  `gorm:"column:parent_id" json:"parent_id,omitempty"`
	ParentName *string `gorm:"column:parent_name" json:"parent_name,omitempty"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) List(ctx context.Context) ([]Listing, error) {
	rows := make([]Listing, 0)
	err := r.db.WithContext(ctx).
		Table("categories AS c").
		Select("c.id, c.name, c.parent_id, p.name AS parent_name").
		Joins("LEFT JOIN categories p ON p.id = c.parent_id").
		Order("c.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&n).Error
	return n, err
}
