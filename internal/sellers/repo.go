package sellers

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

// Repository persists seller storefronts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, seller *models.Seller) error
	FindByID(ctx context.Context, id int64) (*models.Seller, error)
	FindByUserID(ctx context.Context, userID int64) (*models.Seller, error)
	List(ctx context.Context) ([]Listing, error)
	Count(ctx context.Context) (int64, error)
}

// Listing is a seller row joined with its account email.
type Listing struct {
	ID          int64  `gorm:"column:id" json:"id"`
	UserID      int64  `gorm:"column:user_id" json:"user_id"`
	StoreName   string `gorm:"column:store_name" json:"store_name"`
	Description string `gorm:"column:description" json:"description"`
	Email       string `gorm:"column:email" json:"email"`
	IsActive    bool   `gorm:"column:is_active" json:"is_active"`
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, seller *models.Seller) error {
	return r.db.WithContext(ctx).Create(seller).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Seller, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) FindByUserID(ctx context.Context, userID int64) (*models.Seller, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *repository) first(ctx context.Context, query string, arg any) (*models.Seller, error) {
	var seller models.Seller
	err := r.db.WithContext(ctx).Where(query, arg).First(&seller).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

func (r *repository) List(ctx context.Context) ([]Listing, error) {
	var rows []Listing
	err := r.db.WithContext(ctx).
		Table("sellers AS s").
		Select("s.id, s.user_id, s.store_name, s.description, u.email, u.is_active").
		Joins("JOIN users u ON u.id = s.user_id").
		Order("s.created_at DESC").
		Order("s.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Seller{}).Count(&n).Error
	return n, err
}
