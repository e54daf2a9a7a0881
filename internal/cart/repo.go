package cart

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/marketplace-backend/internal/checkout/helpers"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

// Repository exposes persistence operations for the customer basket.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetOrCreate(ctx context.Context, customerID int64) (*models.Cart, error)
	FindItem(ctx context.Context, cartID, productID int64) (*models.CartItem, error)
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, cartID, productID int64) (bool, error)
	Lines(ctx context.Context, cartID int64) ([]helpers.Line, error)
	CountItems(ctx context.Context, customerID int64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// GetOrCreate returns the customer's cart, inserting it if missing. The unique
// index on customer_id keeps concurrent callers on a single row.
func (r *repository) GetOrCreate(ctx context.Context, customerID int64) (*models.Cart, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "customer_id"}}, DoNothing: true}).
		Create(&models.Cart{CustomerID: customerID}).Error
	if err != nil {
		return nil, err
	}
	var cart models.Cart
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repository) FindItem(ctx context.Context, cartID, productID int64) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) DeleteItem(ctx context.Context, cartID, productID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{})
	return res.RowsAffected > 0, res.Error
}

const lineColumns = "ci.id AS cart_item_id, ci.product_id, ci.quantity, p.name AS product_name, " +
	"p.sku, p.price AS unit_price, p.seller_id, s.store_name AS seller_name"

// Lines returns the cart's items joined with product and seller, in insertion order.
func (r *repository) Lines(ctx context.Context, cartID int64) ([]helpers.Line, error) {
	lines := make([]helpers.Line, 0)
	err := r.db.WithContext(ctx).
		Table("cart_items AS ci").
		Select(lineColumns).
		Joins("JOIN products p ON p.id = ci.product_id").
		Joins("JOIN sellers s ON s.id = p.seller_id").
		Where("ci.cart_id = ?", cartID).
		Order("ci.id ASC").
		Scan(&lines).Error
	return lines, err
}

// CountItems sums line quantities for the header badge.
func (r *repository) CountItems(ctx context.Context, customerID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Table("cart_items AS ci").
		Select("COALESCE(SUM(ci.quantity), 0)").
		Joins("JOIN cart c ON c.id = ci.cart_id").
		Where("c.customer_id = ?", customerID).
		Scan(&total).Error
	return total, err
}
