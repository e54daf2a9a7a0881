package inventory

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

// Repository persists stock levels.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByProduct(ctx context.Context, productID int64) (*models.Inventory, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]StockRow, error)
	Upsert(ctx context.Context, productID int64, quantity, threshold int) error
	Decrement(ctx context.Context, productID int64, qty int) error
}

// StockRow is a seller-facing stock line.
type StockRow struct {
	ProductID         int64  `gorm:"column:product_id" json:"product_id"`
	ProductName       string `gorm:"column:product_name" json:"product_name"`
	SKU               string `gorm:"column:sku" json:"sku"`
	Quantity          *int   `gorm:"column:quantity" json:"quantity"`
	LowStockThreshold *int   `gorm:"column:low_stock_threshold" json:"low_stock_threshold"`
}

// Low reports whether tracked stock is at or under its threshold.
func (r StockRow) Low() bool {
	return r.Quantity != nil && r.LowStockThreshold != nil && *r.Quantity <= *r.LowStockThreshold
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

func (r *repository) FindByProduct(ctx context.Context, productID int64) (*models.Inventory, error) {
	var inv models.Inventory
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) ListBySeller(ctx context.Context, sellerID int64) ([]StockRow, error) {
	var rows []StockRow
	err := r.db.WithContext(ctx).
		Table("products AS p").
		Select("p.id AS product_id, p.name AS product_name, p.sku, i.quantity, i.low_stock_threshold").
		Joins("LEFT JOIN inventory i ON i.product_id = p.id").
		Where("p.seller_id = ?", sellerID).
		Order("p.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) Upsert(ctx context.Context, productID int64, quantity, threshold int) error {
	row := models.Inventory{ProductID: productID, Quantity: quantity, LowStockThreshold: threshold}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "low_stock_threshold", "updated_at"}),
	}).Create(&row).Error
}

// Decrement removes qty units only when enough stock remains. Products without an
// inventory row are untracked and always succeed.
func (r *repository) Decrement(ctx context.Context, productID int64, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("product_id = ? AND quantity >= ?", productID, qty).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	inv, err := r.FindByProduct(ctx, productID)
	if err != nil {
		return err
	}
	if inv == nil {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeInsufficient, "insufficient stock").WithDetails(map[string]any{
		"product_id": productID,
		"requested":  qty,
		"available":  inv.Quantity,
	})
}
