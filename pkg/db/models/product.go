package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry owned by exactly one seller.
type Product struct {
	ID          int64           `gorm:"column:id;primaryKey"`
	SellerID    int64           `gorm:"column:seller_id;index;not null"`
	CategoryID  *int64          `gorm:"column:category_id;index"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	ImageURL    *string         `gorm:"column:image_url"`
	SKU         string          `gorm:"column:sku"`
	IsActive    bool            `gorm:"column:is_active;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
