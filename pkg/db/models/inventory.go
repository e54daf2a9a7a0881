package models

import "time"

// Inventory tracks available stock for a product. Products without a row are untracked.
type Inventory struct {
	ID                int64     `gorm:"column:id;primaryKey"`
	ProductID         int64     `gorm:"column:product_id;uniqueIndex;not null"`
	Quantity          int       `gorm:"column:quantity;not null"`
	LowStockThreshold int       `gorm:"column:low_stock_threshold;not null"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Inventory) TableName() string { return "inventory" }
