package models

import "time"

// Cart is the single open basket of a customer.
type Cart struct {
	ID         int64      `gorm:"column:id;primaryKey"`
	CustomerID int64      `gorm:"column:customer_id;uniqueIndex;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	Items      []CartItem `gorm:"foreignKey:CartID"`
}

func (Cart) TableName() string { return "cart" }

// CartItem is unique per (cart, product); re-adding a product bumps its quantity.
type CartItem struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	CartID    int64     `gorm:"column:cart_id;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:idx_cart_items_cart_product"`
	Quantity  int       `gorm:"column:quantity;not null"`
	AddedAt   time.Time `gorm:"column:added_at;autoCreateTime"`
}

func (CartItem) TableName() string { return "cart_items" }
