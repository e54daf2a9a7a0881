package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// Order is created per (customer, seller) at checkout. Money fields are fixed at
// creation time and never re-derived from its items.
type Order struct {
	ID                int64             `gorm:"column:id;primaryKey"`
	OrderNumber       string            `gorm:"column:order_number;uniqueIndex;not null"`
	CustomerID        int64             `gorm:"column:customer_id;index;not null"`
	SellerID          int64             `gorm:"column:seller_id;index;not null"`
	ShippingAddressID *int64            `gorm:"column:shipping_address_id"`
	Status            enums.OrderStatus `gorm:"column:status;not null"`
	Subtotal          decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Tax               decimal.Decimal   `gorm:"column:tax;type:numeric(12,2);not null"`
	ShippingCost      decimal.Decimal   `gorm:"column:shipping_cost;type:numeric(12,2);not null"`
	Total             decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
	Items             []OrderItem       `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots a cart line at order time.
type OrderItem struct {
	ID          int64           `gorm:"column:id;primaryKey"`
	OrderID     int64           `gorm:"column:order_id;index;not null"`
	ProductID   int64           `gorm:"column:product_id;not null"`
	ProductName string          `gorm:"column:product_name;not null"`
	SKU         string          `gorm:"column:sku"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string { return "order_items" }
