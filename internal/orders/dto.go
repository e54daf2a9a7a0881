package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

// Actor is the authenticated user acting on orders.
type Actor struct {
	UserID int64
	Role   enums.Role
}

// OrderSummary is an order row joined with its seller and customer.
type OrderSummary struct {
	ID            int64             `gorm:"column:id" json:"id"`
	OrderNumber   string            `gorm:"column:order_number" json:"order_number"`
	Status        enums.OrderStatus `gorm:"column:status" json:"status"`
	CustomerID    int64             `gorm:"column:customer_id" json:"customer_id"`
	CustomerEmail string            `gorm:"column:customer_email" json:"customer_email"`
	SellerID      int64             `gorm:"column:seller_id" json:"seller_id"`
	SellerName    string            `gorm:"column:seller_name" json:"seller_name"`
	Subtotal      decimal.Decimal   `gorm:"column:subtotal" json:"subtotal"`
	Tax           decimal.Decimal   `gorm:"column:tax" json:"tax"`
	ShippingCost  decimal.Decimal   `gorm:"column:shipping_cost" json:"shipping_cost"`
	Total         decimal.Decimal   `gorm:"column:total" json:"total"`
	CreatedAt     time.Time         `gorm:"column:created_at" json:"created_at"`
}

// OrderDetail is a summary plus its items, payment and shipping address.
type OrderDetail struct {
	OrderSummary
	ShippingAddressID *int64             `json:"shipping_address_id,omitempty"`
	Items             []models.OrderItem `json:"items"`
	Payment           *models.Payment    `json:"payment,omitempty"`
	ShippingAddress   *models.Address    `json:"shipping_address,omitempty"`
}

// OrderList is one page of summaries.
type OrderList struct {
	Orders []OrderSummary  `json:"orders"`
	Page   pagination.Page `json:"page"`
}

// ListFilters narrows order listings.
type ListFilters struct {
	Status *enums.OrderStatus
}
