package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// Payment records the (mock) gateway result for an order. One row per order.
type Payment struct {
	ID            int64               `gorm:"column:id;primaryKey"`
	OrderID       int64               `gorm:"column:order_id;uniqueIndex;not null"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null"`
	Status        enums.PaymentStatus `gorm:"column:status;not null"`
	TransactionID string              `gorm:"column:transaction_id"`
	InvoiceNumber string              `gorm:"column:invoice_number"`
	PaymentDate   *time.Time          `gorm:"column:payment_date"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Payment) TableName() string { return "payments" }
