package payloads

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// OrderPlacedEvent is emitted once per seller order created by a checkout.
type OrderPlacedEvent struct {
	OrderID     int64           `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  int64           `json:"customer_id"`
	SellerID    int64           `json:"seller_id"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
}

// OrderStatusChangedEvent is emitted when a seller or admin moves an order.
type OrderStatusChangedEvent struct {
	OrderID     int64             `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	From        enums.OrderStatus `json:"from"`
	To          enums.OrderStatus `json:"to"`
	ChangedBy   int64             `json:"changed_by"`
}

// PaymentCompletedEvent is emitted after a mock payment succeeds.
type PaymentCompletedEvent struct {
	PaymentID     int64               `json:"payment_id"`
	OrderID       int64               `json:"order_id"`
	Amount        decimal.Decimal     `json:"amount"`
	Method        enums.PaymentMethod `json:"method"`
	TransactionID string              `json:"transaction_id"`
	InvoiceNumber string              `json:"invoice_number"`
}
