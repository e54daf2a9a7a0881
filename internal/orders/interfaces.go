package orders

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and order items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	FindSummaryByNumber(ctx context.Context, customerID int64, orderNumber string) (*OrderSummary, error)
	FindDetail(ctx context.Context, id int64) (*OrderDetail, error)
	List(ctx context.Context, scope Scope, params pagination.Params, filters ListFilters) (*OrderList, error)
	UpdateStatus(ctx context.Context, id int64, from, to enums.OrderStatus) (bool, error)
	CountAndRevenue(ctx context.Context, scope Scope) (*Stats, error)
}

// Scope limits queries to one customer or one seller; the zero value sees all orders.
type Scope struct {
	CustomerID int64
	SellerID   int64
}

// Stats aggregates order counts for dashboards.
type Stats struct {
	Orders  int64           `json:"orders"`
	Pending int64           `json:"pending"`
	Revenue decimal.Decimal `json:"revenue"`
}

type sellerLookup interface {
	FindByUserID(ctx context.Context, userID int64) (*models.Seller, error)
}
