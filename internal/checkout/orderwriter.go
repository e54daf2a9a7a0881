package checkout

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/checkout/helpers"
	"github.com/angelmondragon/marketplace-backend/internal/inventory"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
)

const orderNumberLength = 8

// OrderRequest is one seller group ready to be written.
type OrderRequest struct {
	CustomerID        int64
	ShippingAddressID int64
	Group             helpers.SellerGroup
	Totals            helpers.Totals
}

// OrderWriter persists one seller order with its items and decrements stock.
type OrderWriter interface {
	Write(ctx context.Context, tx *gorm.DB, req OrderRequest) (*models.Order, error)
}

type orderWriter struct {
	orders    orders.Repository
	inventory inventory.Repository
	prefix    string
	numbers   func(prefix string) (string, error)
}

// NewOrderWriter builds a writer issuing numbers as prefix-XXXXXXXX.
func NewOrderWriter(ordersRepo orders.Repository, inventoryRepo inventory.Repository, prefix string) OrderWriter {
	if prefix == "" {
		prefix = "ORD"
	}
	return &orderWriter{
		orders:    ordersRepo,
		inventory: inventoryRepo,
		prefix:    prefix,
		numbers:   func(p string) (string, error) { return security.PrefixedToken(p, orderNumberLength) },
	}
}

func (w *orderWriter) Write(ctx context.Context, tx *gorm.DB, req OrderRequest) (*models.Order, error) {
	number, err := w.numbers(w.prefix)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
	}

	addressID := req.ShippingAddressID
	order := &models.Order{
		OrderNumber:       number,
		CustomerID:        req.CustomerID,
		SellerID:          req.Group.SellerID,
		ShippingAddressID: &addressID,
		Status:            enums.OrderStatusPlaced,
		Subtotal:          req.Totals.Subtotal,
		Tax:               req.Totals.Tax,
		ShippingCost:      req.Totals.Shipping,
		Total:             req.Totals.Total,
	}
	ordersRepo := w.orders.WithTx(tx)
	if err := ordersRepo.CreateOrder(ctx, order); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number collision")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	items := make([]models.OrderItem, 0, len(req.Group.Lines))
	for _, line := range req.Group.Lines {
		items = append(items, models.OrderItem{
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			SKU:         line.SKU,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal(),
		})
	}
	if err := ordersRepo.CreateOrderItems(ctx, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
	}

	inventoryRepo := w.inventory.WithTx(tx)
	for _, line := range req.Group.Lines {
		if err := inventoryRepo.Decrement(ctx, line.ProductID, line.Quantity); err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeInsufficient) {
				return nil, pkgerrors.New(pkgerrors.CodeInsufficient, "insufficient stock for "+line.ProductName).
					WithDetails(pkgerrors.As(err).Details())
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement inventory")
		}
	}
	order.Items = items
	return order, nil
}
