package checkout

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/checkout/helpers"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/payloads"
)

type database interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type addressBook interface {
	List(ctx context.Context, userID int64) ([]models.Address, error)
	FindOwned(ctx context.Context, userID, addressID int64) (*models.Address, error)
}

type orderLookup interface {
	FindSummaryByNumber(ctx context.Context, customerID int64, orderNumber string) (*orders.OrderSummary, error)
}

// Service executes checkout orchestration.
type Service interface {
	Review(ctx context.Context, customerID int64) (*Review, error)
	PlaceOrder(ctx context.Context, customerID, shippingAddressID int64) (*PlacementResult, error)
	Confirmation(ctx context.Context, customerID int64, orderNumbers []string) ([]orders.OrderSummary, error)
}

type ServiceParams struct {
	DB        database
	Addresses addressBook
	Orders    orderLookup
	Reader    CartReader
	Writer    OrderWriter
	Clearer   CartClearer
	Outbox    outbox.Emitter
	Rates     config.CheckoutRates
	Metrics   *metrics.CheckoutMetrics
	Logger    *logger.Logger
}

type service struct {
	db        database
	addresses addressBook
	orders    orderLookup
	reader    CartReader
	writer    OrderWriter
	clearer   CartClearer
	outbox    outbox.Emitter
	rates     config.CheckoutRates
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database required")
	}
	if params.Addresses == nil {
		return nil, fmt.Errorf("address book required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order lookup required")
	}
	if params.Writer == nil {
		return nil, fmt.Errorf("order writer required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if params.Reader == nil {
		params.Reader = NewCartReader()
	}
	if params.Clearer == nil {
		params.Clearer = NewCartClearer()
	}
	return &service{
		db:        params.DB,
		addresses: params.Addresses,
		orders:    params.Orders,
		reader:    params.Reader,
		writer:    params.Writer,
		clearer:   params.Clearer,
		outbox:    params.Outbox,
		rates:     params.Rates,
		metrics:   params.Metrics,
		logg:      params.Logger,
	}, nil
}

func (s *service) Review(ctx context.Context, customerID int64) (*Review, error) {
	cartID, lines, err := s.reader.LoadCheckoutLines(ctx, s.db.DB(), customerID)
	if err != nil {
		return nil, err
	}
	addresses, err := s.addresses.List(ctx, customerID)
	if err != nil {
		return nil, err
	}

	review := &Review{CartID: cartID, Lines: lines, Addresses: addresses}
	for i, group := range helpers.PartitionBySeller(lines) {
		totals := helpers.PriceLines(group.Lines, s.rates)
		review.Groups = append(review.Groups, GroupReview{SellerGroup: group, Totals: totals})
		if i == 0 {
			review.Totals = totals
		} else {
			review.Totals = review.Totals.Add(totals)
		}
	}
	return review, nil
}

// PlaceOrder turns the cart into one order per seller. Cart read, order writes,
// stock decrements, outbox events and the cart clear share one transaction.
func (s *service) PlaceOrder(ctx context.Context, customerID, shippingAddressID int64) (*PlacementResult, error) {
	start := time.Now()
	result, err := s.placeOrder(ctx, customerID, shippingAddressID)
	s.metrics.ObservePlacement(placementLabel(err), time.Since(start))
	if err != nil {
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"customer_id": customerID,
				"code":        string(codeOf(err)),
			})
			s.logg.Warn(logCtx, "checkout.failed")
		}
		return nil, err
	}
	s.metrics.AddOrders(len(result.Orders))
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"customer_id":   customerID,
			"order_numbers": result.OrderNumbers,
			"total":         result.Totals.Total.StringFixed(2),
		})
		s.logg.Info(logCtx, "checkout.placed")
	}
	return result, nil
}

func (s *service) placeOrder(ctx context.Context, customerID, shippingAddressID int64) (*PlacementResult, error) {
	if _, err := s.addresses.FindOwned(ctx, customerID, shippingAddressID); err != nil {
		return nil, err
	}

	var result *PlacementResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		cartID, lines, err := s.reader.LoadCheckoutLines(ctx, tx, customerID)
		if err != nil {
			return err
		}

		placed := &PlacementResult{}
		for i, group := range helpers.PartitionBySeller(lines) {
			totals := helpers.PriceLines(group.Lines, s.rates)
			order, err := s.writer.Write(ctx, tx, OrderRequest{
				CustomerID:        customerID,
				ShippingAddressID: shippingAddressID,
				Group:             group,
				Totals:            totals,
			})
			if err != nil {
				return err
			}
			if err := s.emitOrderPlaced(ctx, tx, customerID, order); err != nil {
				return err
			}
			placed.OrderNumbers = append(placed.OrderNumbers, order.OrderNumber)
			placed.Orders = append(placed.Orders, *order)
			if i == 0 {
				placed.Totals = totals
			} else {
				placed.Totals = placed.Totals.Add(totals)
			}
		}

		if err := s.clearer.Clear(ctx, tx, cartID); err != nil {
			return err
		}
		result = placed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) emitOrderPlaced(ctx context.Context, tx *gorm.DB, customerID int64, order *models.Order) error {
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderPlaced,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         &outbox.ActorRef{UserID: customerID, Role: enums.RoleCustomer},
		Data: payloads.OrderPlacedEvent{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			CustomerID:  customerID,
			SellerID:    order.SellerID,
			Total:       order.Total,
			ItemCount:   len(order.Items),
		},
	})
}

// Confirmation returns the customer's orders among orderNumbers; unknown or
// foreign numbers are skipped.
func (s *service) Confirmation(ctx context.Context, customerID int64, orderNumbers []string) ([]orders.OrderSummary, error) {
	out := make([]orders.OrderSummary, 0, len(orderNumbers))
	for _, number := range orderNumbers {
		summary, err := s.orders.FindSummaryByNumber(ctx, customerID, number)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if summary == nil {
			continue
		}
		out = append(out, *summary)
	}
	return out, nil
}

func codeOf(err error) pkgerrors.Code {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Code()
	}
	return pkgerrors.CodeInternal
}

func placementLabel(err error) string {
	if err == nil {
		return "success"
	}
	switch codeOf(err) {
	case pkgerrors.CodeEmptyCart:
		return "empty_cart"
	case pkgerrors.CodeInsufficient:
		return "insufficient_stock"
	case pkgerrors.CodeValidation:
		return "invalid_address"
	default:
		return "error"
	}
}
