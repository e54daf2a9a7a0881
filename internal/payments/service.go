package payments

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/payloads"
)

// InvoiceNumber formats the invoice id for an order paid at the given time.
func InvoiceNumber(paidAt time.Time, orderID int64) string {
	return fmt.Sprintf("INV-%s-%06d", paidAt.UTC().Format("20060102"), orderID)
}

type Service interface {
	Process(ctx context.Context, customerID, orderID int64, method string) (*models.Payment, error)
	Success(ctx context.Context, customerID, orderID int64) (*orders.OrderDetail, error)
	Invoice(ctx context.Context, customerID, orderID int64) (*orders.OrderDetail, error)
}

type ServiceParams struct {
	DB      db.TxRunner
	Repo    *Repository
	Orders  orders.Repository
	Gateway Gateway
	Outbox  outbox.Emitter
	Logger  *logger.Logger
	Now     func() time.Time
}

type service struct {
	tx      db.TxRunner
	repo    *Repository
	orders  orders.Repository
	gateway Gateway
	outbox  outbox.Emitter
	logg    *logger.Logger
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("payment repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if params.Gateway == nil {
		params.Gateway = NewMockGateway()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		tx:      params.DB,
		repo:    params.Repo,
		orders:  params.Orders,
		gateway: params.Gateway,
		outbox:  params.Outbox,
		logg:    params.Logger,
		now:     params.Now,
	}, nil
}

// Process charges a placed order and confirms it. The payment row, the status
// change and the outbox event commit together.
func (s *service) Process(ctx context.Context, customerID, orderID int64, rawMethod string) (*models.Payment, error) {
	if rawMethod == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "please select a payment method")
	}
	method, err := enums.ParsePaymentMethod(rawMethod)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}
	order, err := s.ownedOrder(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPlaced {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
	}

	charge, err := s.gateway.Charge(ctx, ChargeRequest{OrderID: order.ID, Amount: order.Total, Method: method})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment gateway")
	}
	if !charge.Status.Settled() {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment was declined")
	}

	paidAt := s.now().UTC()
	payment := &models.Payment{
		OrderID:       order.ID,
		Amount:        order.Total,
		PaymentMethod: method,
		Status:        charge.Status,
		TransactionID: charge.TransactionID,
		InvoiceNumber: InvoiceNumber(paidAt, order.ID),
		PaymentDate:   &paidAt,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		moved, err := s.orders.WithTx(tx).UpdateStatus(ctx, order.ID, enums.OrderStatusPlaced, enums.OrderStatusConfirmed)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm order")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
		}
		if err := s.repo.WithTx(tx).Upsert(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save payment")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPaymentCompleted,
			AggregateType: enums.AggregatePayment,
			AggregateID:   payment.ID,
			Actor:         &outbox.ActorRef{UserID: customerID, Role: enums.RoleCustomer},
			Data: payloads.PaymentCompletedEvent{
				PaymentID:     payment.ID,
				OrderID:       order.ID,
				Amount:        payment.Amount,
				Method:        method,
				TransactionID: payment.TransactionID,
				InvoiceNumber: payment.InvoiceNumber,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id":       order.ID,
			"transaction_id": payment.TransactionID,
			"method":         string(method),
		})
		s.logg.Info(logCtx, "payment.completed")
	}
	return payment, nil
}

func (s *service) Success(ctx context.Context, customerID, orderID int64) (*orders.OrderDetail, error) {
	if _, err := s.ownedOrder(ctx, customerID, orderID); err != nil {
		return nil, err
	}
	return s.detail(ctx, orderID)
}

// Invoice returns the paid order; unpaid orders have no invoice.
func (s *service) Invoice(ctx context.Context, customerID, orderID int64) (*orders.OrderDetail, error) {
	if _, err := s.ownedOrder(ctx, customerID, orderID); err != nil {
		return nil, err
	}
	detail, err := s.detail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if detail.Payment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not available")
	}
	return detail, nil
}

func (s *service) ownedOrder(ctx context.Context, customerID, orderID int64) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil || order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) detail(ctx context.Context, orderID int64) (*orders.OrderDetail, error) {
	detail, err := s.orders.FindDetail(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if detail == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return detail, nil
}
