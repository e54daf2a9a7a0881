package payments

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
)

type paymentsFixture struct {
	svc      Service
	conn     *gorm.DB
	fx       *dbtest.Fixtures
	customer models.User
	order    models.Order
}

func newPaymentsFixture(t *testing.T) *paymentsFixture {
	t.Helper()
	client, conn := dbtest.Client(t)
	fx := dbtest.NewFixtures(t, conn)
	fixed := time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)
	svc, err := NewService(ServiceParams{
		DB:     client,
		Repo:   NewRepository(conn),
		Orders: orders.NewRepository(conn),
		Outbox: outbox.NewService(outbox.NewRepository(conn), nil),
		Now:    func() time.Time { return fixed },
	})
	require.NoError(t, err)

	customer := fx.User("buyer@example.com", enums.RoleCustomer)
	seller := fx.Seller("Acme")
	addr := fx.Address(customer.ID, true)
	order := models.Order{
		OrderNumber:       "ORD-PAY00001",
		CustomerID:        customer.ID,
		SellerID:          seller.ID,
		ShippingAddressID: &addr.ID,
		Status:            enums.OrderStatusPlaced,
		Subtotal:          decimal.RequireFromString("25.00"),
		Tax:               decimal.RequireFromString("2.50"),
		ShippingCost:      decimal.RequireFromString("10.00"),
		Total:             decimal.RequireFromString("37.50"),
	}
	require.NoError(t, conn.Create(&order).Error)
	return &paymentsFixture{svc: svc, conn: conn, fx: fx, customer: customer, order: order}
}

func TestInvoiceNumberFormat(t *testing.T) {
	at := time.Date(2026, 1, 2, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV-20260102-000042", InvoiceNumber(at, 42))
}

func TestProcessConfirmsOrder(t *testing.T) {
	f := newPaymentsFixture(t)
	ctx := context.Background()

	payment, err := f.svc.Process(ctx, f.customer.ID, f.order.ID, "paypal")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusCompleted, payment.Status)
	assert.Regexp(t, `^TXN-[A-Z0-9]{12}$`, payment.TransactionID)
	assert.Equal(t, InvoiceNumber(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), f.order.ID), payment.InvoiceNumber)
	assert.Equal(t, "37.50", payment.Amount.StringFixed(2))

	var order models.Order
	require.NoError(t, f.conn.First(&order, f.order.ID).Error)
	assert.Equal(t, enums.OrderStatusConfirmed, order.Status)

	var events []models.OutboxEvent
	require.NoError(t, f.conn.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventPaymentCompleted, events[0].EventType)

	invoice, err := f.svc.Invoice(ctx, f.customer.ID, f.order.ID)
	require.NoError(t, err)
	require.NotNil(t, invoice.Payment)
	require.NotNil(t, invoice.ShippingAddress)
	assert.Equal(t, payment.TransactionID, invoice.Payment.TransactionID)

	_, err = f.svc.Process(ctx, f.customer.ID, f.order.ID, "paypal")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestProcessValidatesInput(t *testing.T) {
	f := newPaymentsFixture(t)
	ctx := context.Background()

	_, err := f.svc.Process(ctx, f.customer.ID, f.order.ID, "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = f.svc.Process(ctx, f.customer.ID, f.order.ID, "bitcoin")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	stranger := f.fx.User("stranger@example.com", enums.RoleCustomer)
	_, err = f.svc.Process(ctx, stranger.ID, f.order.ID, "paypal")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, int64(0), f.fx.Count(&models.Payment{}))
}

func TestInvoiceRequiresPayment(t *testing.T) {
	f := newPaymentsFixture(t)

	detail, err := f.svc.Success(context.Background(), f.customer.ID, f.order.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Payment)

	_, err = f.svc.Invoice(context.Background(), f.customer.ID, f.order.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
