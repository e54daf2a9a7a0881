package checkout

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/address"
	"github.com/angelmondragon/marketplace-backend/internal/inventory"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
)

var testRates = config.CheckoutRates{
	TaxRate:      decimal.RequireFromString("0.10"),
	ShippingFlat: decimal.RequireFromString("10.00"),
}

type checkoutFixture struct {
	svc      Service
	conn     *gorm.DB
	fx       *dbtest.Fixtures
	reg      *prometheus.Registry
	customer models.User
	address  models.Address
}

func newCheckoutFixture(t *testing.T, opts ...func(*orderWriter)) *checkoutFixture {
	t.Helper()
	client, conn := dbtest.Client(t)
	fx := dbtest.NewFixtures(t, conn)
	reg := prometheus.NewRegistry()
	ordersRepo := orders.NewRepository(conn)
	writer := NewOrderWriter(ordersRepo, inventory.NewRepository(conn), "ORD").(*orderWriter)
	for _, opt := range opts {
		opt(writer)
	}

	svc, err := NewService(ServiceParams{
		DB:        client,
		Addresses: address.NewService(client, address.NewRepository(conn)),
		Orders:    ordersRepo,
		Writer:    writer,
		Outbox:    outbox.NewService(outbox.NewRepository(conn), nil),
		Rates:     testRates,
		Metrics:   metrics.NewCheckoutMetrics(reg),
	})
	require.NoError(t, err)

	customer := fx.User("buyer@example.com", enums.RoleCustomer)
	return &checkoutFixture{
		svc:      svc,
		conn:     conn,
		fx:       fx,
		reg:      reg,
		customer: customer,
		address:  fx.Address(customer.ID, true),
	}
}

func (f *checkoutFixture) placementCount(t *testing.T, result string) float64 {
	t.Helper()
	families, err := f.reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "checkout_placements_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "result" && label.GetValue() == result {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestPlaceOrderSingleSeller(t *testing.T) {
	f := newCheckoutFixture(t)
	seller := f.fx.Seller("Acme")
	product := f.fx.Product(seller.ID, "Widget", "12.50", 10)
	f.fx.CartItem(f.customer.ID, product.ID, 2)

	result, err := f.svc.PlaceOrder(context.Background(), f.customer.ID, f.address.ID)
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)

	order := result.Orders[0]
	assert.Regexp(t, `^ORD-[A-Z0-9]{8}$`, order.OrderNumber)
	assert.Equal(t, []string{order.OrderNumber}, result.OrderNumbers)
	assert.Equal(t, enums.OrderStatusPlaced, order.Status)
	assert.Equal(t, "25.00", order.Subtotal.StringFixed(2))
	assert.Equal(t, "2.50", order.Tax.StringFixed(2))
	assert.Equal(t, "10.00", order.ShippingCost.StringFixed(2))
	assert.Equal(t, "37.50", order.Total.StringFixed(2))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Widget", order.Items[0].ProductName)
	assert.Equal(t, "25.00", order.Items[0].Subtotal.StringFixed(2))

	assert.Equal(t, 8, f.fx.Stock(product.ID))
	assert.Equal(t, int64(0), f.fx.Count(&models.CartItem{}))
	assert.Equal(t, int64(1), f.fx.Count(&models.OrderItem{}))

	var events []models.OutboxEvent
	require.NoError(t, f.conn.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventOrderPlaced, events[0].EventType)
	assert.Equal(t, order.ID, events[0].AggregateID)

	assert.Equal(t, float64(1), f.placementCount(t, "success"))
}

func TestPlaceOrderSingleSellerMultipleProducts(t *testing.T) {
	f := newCheckoutFixture(t)
	seller := f.fx.Seller("Acme")
	widget := f.fx.Product(seller.ID, "Widget", "10.00", 10)
	gadget := f.fx.Product(seller.ID, "Gadget", "5.00", 4)
	f.fx.CartItem(f.customer.ID, widget.ID, 2)
	f.fx.CartItem(f.customer.ID, gadget.ID, 1)

	result, err := f.svc.PlaceOrder(context.Background(), f.customer.ID, f.address.ID)
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)

	order := result.Orders[0]
	assert.Equal(t, seller.ID, order.SellerID)
	assert.Equal(t, "25.00", order.Subtotal.StringFixed(2))
	assert.Equal(t, "2.50", order.Tax.StringFixed(2))
	assert.Equal(t, "10.00", order.ShippingCost.StringFixed(2))
	assert.Equal(t, "37.50", order.Total.StringFixed(2))
	require.Len(t, order.Items, 2)

	var items []models.OrderItem
	require.NoError(t, f.conn.Where("order_id = ?", order.ID).Order("id").Find(&items).Error)
	require.Len(t, items, 2)
	assert.Equal(t, widget.ID, items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "20.00", items[0].Subtotal.StringFixed(2))
	assert.Equal(t, gadget.ID, items[1].ProductID)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, "5.00", items[1].Subtotal.StringFixed(2))

	assert.Equal(t, 8, f.fx.Stock(widget.ID))
	assert.Equal(t, 3, f.fx.Stock(gadget.ID))
	assert.Equal(t, int64(0), f.fx.Count(&models.CartItem{}))
	assert.Equal(t, int64(1), f.fx.Count(&models.OutboxEvent{}))
}

func TestPlaceOrderSplitsBySeller(t *testing.T) {
	f := newCheckoutFixture(t)
	first := f.fx.Seller("First Shop")
	second := f.fx.Seller("Second Shop")
	mug := f.fx.Product(first.ID, "Mug", "10.00", 5)
	lamp := f.fx.Product(second.ID, "Lamp", "15.00", 5)
	f.fx.CartItem(f.customer.ID, mug.ID, 2)
	f.fx.CartItem(f.customer.ID, lamp.ID, 1)

	result, err := f.svc.PlaceOrder(context.Background(), f.customer.ID, f.address.ID)
	require.NoError(t, err)
	require.Len(t, result.Orders, 2)

	assert.Equal(t, first.ID, result.Orders[0].SellerID)
	assert.Equal(t, "32.00", result.Orders[0].Total.StringFixed(2))
	assert.Equal(t, second.ID, result.Orders[1].SellerID)
	assert.Equal(t, "26.50", result.Orders[1].Total.StringFixed(2))
	assert.NotEqual(t, result.OrderNumbers[0], result.OrderNumbers[1])
	assert.Equal(t, "58.50", result.Totals.Total.StringFixed(2))

	assert.Equal(t, 3, f.fx.Stock(mug.ID))
	assert.Equal(t, 4, f.fx.Stock(lamp.ID))
	assert.Equal(t, int64(2), f.fx.Count(&models.OutboxEvent{}))
}

func TestPlaceOrderUntrackedStock(t *testing.T) {
	f := newCheckoutFixture(t)
	seller := f.fx.Seller("Acme")
	product := f.fx.Product(seller.ID, "Ebook", "5.00", -1)
	f.fx.CartItem(f.customer.ID, product.ID, 3)

	result, err := f.svc.PlaceOrder(context.Background(), f.customer.ID, f.address.ID)
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, "26.50", result.Orders[0].Total.StringFixed(2))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), f.customer.ID, f.address.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeEmptyCart))
	assert.Equal(t, int64(0), f.fx.Count(&models.Order{}))
	assert.Equal(t, float64(1), f.placementCount(t, "empty_cart"))
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	f := newCheckoutFixture(t)
	first := f.fx.Seller("First Shop")
	second := f.fx.Seller("Second Shop")
	mug := f.fx.Product(first.ID, "Mug", "10.00", 5)
	lamp := f.fx.Product(second.ID, "Lamp", "15.00", 1)
	f.fx.CartItem(f.customer.ID, mug.ID, 2)
	f.fx.CartItem(f.customer.ID, lamp.ID, 2)

	_, err := f.svc.PlaceOrder(context.Background(), f.customer.ID, f.address.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficient))
	assert.Contains(t, pkgerrors.PublicMessage(err), "Lamp")

	assert.Equal(t, int64(0), f.fx.Count(&models.Order{}))
	assert.Equal(t, int64(0), f.fx.Count(&models.OrderItem{}))
	assert.Equal(t, int64(0), f.fx.Count(&models.OutboxEvent{}))
	assert.Equal(t, int64(2), f.fx.Count(&models.CartItem{}))
	assert.Equal(t, 5, f.fx.Stock(mug.ID))
	assert.Equal(t, 1, f.fx.Stock(lamp.ID))
	assert.Equal(t, float64(1), f.placementCount(t, "insufficient_stock"))
}

func TestPlaceOrderNumberCollisionRollsBack(t *testing.T) {
	f := newCheckoutFixture(t, func(w *orderWriter) {
		w.numbers = func(string) (string, error) { return "ORD-FIXED001", nil }
	})
	first := f.fx.Seller("First Shop")
	second := f.fx.Seller("Second Shop")
	mug := f.fx.Product(first.ID, "Mug", "10.00", 5)
	lamp := f.fx.Product(second.ID, "Lamp", "15.00", 5)
	f.fx.CartItem(f.customer.ID, mug.ID, 2)
	f.fx.CartItem(f.customer.ID, lamp.ID, 1)

	_, err := f.svc.PlaceOrder(context.Background(), f.customer.ID, f.address.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	assert.Equal(t, int64(0), f.fx.Count(&models.Order{}))
	assert.Equal(t, int64(0), f.fx.Count(&models.OrderItem{}))
	assert.Equal(t, int64(0), f.fx.Count(&models.OutboxEvent{}))
	assert.Equal(t, int64(2), f.fx.Count(&models.CartItem{}))
	assert.Equal(t, 5, f.fx.Stock(mug.ID))
	assert.Equal(t, 5, f.fx.Stock(lamp.ID))
}

func TestPlaceOrderRejectsForeignAddress(t *testing.T) {
	f := newCheckoutFixture(t)
	stranger := f.fx.User("stranger@example.com", enums.RoleCustomer)
	foreign := f.fx.Address(stranger.ID, true)
	seller := f.fx.Seller("Acme")
	product := f.fx.Product(seller.ID, "Widget", "12.50", 10)
	f.fx.CartItem(f.customer.ID, product.ID, 1)

	_, err := f.svc.PlaceOrder(context.Background(), f.customer.ID, foreign.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, int64(1), f.fx.Count(&models.CartItem{}))
	assert.Equal(t, 10, f.fx.Stock(product.ID))
}

func TestReviewGroupsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	first := f.fx.Seller("First Shop")
	second := f.fx.Seller("Second Shop")
	mug := f.fx.Product(first.ID, "Mug", "10.00", 5)
	lamp := f.fx.Product(second.ID, "Lamp", "15.00", 5)
	f.fx.CartItem(f.customer.ID, mug.ID, 2)
	f.fx.CartItem(f.customer.ID, lamp.ID, 1)

	review, err := f.svc.Review(context.Background(), f.customer.ID)
	require.NoError(t, err)
	require.Len(t, review.Lines, 2)
	require.Len(t, review.Groups, 2)
	assert.Equal(t, "First Shop", review.Groups[0].SellerName)
	assert.Equal(t, "32.00", review.Groups[0].Totals.Total.StringFixed(2))
	assert.Equal(t, "26.50", review.Groups[1].Totals.Total.StringFixed(2))
	assert.Equal(t, "58.50", review.Totals.Total.StringFixed(2))
	require.Len(t, review.Addresses, 1)

	_, err = f.svc.Review(context.Background(), f.fx.User("empty@example.com", enums.RoleCustomer).ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeEmptyCart))
}

func TestConfirmationSkipsForeignOrders(t *testing.T) {
	f := newCheckoutFixture(t)
	seller := f.fx.Seller("Acme")
	product := f.fx.Product(seller.ID, "Widget", "12.50", 10)
	f.fx.CartItem(f.customer.ID, product.ID, 1)
	mine, err := f.svc.PlaceOrder(context.Background(), f.customer.ID, f.address.ID)
	require.NoError(t, err)

	stranger := f.fx.User("stranger@example.com", enums.RoleCustomer)
	strangerAddr := f.fx.Address(stranger.ID, true)
	f.fx.CartItem(stranger.ID, product.ID, 1)
	theirs, err := f.svc.PlaceOrder(context.Background(), stranger.ID, strangerAddr.ID)
	require.NoError(t, err)

	numbers := ParseOrderNumbers(" " + mine.OrderNumbers[0] + ",," + theirs.OrderNumbers[0] + ",ORD-MISSING1")
	summaries, err := f.svc.Confirmation(context.Background(), f.customer.ID, numbers)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, mine.OrderNumbers[0], summaries[0].OrderNumber)
}

func TestParseOrderNumbers(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, ParseOrderNumbers(" A, ,B,A,"))
	assert.Empty(t, ParseOrderNumbers(""))
}
