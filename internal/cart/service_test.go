package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/internal/inventory"
	product "github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *dbtest.Fixtures) {
	t.Helper()
	client, conn := dbtest.Client(t)
	rates := config.CheckoutRates{
		TaxRate:      decimal.RequireFromString("0.10"),
		ShippingFlat: decimal.RequireFromString("10.00"),
	}
	svc, err := NewService(client, NewRepository(conn), product.NewRepository(conn), inventory.NewRepository(conn), rates)
	require.NoError(t, err)
	return svc, dbtest.NewFixtures(t, conn)
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	svc, fx := newTestService(t)
	customer := fx.User("buyer@example.com", enums.RoleCustomer)
	seller := fx.Seller("Acme")
	widget := fx.Product(seller.ID, "Widget", "12.50", 5)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, customer.ID, widget.ID, 0)
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, customer.ID, widget.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, int64(1), fx.Count(&models.CartItem{}))

	view, err := svc.View(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "Acme", view.Lines[0].SellerName)
	assert.Equal(t, "25.00", view.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "37.50", view.Totals.Total.StringFixed(2))

	count, err := svc.Count(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestAddItemChecksStock(t *testing.T) {
	svc, fx := newTestService(t)
	customer := fx.User("buyer@example.com", enums.RoleCustomer)
	seller := fx.Seller("Acme")
	widget := fx.Product(seller.ID, "Widget", "12.50", 2)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, customer.ID, widget.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, customer.ID, widget.ID, 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficient))

	_, err = svc.AddItem(ctx, customer.ID, widget.ID, -3)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = svc.AddItem(ctx, customer.ID, 9999, 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	svc, fx := newTestService(t)
	customer := fx.User("buyer@example.com", enums.RoleCustomer)
	seller := fx.Seller("Acme")
	widget := fx.Product(seller.ID, "Widget", "12.50", 3)
	ebook := fx.Product(seller.ID, "Ebook", "4.00", -1)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, customer.ID, widget.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, customer.ID, ebook.ID, 50)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQuantity(ctx, customer.ID, widget.ID, 3))
	err = svc.UpdateQuantity(ctx, customer.ID, widget.ID, 4)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficient))

	require.NoError(t, svc.UpdateQuantity(ctx, customer.ID, widget.ID, 0))
	require.NoError(t, svc.RemoveItem(ctx, customer.ID, ebook.ID))
	assert.Equal(t, int64(0), fx.Count(&models.CartItem{}))

	err = svc.RemoveItem(ctx, customer.ID, ebook.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestGetOrCreateKeepsOneCart(t *testing.T) {
	_, conn := dbtest.Client(t)
	fx := dbtest.NewFixtures(t, conn)
	customer := fx.User("buyer@example.com", enums.RoleCustomer)
	repo := NewRepository(conn)

	first, err := repo.GetOrCreate(context.Background(), customer.ID)
	require.NoError(t, err)
	second, err := repo.GetOrCreate(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(1), fx.Count(&models.Cart{}))
}
