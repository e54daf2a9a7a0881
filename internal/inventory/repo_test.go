package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

func TestDecrement(t *testing.T) {
	conn := dbtest.Open(t)
	fx := dbtest.NewFixtures(t, conn)
	seller := fx.Seller("Acme")
	tracked := fx.Product(seller.ID, "Widget", "5.00", 3)
	untracked := fx.Product(seller.ID, "Ebook", "2.00", -1)
	repo := NewRepository(conn)
	ctx := context.Background()

	require.NoError(t, repo.Decrement(ctx, tracked.ID, 2))
	assert.Equal(t, 1, fx.Stock(tracked.ID))

	err := repo.Decrement(ctx, tracked.ID, 2)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficient))
	assert.Equal(t, 1, fx.Stock(tracked.ID))

	require.NoError(t, repo.Decrement(ctx, untracked.ID, 50))
}

func TestListBySellerIncludesUntracked(t *testing.T) {
	conn := dbtest.Open(t)
	fx := dbtest.NewFixtures(t, conn)
	seller := fx.Seller("Acme")
	other := fx.Seller("Other")
	fx.Product(seller.ID, "Anvil", "5.00", 4)
	fx.Product(seller.ID, "Blueprint", "1.00", -1)
	fx.Product(other.ID, "Hidden", "1.00", 1)

	rows, err := NewRepository(conn).ListBySeller(context.Background(), seller.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Anvil", rows[0].ProductName)
	require.NotNil(t, rows[0].Quantity)
	assert.True(t, rows[0].Low())
	assert.Nil(t, rows[1].Quantity)
	assert.False(t, rows[1].Low())
}

func TestSetQuantityScopedToSeller(t *testing.T) {
	conn := dbtest.Open(t)
	fx := dbtest.NewFixtures(t, conn)
	seller := fx.Seller("Acme")
	other := fx.Seller("Other")
	product := fx.Product(seller.ID, "Widget", "5.00", -1)
	svc := NewService(conn, NewRepository(conn))
	ctx := context.Background()

	err := svc.SetQuantity(ctx, other.ID, UpdateInput{ProductID: product.ID, Quantity: 5})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	require.NoError(t, svc.SetQuantity(ctx, seller.ID, UpdateInput{ProductID: product.ID, Quantity: 5}))
	assert.Equal(t, 5, fx.Stock(product.ID))

	threshold := 2
	require.NoError(t, svc.SetQuantity(ctx, seller.ID, UpdateInput{ProductID: product.ID, Quantity: 8, LowStockThreshold: &threshold}))
	inv, err := NewRepository(conn).FindByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, inv.Quantity)
	assert.Equal(t, 2, inv.LowStockThreshold)

	err = svc.SetQuantity(ctx, seller.ID, UpdateInput{ProductID: product.ID, Quantity: -1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
