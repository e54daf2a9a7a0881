package checkout

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/cart"
	"github.com/angelmondragon/marketplace-backend/internal/checkout/helpers"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

// CartReader loads the customer's cart as checkout lines.
type CartReader interface {
	LoadCheckoutLines(ctx context.Context, tx *gorm.DB, customerID int64) (int64, []helpers.Line, error)
}

type cartReader struct{}

// NewCartReader returns the SQL-backed reader.
func NewCartReader() CartReader {
	return cartReader{}
}

// LoadCheckoutLines returns the most recent cart of the customer and its lines in
// insertion order. A missing or empty cart is an EMPTY_CART error.
func (cartReader) LoadCheckoutLines(ctx context.Context, tx *gorm.DB, customerID int64) (int64, []helpers.Line, error) {
	var c models.Cart
	err := tx.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Order("id DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil, emptyCart()
	}
	if err != nil {
		return 0, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	lines, err := cart.NewRepository(tx).Lines(ctx, c.ID)
	if err != nil {
		return 0, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart lines")
	}
	if len(lines) == 0 {
		return c.ID, nil, emptyCart()
	}
	return c.ID, lines, nil
}

func emptyCart() error {
	return pkgerrors.New(pkgerrors.CodeEmptyCart, "your cart is empty")
}
