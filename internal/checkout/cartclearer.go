package checkout

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

// CartClearer empties a cart once its orders are written.
type CartClearer interface {
	Clear(ctx context.Context, tx *gorm.DB, cartID int64) error
}

type cartClearer struct{}

func NewCartClearer() CartClearer {
	return cartClearer{}
}

func (cartClearer) Clear(ctx context.Context, tx *gorm.DB, cartID int64) error {
	if err := tx.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
