package cart

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/checkout/helpers"
	"github.com/angelmondragon/marketplace-backend/internal/inventory"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

type productLookup interface {
	FindActive(ctx context.Context, id int64) (*models.Product, error)
}

// View is the priced cart.
type View struct {
	CartID int64          `json:"cart_id"`
	Lines  []helpers.Line `json:"lines"`
	Totals helpers.Totals `json:"totals"`
}

// Service exposes cart operations for a customer.
type Service interface {
	View(ctx context.Context, customerID int64) (*View, error)
	AddItem(ctx context.Context, customerID, productID int64, qty int) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, customerID, productID int64, qty int) error
	RemoveItem(ctx context.Context, customerID, productID int64) error
	Count(ctx context.Context, customerID int64) (int64, error)
}

type service struct {
	tx        db.TxRunner
	repo      Repository
	products  productLookup
	inventory inventory.Repository
	rates     config.CheckoutRates
}

// NewService builds a cart service backed by the provided stack.
func NewService(tx db.TxRunner, repo Repository, products productLookup, inv inventory.Repository, rates config.CheckoutRates) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	if inv == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{tx: tx, repo: repo, products: products, inventory: inv, rates: rates}, nil
}

func (s *service) View(ctx context.Context, customerID int64) (*View, error) {
	cart, err := s.repo.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	lines, err := s.repo.Lines(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart lines")
	}
	return &View{CartID: cart.ID, Lines: lines, Totals: helpers.PriceLines(lines, s.rates)}, nil
}

// AddItem puts qty units into the cart, incrementing an existing line.
func (s *service) AddItem(ctx context.Context, customerID, productID int64, qty int) (*models.CartItem, error) {
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	product, err := s.activeProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var saved *models.CartItem
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.GetOrCreate(ctx, customerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		item, err := repo.FindItem(ctx, cart.ID, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}
		if item == nil {
			item = &models.CartItem{CartID: cart.ID, ProductID: productID}
		}
		if err := s.checkStock(ctx, tx, product, item.Quantity+qty); err != nil {
			return err
		}
		item.Quantity += qty
		if err := repo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart item")
		}
		saved = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// UpdateQuantity sets a line's quantity; qty <= 0 removes the line.
func (s *service) UpdateQuantity(ctx context.Context, customerID, productID int64, qty int) error {
	if qty <= 0 {
		return s.RemoveItem(ctx, customerID, productID)
	}
	product, err := s.activeProduct(ctx, productID)
	if err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.GetOrCreate(ctx, customerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		item, err := repo.FindItem(ctx, cart.ID, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
		}
		if err := s.checkStock(ctx, tx, product, qty); err != nil {
			return err
		}
		item.Quantity = qty
		if err := repo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart item")
		}
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, customerID, productID int64) error {
	cart, err := s.repo.GetOrCreate(ctx, customerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	removed, err := s.repo.DeleteItem(ctx, cart.ID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}
	return nil
}

func (s *service) Count(ctx context.Context, customerID int64) (int64, error) {
	n, err := s.repo.CountItems(ctx, customerID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count cart items")
	}
	return n, nil
}

func (s *service) activeProduct(ctx context.Context, productID int64) (*models.Product, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	product, err := s.products.FindActive(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) checkStock(ctx context.Context, tx *gorm.DB, product *models.Product, want int) error {
	inv, err := s.inventory.WithTx(tx).FindByProduct(ctx, product.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
	}
	if inv == nil || inv.Quantity >= want {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeInsufficient, fmt.Sprintf("only %d of %s available", inv.Quantity, product.Name)).
		WithDetails(map[string]any{"product_id": product.ID, "requested": want, "available": inv.Quantity})
}
