package inventory

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

const DefaultLowStockThreshold = 10

// Service exposes seller stock management.
type Service interface {
	ListBySeller(ctx context.Context, sellerID int64) ([]StockRow, error)
	SetQuantity(ctx context.Context, sellerID int64, input UpdateInput) error
}

// UpdateInput is the seller form for one product's stock.
type UpdateInput struct {
	ProductID         int64 `json:"product_id" form:"product_id" validate:"required,gt=0"`
	Quantity          int   `json:"quantity" form:"quantity" validate:"gte=0"`
	LowStockThreshold *int  `json:"low_stock_threshold" form:"low_stock_threshold" validate:"omitempty,gte=0"`
}

type service struct {
	db   *gorm.DB
	repo Repository
}

func NewService(db *gorm.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) ListBySeller(ctx context.Context, sellerID int64) ([]StockRow, error) {
	rows, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	return rows, nil
}

func (s *service) SetQuantity(ctx context.Context, sellerID int64, input UpdateInput) error {
	if input.Quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	var product models.Product
	err := s.db.WithContext(ctx).Where("id = ? AND seller_id = ?", input.ProductID, sellerID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	threshold := DefaultLowStockThreshold
	if input.LowStockThreshold != nil {
		threshold = *input.LowStockThreshold
	} else if existing, err := s.repo.FindByProduct(ctx, product.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
	} else if existing != nil {
		threshold = existing.LowStockThreshold
	}
	if err := s.repo.Upsert(ctx, product.ID, input.Quantity, threshold); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory")
	}
	return nil
}
