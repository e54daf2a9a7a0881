package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

// ProductDTO is a catalog row joined with its seller, category and stock.
type ProductDTO struct {
	ID                int64           `gorm:"column:id" json:"id"`
	SellerID          int64           `gorm:"column:seller_id" json:"seller_id"`
	SellerName        string          `gorm:"column:seller_name" json:"seller_name"`
	CategoryID        *int64          `gorm:"column:category_id" json:"category_id,omitempty"`
	CategoryName      *string         `gorm:"column:category_name" json:"category_name,omitempty"`
	Name              string          `gorm:"column:name" json:"name"`
	Description       string          `gorm:"column:description" json:"description"`
	Price             decimal.Decimal `gorm:"column:price" json:"price"`
	ImageURL          *string         `gorm:"column:image_url" json:"image_url,omitempty"`
	SKU               string          `gorm:"column:sku" json:"sku"`
	IsActive          bool            `gorm:"column:is_active" json:"is_active"`
	Stock             *int            `gorm:"column:stock" json:"stock"`
	LowStockThreshold *int            `gorm:"column:low_stock_threshold" json:"low_stock_threshold,omitempty"`
	CreatedAt         time.Time       `gorm:"column:created_at" json:"created_at"`
}

// InStock reports whether the product can be bought; untracked stock counts as available.
func (p ProductDTO) InStock() bool {
	return p.Stock == nil || *p.Stock > 0
}

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	CategoryID *int64            `json:"category,omitempty"`
	Search     string            `json:"search,omitempty"`
	Sort       enums.ProductSort `json:"sort"`
}

// ProductList is one page of catalog results.
type ProductList struct {
	Products []ProductDTO    `json:"products"`
	Page     pagination.Page `json:"page"`
}

// CreateProductInput is the seller form for a new product.
type CreateProductInput struct {
	CategoryID        *int64 `form:"category_id" json:"category_id"`
	Name              string `form:"name" json:"name" validate:"required,max=200"`
	Description       string `form:"description" json:"description"`
	Price             string `form:"price" json:"price" validate:"required"`
	ImageURL          string `form:"image_url" json:"image_url" validate:"omitempty,url"`
	SKU               string `form:"sku" json:"sku" validate:"max=64"`
	Quantity          int    `form:"quantity" json:"quantity" validate:"gte=0"`
	LowStockThreshold *int   `form:"low_stock_threshold" json:"low_stock_threshold" validate:"omitempty,gte=0"`
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	CategoryID  *int64  `form:"category_id" json:"category_id"`
	Name        *string `form:"name" json:"name" validate:"omitempty,max=200"`
	Description *string `form:"description" json:"description"`
	Price       *string `form:"price" json:"price"`
	ImageURL    *string `form:"image_url" json:"image_url" validate:"omitempty,url"`
	SKU         *string `form:"sku" json:"sku" validate:"omitempty,max=64"`
	IsActive    *bool   `form:"is_active" json:"is_active"`
}
