package product

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

const productColumns = "p.id, p.seller_id, s.store_name AS seller_name, p.category_id, c.name AS category_name, " +
	"p.name, p.description, p.price, p.image_url, p.sku, p.is_active, i.quantity AS stock, " +
	"i.low_stock_threshold, p.created_at"

// Repository persists products and serves catalog queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a product repository to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// FindByID loads a product regardless of its active flag.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	return r.first(ctx, r.db.Where("id = ?", id))
}

// FindActive loads a product only if it is listed.
func (r *Repository) FindActive(ctx context.Context, id int64) (*models.Product, error) {
	return r.first(ctx, r.db.Where("id = ? AND is_active = ?", id, true))
}

// FindOwned loads a product belonging to sellerID.
func (r *Repository) FindOwned(ctx context.Context, sellerID, id int64) (*models.Product, error) {
	return r.first(ctx, r.db.Where("id = ? AND seller_id = ?", id, sellerID))
}

func (r *Repository) first(ctx context.Context, q *gorm.DB) (*models.Product, error) {
	var product models.Product
	err := q.WithContext(ctx).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("products AS p").
		Joins("JOIN sellers s ON s.id = p.seller_id").
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Joins("LEFT JOIN inventory i ON i.product_id = p.id")
}

// List returns active, buyable products filtered and sorted for the catalog.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) (*ProductList, error) {
	params = params.Normalize()
	base := func() *gorm.DB {
		q := r.joined(ctx).
			Where("p.is_active = ?", true).
			Where("i.id IS NULL OR i.quantity > 0")
		if filters.CategoryID != nil {
			q = q.Where("p.category_id = ?", *filters.CategoryID)
		}
		if term := strings.ToLower(strings.TrimSpace(filters.Search)); term != "" {
			like := "%" + term + "%"
			q = q.Where("LOWER(p.name) LIKE ? OR LOWER(p.description) LIKE ?", like, like)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}

	rows := make([]ProductDTO, 0)
	q := base().Select(productColumns)
	for _, order := range sortOrder(filters.Sort) {
		q = q.Order(order)
	}
	if err := q.Limit(params.Limit).Offset(params.Offset()).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return &ProductList{Products: rows, Page: pagination.NewPage(params, total)}, nil
}

func sortOrder(sort enums.ProductSort) []string {
	switch sort {
	case enums.ProductSortPriceLow:
		return []string{"p.price ASC", "p.id ASC"}
	case enums.ProductSortPriceHigh:
		return []string{"p.price DESC", "p.id ASC"}
	case enums.ProductSortName:
		return []string{"p.name ASC", "p.id ASC"}
	default:
		return []string{"p.created_at DESC", "p.id DESC"}
	}
}

// Detail loads an active product with its joins.
func (r *Repository) Detail(ctx context.Context, id int64) (*ProductDTO, error) {
	var rows []ProductDTO
	err := r.joined(ctx).
		Select(productColumns).
		Where("p.id = ? AND p.is_active = ?", id, true).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ListBySeller returns every product of the seller, inactive included.
func (r *Repository) ListBySeller(ctx context.Context, sellerID int64) ([]ProductDTO, error) {
	rows := make([]ProductDTO, 0)
	err := r.joined(ctx).
		Select(productColumns).
		Where("p.seller_id = ?", sellerID).
		Order("p.created_at DESC").
		Order("p.id DESC").
		Scan(&rows).Error
	return rows, err
}

// Count returns the number of products, scoped to sellerID when non-zero.
func (r *Repository) Count(ctx context.Context, sellerID int64) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if sellerID > 0 {
		q = q.Where("seller_id = ?", sellerID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// CategoryExists reports whether the category id is known.
func (r *Repository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}
