package orders

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Create(order).Error
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) summaries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("orders AS o").
		Select("o.id, o.order_number, o.status, o.customer_id, u.email AS customer_email, " +
			"o.seller_id, s.store_name AS seller_name, o.subtotal, o.tax, o.shipping_cost, o.total, o.created_at").
		Joins("JOIN sellers s ON s.id = o.seller_id").
		Joins("JOIN users u ON u.id = o.customer_id")
}

func applyScope(q *gorm.DB, scope Scope) *gorm.DB {
	if scope.CustomerID > 0 {
		q = q.Where("o.customer_id = ?", scope.CustomerID)
	}
	if scope.SellerID > 0 {
		q = q.Where("o.seller_id = ?", scope.SellerID)
	}
	return q
}

func (r *repository) FindSummaryByNumber(ctx context.Context, customerID int64, orderNumber string) (*OrderSummary, error) {
	var rows []OrderSummary
	err := r.summaries(ctx).
		Where("o.order_number = ? AND o.customer_id = ?", orderNumber, customerID).
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

func (r *repository) FindDetail(ctx context.Context, id int64) (*OrderDetail, error) {
	var rows []OrderSummary
	if err := r.summaries(ctx).Where("o.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	order, err := r.FindByID(ctx, id)
	if err != nil || order == nil {
		return nil, err
	}
	detail := &OrderDetail{OrderSummary: rows[0], ShippingAddressID: order.ShippingAddressID}

	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Order("id ASC").Find(&detail.Items).Error; err != nil {
		return nil, err
	}

	var payment models.Payment
	err = r.db.WithContext(ctx).Where("order_id = ?", id).First(&payment).Error
	switch {
	case err == nil:
		detail.Payment = &payment
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	if order.ShippingAddressID != nil {
		var addr models.Address
		err = r.db.WithContext(ctx).Where("id = ?", *order.ShippingAddressID).First(&addr).Error
		switch {
		case err == nil:
			detail.ShippingAddress = &addr
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}
	return detail, nil
}

func (r *repository) List(ctx context.Context, scope Scope, params pagination.Params, filters ListFilters) (*OrderList, error) {
	params = params.Normalize()

	countQ := applyScope(r.db.WithContext(ctx).Table("orders AS o"), scope)
	if filters.Status != nil {
		countQ = countQ.Where("o.status = ?", *filters.Status)
	}
	var total int64
	if err := countQ.Count(&total).Error; err != nil {
		return nil, err
	}

	q := applyScope(r.summaries(ctx), scope)
	if filters.Status != nil {
		q = q.Where("o.status = ?", *filters.Status)
	}
	rows := make([]OrderSummary, 0)
	err := q.Order("o.created_at DESC").
		Order("o.id DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return &OrderList{Orders: rows, Page: pagination.NewPage(params, total)}, nil
}

// UpdateStatus moves the order only if it still holds the from status.
func (r *repository) UpdateStatus(ctx context.Context, id int64, from, to enums.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) CountAndRevenue(ctx context.Context, scope Scope) (*Stats, error) {
	var stats Stats
	base := func() *gorm.DB {
		return applyScope(r.db.WithContext(ctx).Table("orders AS o"), scope)
	}
	if err := base().Count(&stats.Orders).Error; err != nil {
		return nil, err
	}
	if err := base().Where("o.status = ?", enums.OrderStatusPlaced).Count(&stats.Pending).Error; err != nil {
		return nil, err
	}
	row := base().
		Select("COALESCE(SUM(o.total), 0)").
		Where("o.status <> ?", enums.OrderStatusCancelled).
		Row()
	if err := row.Scan(&stats.Revenue); err != nil {
		return nil, err
	}
	stats.Revenue = stats.Revenue.Round(2)
	return &stats, nil
}
