package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/internal/inventory"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

const recentOrders = 5

type CustomerStats struct {
	TotalOrders   int64                 `json:"total_orders"`
	PendingOrders int64                 `json:"pending_orders"`
	Addresses     int64                 `json:"addresses"`
	Recent        []orders.OrderSummary `json:"recent_orders"`
}

type SellerStats struct {
	StoreName     string               `json:"store_name"`
	Products      int64                `json:"products"`
	Orders        int64                `json:"orders"`
	PendingOrders int64                `json:"pending_orders"`
	Revenue       decimal.Decimal      `json:"revenue"`
	LowStock      []inventory.StockRow `json:"low_stock"`
}

type AdminStats struct {
	Sellers    int64           `json:"sellers"`
	Customers  int64           `json:"customers"`
	Products   int64           `json:"products"`
	Orders     int64           `json:"orders"`
	Categories int64           `json:"categories"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type orderStats interface {
	CountAndRevenue(ctx context.Context, scope orders.Scope) (*orders.Stats, error)
	List(ctx context.Context, scope orders.Scope, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error)
}

type addressCounter interface {
	CountByUser(ctx context.Context, userID int64) (int64, error)
}

type productCounter interface {
	Count(ctx context.Context, sellerID int64) (int64, error)
}

type sellerDirectory interface {
	FindByUserID(ctx context.Context, userID int64) (*models.Seller, error)
	Count(ctx context.Context) (int64, error)
}

type userCounter interface {
	CountByRole(ctx context.Context, role enums.Role) (int64, error)
}

type categoryCounter interface {
	Count(ctx context.Context) (int64, error)
}

type stockLister interface {
	ListBySeller(ctx context.Context, sellerID int64) ([]inventory.StockRow, error)
}

type Params struct {
	Orders     orderStats
	Addresses  addressCounter
	Products   productCounter
	Sellers    sellerDirectory
	Users      userCounter
	Categories categoryCounter
	Inventory  stockLister
}

// Service computes the per-role landing page figures.
type Service struct {
	p Params
}

func NewService(p Params) (*Service, error) {
	switch {
	case p.Orders == nil:
		return nil, fmt.Errorf("orders repository required")
	case p.Addresses == nil:
		return nil, fmt.Errorf("address repository required")
	case p.Products == nil:
		return nil, fmt.Errorf("product repository required")
	case p.Sellers == nil:
		return nil, fmt.Errorf("seller repository required")
	case p.Users == nil:
		return nil, fmt.Errorf("user repository required")
	case p.Categories == nil:
		return nil, fmt.Errorf("category repository required")
	case p.Inventory == nil:
		return nil, fmt.Errorf("inventory repository required")
	}
	return &Service{p: p}, nil
}

func (s *Service) Customer(ctx context.Context, userID int64) (*CustomerStats, error) {
	scope := orders.Scope{CustomerID: userID}
	stats, err := s.p.Orders.CountAndRevenue(ctx, scope)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	addresses, err := s.p.Addresses.CountByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count addresses")
	}
	recent, err := s.p.Orders.List(ctx, scope, pagination.Params{Page: 1, Limit: recentOrders}, orders.ListFilters{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recent orders")
	}
	return &CustomerStats{
		TotalOrders:   stats.Orders,
		PendingOrders: stats.Pending,
		Addresses:     addresses,
		Recent:        recent.Orders,
	}, nil
}

func (s *Service) Seller(ctx context.Context, userID int64) (*SellerStats, error) {
	seller, err := s.p.Sellers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
	}
	if seller == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "seller account required")
	}

	products, err := s.p.Products.Count(ctx, seller.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	stats, err := s.p.Orders.CountAndRevenue(ctx, orders.Scope{SellerID: seller.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	stock, err := s.p.Inventory.ListBySeller(ctx, seller.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	low := make([]inventory.StockRow, 0)
	for _, row := range stock {
		if row.Low() {
			low = append(low, row)
		}
	}
	return &SellerStats{
		StoreName:     seller.StoreName,
		Products:      products,
		Orders:        stats.Orders,
		PendingOrders: stats.Pending,
		Revenue:       stats.Revenue,
		LowStock:      low,
	}, nil
}

func (s *Service) Admin(ctx context.Context) (*AdminStats, error) {
	var out AdminStats
	var err error
	if out.Sellers, err = s.p.Sellers.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count sellers")
	}
	if out.Customers, err = s.p.Users.CountByRole(ctx, enums.RoleCustomer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customers")
	}
	if out.Products, err = s.p.Products.Count(ctx, 0); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	if out.Categories, err = s.p.Categories.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count categories")
	}
	stats, err := s.p.Orders.CountAndRevenue(ctx, orders.Scope{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	out.Orders = stats.Orders
	out.Revenue = stats.Revenue
	return &out, nil
}
