package orders

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

// Service exposes order reads and the status lifecycle.
type Service interface {
	UpdateStatus(ctx context.Context, actor Actor, orderID int64, status string) (*OrderSummary, error)
	List(ctx context.Context, actor Actor, params pagination.Params, filters ListFilters) (*OrderList, error)
	Detail(ctx context.Context, actor Actor, orderID int64) (*OrderDetail, error)
}

type ServiceParams struct {
	DB      db.TxRunner
	Repo    Repository
	Sellers sellerLookup
	Outbox  outbox.Emitter
	Logger  *logger.Logger
}

type service struct {
	tx      db.TxRunner
	repo    Repository
	sellers sellerLookup
	outbox  outbox.Emitter
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Sellers == nil {
		return nil, fmt.Errorf("seller lookup required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{
		tx:      params.DB,
		repo:    params.Repo,
		sellers: params.Sellers,
		outbox:  params.Outbox,
		logg:    params.Logger,
	}, nil
}

// scopeFor maps the actor onto the orders it may see. Admins see everything.
func (s *service) scopeFor(ctx context.Context, actor Actor) (Scope, error) {
	switch actor.Role {
	case enums.RoleAdmin:
		return Scope{}, nil
	case enums.RoleCustomer:
		return Scope{CustomerID: actor.UserID}, nil
	case enums.RoleSeller:
		seller, err := s.sellers.FindByUserID(ctx, actor.UserID)
		if err != nil {
			return Scope{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
		}
		if seller == nil {
			return Scope{}, pkgerrors.New(pkgerrors.CodeForbidden, "seller account not found")
		}
		return Scope{SellerID: seller.ID}, nil
	default:
		return Scope{}, pkgerrors.New(pkgerrors.CodeForbidden, "role not permitted")
	}
}

func (scope Scope) allows(customerID, sellerID int64) bool {
	if scope.CustomerID > 0 && scope.CustomerID != customerID {
		return false
	}
	if scope.SellerID > 0 && scope.SellerID != sellerID {
		return false
	}
	return true
}

func (s *service) List(ctx context.Context, actor Actor, params pagination.Params, filters ListFilters) (*OrderList, error) {
	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, scope, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) Detail(ctx context.Context, actor Actor, orderID int64) (*OrderDetail, error) {
	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}
	detail, err := s.repo.FindDetail(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if detail == nil || !scope.allows(detail.CustomerID, detail.SellerID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return detail, nil
}

// UpdateStatus applies one lifecycle step. Sellers may only move their own orders.
func (s *service) UpdateStatus(ctx context.Context, actor Actor, orderID int64, raw string) (*OrderSummary, error) {
	target, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if actor.Role != enums.RoleAdmin && actor.Role != enums.RoleSeller {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only sellers and admins may update orders")
	}
	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	var from enums.OrderStatus
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order == nil || !scope.allows(order.CustomerID, order.SellerID) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		from = order.Status
		if !from.CanTransitionTo(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot move order from %s to %s", from, target)).
				WithDetails(map[string]any{"from": from, "to": target})
		}
		updated, err := repo.UpdateStatus(ctx, orderID, from, target)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !updated {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   orderID,
			Actor:         &outbox.ActorRef{UserID: actor.UserID, Role: actor.Role},
			Data: payloads.OrderStatusChangedEvent{
				OrderID:     orderID,
				OrderNumber: order.OrderNumber,
				From:        from,
				To:          target,
				ChangedBy:   actor.UserID,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": orderID,
			"from":     from,
			"to":       target,
		})
		s.logg.Info(logCtx, "order.status_updated")
	}

	detail, err := s.repo.FindDetail(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	if detail == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return &detail.OrderSummary, nil
}
