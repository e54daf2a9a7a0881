package controllers

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/flash"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

const ordersPath = "/orders/"

type orderStatusForm struct {
	Status string `form:"status" json:"status" validate:"required"`
}

func actorFrom(r *http.Request) orders.Actor {
	return orders.Actor{
		UserID: middleware.UserIDFromContext(r.Context()),
		Role:   middleware.RoleFromContext(r.Context()),
	}
}

// OrderList pages through the orders visible to the actor: their own for
// customers, their storefront's for sellers and everything for admins.
func OrderList(svc orders.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "orders service")
			return
		}

		query := r.URL.Query()
		var filters orders.ListFilters
		if raw := query.Get("status"); raw != "" {
			if status, err := enums.ParseOrderStatus(raw); err == nil {
				filters.Status = &status
			}
		}
		params := pagination.Params{Page: pagination.ParsePage(query.Get("page"))}

		list, err := svc.List(r.Context(), actorFrom(r), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, list, popFlash(r, flashes, logg))
	}
}

func OrderDetail(svc orders.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "orders service")
			return
		}

		id, err := validators.ParsePathID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Detail(r.Context(), actorFrom(r), id)
		if err != nil {
			redirectWithError(w, r, flashes, logg, ordersPath, err)
			return
		}
		responses.WritePage(w, detail, popFlash(r, flashes, logg))
	}
}

// OrderUpdateStatus moves an order along its lifecycle and returns to its detail page.
func OrderUpdateStatus(svc orders.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "orders service")
			return
		}

		id, err := validators.ParsePathID(r, "orderID")
		if err != nil {
			redirectWithError(w, r, flashes, logg, ordersPath, err)
			return
		}
		detailPath := fmt.Sprintf("%s%d", ordersPath, id)

		var form orderStatusForm
		if err := validators.DecodeRequest(r, &form); err != nil {
			addFlash(r, flashes, logg, flash.Error("Invalid status."))
			responses.Redirect(w, r, detailPath)
			return
		}

		if _, err := svc.UpdateStatus(r.Context(), actorFrom(r), id, form.Status); err != nil {
			redirectWithError(w, r, flashes, logg, detailPath, err)
			return
		}
		redirectWithSuccess(w, r, flashes, logg, detailPath, "Order status updated successfully!")
	}
}
