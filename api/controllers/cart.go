package controllers

import (
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/cart"
	"github.com/angelmondragon/marketplace-backend/internal/flash"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const cartPath = "/cart/"

type cartItemForm struct {
	ProductID int64 `form:"product_id" json:"product_id" validate:"required,gt=0"`
	Quantity  int   `form:"quantity" json:"quantity"`
}

func CartView(svc cart.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cart service")
			return
		}

		view, err := svc.View(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, view, popFlash(r, flashes, logg))
	}
}

// CartAdd adds the posted product to the cart and returns to the cart page.
func CartAdd(svc cart.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cart service")
			return
		}

		var form cartItemForm
		if err := validators.DecodeRequest(r, &form); err != nil {
			redirectWithError(w, r, flashes, logg, "/products/", err)
			return
		}

		if _, err := svc.AddItem(r.Context(), middleware.UserIDFromContext(r.Context()), form.ProductID, form.Quantity); err != nil {
			redirectWithError(w, r, flashes, logg, cartPath, err)
			return
		}
		redirectWithSuccess(w, r, flashes, logg, cartPath, "Product added to cart!")
	}
}

// CartUpdate sets a line's quantity; zero or less removes it.
func CartUpdate(svc cart.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cart service")
			return
		}

		var form cartItemForm
		if err := validators.DecodeRequest(r, &form); err != nil {
			redirectWithError(w, r, flashes, logg, cartPath, err)
			return
		}

		if err := svc.UpdateQuantity(r.Context(), middleware.UserIDFromContext(r.Context()), form.ProductID, form.Quantity); err != nil {
			redirectWithError(w, r, flashes, logg, cartPath, err)
			return
		}
		redirectWithSuccess(w, r, flashes, logg, cartPath, "Cart updated.")
	}
}

func CartRemove(svc cart.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cart service")
			return
		}

		var form cartItemForm
		if err := validators.DecodeRequest(r, &form); err != nil {
			redirectWithError(w, r, flashes, logg, cartPath, err)
			return
		}

		if err := svc.RemoveItem(r.Context(), middleware.UserIDFromContext(r.Context()), form.ProductID); err != nil {
			redirectWithError(w, r, flashes, logg, cartPath, err)
			return
		}
		redirectWithSuccess(w, r, flashes, logg, cartPath, "Item removed from cart.")
	}
}
