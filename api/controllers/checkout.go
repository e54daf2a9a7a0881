package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/checkout"
	"github.com/angelmondragon/marketplace-backend/internal/flash"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const (
	checkoutPath     = "/checkout/"
	confirmationPath = "/checkout/confirmation"
	catalogPath      = "/products/"
	emptyCartMessage = "Your cart is empty."
)

type placeOrderForm struct {
	ShippingAddressID int64 `form:"shipping_address_id" json:"shipping_address_id" validate:"required,gt=0"`
}

// CheckoutReview renders the cart grouped by seller with totals and the
// customer's addresses. An empty cart sends the browser back to the catalog.
func CheckoutReview(svc checkout.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "checkout service")
			return
		}

		review, err := svc.Review(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeEmptyCart) {
				addFlash(r, flashes, logg, flash.Error(emptyCartMessage))
				responses.Redirect(w, r, catalogPath)
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, review, popFlash(r, flashes, logg))
	}
}

// CheckoutPlaceOrder places one order per seller in the cart. Every outcome is
// a 303 redirect: confirmation on success, the review page with a flash on failure.
func CheckoutPlaceOrder(svc checkout.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "checkout service")
			return
		}

		var form placeOrderForm
		if err := validators.DecodeRequest(r, &form); err != nil {
			addFlash(r, flashes, logg, flash.Error("Please select a shipping address."))
			responses.Redirect(w, r, checkoutPath)
			return
		}

		result, err := svc.PlaceOrder(r.Context(), middleware.UserIDFromContext(r.Context()), form.ShippingAddressID)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeEmptyCart) {
				addFlash(r, flashes, logg, flash.Error(emptyCartMessage))
				responses.Redirect(w, r, catalogPath)
				return
			}
			redirectWithError(w, r, flashes, logg, checkoutPath, err)
			return
		}

		location := confirmationPath + "?order_numbers=" + strings.Join(result.OrderNumbers, ",")
		redirectWithSuccess(w, r, flashes, logg, location, "Order placed successfully!")
	}
}

// CheckoutConfirmation lists the customer's orders named in order_numbers.
// Numbers that are unknown or belong to someone else are skipped.
func CheckoutConfirmation(svc checkout.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "checkout service")
			return
		}

		numbers := checkout.ParseOrderNumbers(r.URL.Query().Get("order_numbers"))
		summaries, err := svc.Confirmation(r.Context(), middleware.UserIDFromContext(r.Context()), numbers)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, map[string]any{"orders": summaries}, popFlash(r, flashes, logg))
	}
}
