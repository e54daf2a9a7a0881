package controllers

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/flash"
	"github.com/angelmondragon/marketplace-backend/internal/payments"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

type paymentForm struct {
	PaymentMethod string `form:"payment_method" json:"payment_method"`
}

// PaymentProcess charges the order through the gateway and redirects to the
// success page, or back to the order with a flash when it fails.
func PaymentProcess(svc payments.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "payment service")
			return
		}

		orderID, err := validators.ParsePathID(r, "orderID")
		if err != nil {
			redirectWithError(w, r, flashes, logg, ordersPath, err)
			return
		}

		var form paymentForm
		if err := validators.DecodeRequest(r, &form); err != nil {
			redirectWithError(w, r, flashes, logg, fmt.Sprintf("%s%d", ordersPath, orderID), err)
			return
		}

		if _, err := svc.Process(r.Context(), middleware.UserIDFromContext(r.Context()), orderID, form.PaymentMethod); err != nil {
			redirectWithError(w, r, flashes, logg, fmt.Sprintf("%s%d", ordersPath, orderID), err)
			return
		}
		redirectWithSuccess(w, r, flashes, logg, fmt.Sprintf("/payment/success/%d", orderID), "Payment processed successfully!")
	}
}

func PaymentSuccess(svc payments.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "payment service")
			return
		}

		orderID, err := validators.ParsePathID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Success(r.Context(), middleware.UserIDFromContext(r.Context()), orderID)
		if err != nil {
			redirectWithError(w, r, flashes, logg, ordersPath, err)
			return
		}
		responses.WritePage(w, detail, popFlash(r, flashes, logg))
	}
}

// PaymentInvoice renders the order, its items, payment and shipping address.
func PaymentInvoice(svc payments.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "payment service")
			return
		}

		orderID, err := validators.ParsePathID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Invoice(r.Context(), middleware.UserIDFromContext(r.Context()), orderID)
		if err != nil {
			redirectWithError(w, r, flashes, logg, ordersPath, err)
			return
		}
		responses.WritePage(w, detail, popFlash(r, flashes, logg))
	}
}
