package controllers

import (
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/address"
	"github.com/angelmondragon/marketplace-backend/internal/dashboard"
	"github.com/angelmondragon/marketplace-backend/internal/flash"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const (
	customerProfilePath   = "/customer/profile"
	customerAddressesPath = "/customer/addresses"
)

func CustomerDashboard(svc *dashboard.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "dashboard service")
			return
		}

		stats, err := svc.Customer(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, stats, popFlash(r, flashes, logg))
	}
}

func CustomerProfile(svc users.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "user service")
			return
		}

		profile, err := svc.Profile(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, profile, popFlash(r, flashes, logg))
	}
}

func CustomerUpdateProfile(svc users.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "user service")
			return
		}

		var input users.ProfileInput
		if err := validators.DecodeRequest(r, &input); err != nil {
			redirectWithError(w, r, flashes, logg, customerProfilePath, err)
			return
		}

		if _, err := svc.UpdateProfile(r.Context(), middleware.UserIDFromContext(r.Context()), input); err != nil {
			redirectWithError(w, r, flashes, logg, customerProfilePath, err)
			return
		}
		redirectWithSuccess(w, r, flashes, logg, customerProfilePath, "Profile updated successfully!")
	}
}

// CustomerAddresses lists the saved addresses, default first.
func CustomerAddresses(svc address.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "address service")
			return
		}

		list, err := svc.List(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, map[string]any{"addresses": list}, popFlash(r, flashes, logg))
	}
}

func CustomerCreateAddress(svc address.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "address service")
			return
		}

		var input address.CreateInput
		if err := validators.DecodeRequest(r, &input); err != nil {
			redirectWithError(w, r, flashes, logg, customerAddressesPath, err)
			return
		}

		if _, err := svc.Create(r.Context(), middleware.UserIDFromContext(r.Context()), input); err != nil {
			redirectWithError(w, r, flashes, logg, customerAddressesPath, err)
			return
		}
		redirectWithSuccess(w, r, flashes, logg, customerAddressesPath, "Address added successfully!")
	}
}
