package controllers

import (
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/categories"
	"github.com/angelmondragon/marketplace-backend/internal/dashboard"
	"github.com/angelmondragon/marketplace-backend/internal/flash"
	"github.com/angelmondragon/marketplace-backend/internal/sellers"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const (
	adminSellersPath    = "/admin/sellers"
	adminCategoriesPath = "/admin/categories"
)

func AdminDashboard(svc *dashboard.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "dashboard service")
			return
		}

		stats, err := svc.Admin(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, stats, popFlash(r, flashes, logg))
	}
}

func AdminSellers(svc sellers.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "seller service")
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, map[string]any{"sellers": list}, popFlash(r, flashes, logg))
	}
}

// AdminCreateSeller onboards a seller user together with its storefront.
func AdminCreateSeller(svc sellers.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "seller service")
			return
		}

		var input sellers.CreateSellerInput
		if err := validators.DecodeRequest(r, &input); err != nil {
			redirectWithError(w, r, flashes, logg, adminSellersPath, err)
			return
		}

		if _, err := svc.Create(r.Context(), input); err != nil {
			redirectWithError(w, r, flashes, logg, adminSellersPath, err)
			return
		}
		redirectWithSuccess(w, r, flashes, logg, adminSellersPath, "Seller created successfully!")
	}
}

func AdminCategories(svc categories.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "category service")
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, map[string]any{"categories": list}, popFlash(r, flashes, logg))
	}
}

func AdminCreateCategory(svc categories.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "category service")
			return
		}

		var input categories.CreateInput
		if err := validators.DecodeRequest(r, &input); err != nil {
			redirectWithError(w, r, flashes, logg, adminCategoriesPath, err)
			return
		}

		if _, err := svc.Create(r.Context(), input); err != nil {
			redirectWithError(w, r, flashes, logg, adminCategoriesPath, err)
			return
		}
		redirectWithSuccess(w, r, flashes, logg, adminCategoriesPath, "Category created successfully!")
	}
}
