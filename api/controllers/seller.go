package controllers

import (
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/dashboard"
	"github.com/angelmondragon/marketplace-backend/internal/flash"
	"github.com/angelmondragon/marketplace-backend/internal/inventory"
	product "github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/internal/sellers"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const (
	sellerProductsPath  = "/seller/products"
	sellerInventoryPath = "/seller/inventory"
)

// SellerHandlers groups the seller area endpoints; each one resolves the
// storefront of the authenticated user first.
type SellerHandlers struct {
	Sellers   sellers.Service
	Products  product.Service
	Inventory inventory.Service
	Dashboard *dashboard.Service
	Flash     flash.Store
	Logger    *logger.Logger
}

func (h SellerHandlers) storefront(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if h.Sellers == nil {
		unavailable(w, r, h.Logger, "seller service")
		return 0, false
	}
	seller, err := h.Sellers.ForUser(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		responses.WriteError(r.Context(), h.Logger, w, err)
		return 0, false
	}
	return seller.ID, true
}

func (h SellerHandlers) DashboardPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.Dashboard == nil {
			unavailable(w, r, h.Logger, "dashboard service")
			return
		}

		stats, err := h.Dashboard.Seller(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		responses.WritePage(w, stats, popFlash(r, h.Flash, h.Logger))
	}
}

func (h SellerHandlers) ProductsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, ok := h.storefront(w, r)
		if !ok {
			return
		}

		list, err := h.Products.ListBySeller(r.Context(), sellerID)
		if err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		responses.WritePage(w, map[string]any{"products": list}, popFlash(r, h.Flash, h.Logger))
	}
}

func (h SellerHandlers) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, ok := h.storefront(w, r)
		if !ok {
			return
		}

		var input product.CreateProductInput
		if err := validators.DecodeRequest(r, &input); err != nil {
			redirectWithError(w, r, h.Flash, h.Logger, sellerProductsPath, err)
			return
		}

		if _, err := h.Products.Create(r.Context(), sellerID, input); err != nil {
			redirectWithError(w, r, h.Flash, h.Logger, sellerProductsPath, err)
			return
		}
		redirectWithSuccess(w, r, h.Flash, h.Logger, sellerProductsPath, "Product created successfully!")
	}
}

func (h SellerHandlers) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, ok := h.storefront(w, r)
		if !ok {
			return
		}

		productID, err := validators.ParsePathID(r, "productID")
		if err != nil {
			redirectWithError(w, r, h.Flash, h.Logger, sellerProductsPath, err)
			return
		}

		var input product.UpdateProductInput
		if err := validators.DecodeRequest(r, &input); err != nil {
			redirectWithError(w, r, h.Flash, h.Logger, sellerProductsPath, err)
			return
		}

		if _, err := h.Products.Update(r.Context(), sellerID, productID, input); err != nil {
			redirectWithError(w, r, h.Flash, h.Logger, sellerProductsPath, err)
			return
		}
		redirectWithSuccess(w, r, h.Flash, h.Logger, sellerProductsPath, "Product updated successfully!")
	}
}

func (h SellerHandlers) InventoryPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, ok := h.storefront(w, r)
		if !ok {
			return
		}

		rows, err := h.Inventory.ListBySeller(r.Context(), sellerID)
		if err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		responses.WritePage(w, map[string]any{"inventory": rows}, popFlash(r, h.Flash, h.Logger))
	}
}

func (h SellerHandlers) UpdateInventory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, ok := h.storefront(w, r)
		if !ok {
			return
		}

		var input inventory.UpdateInput
		if err := validators.DecodeRequest(r, &input); err != nil {
			redirectWithError(w, r, h.Flash, h.Logger, sellerInventoryPath, err)
			return
		}

		if err := h.Inventory.SetQuantity(r.Context(), sellerID, input); err != nil {
			redirectWithError(w, r, h.Flash, h.Logger, sellerInventoryPath, err)
			return
		}
		redirectWithSuccess(w, r, h.Flash, h.Logger, sellerInventoryPath, "Inventory updated successfully!")
	}
}
