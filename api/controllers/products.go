package controllers

import (
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/flash"
	product "github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

const maxSearchLen = 100

// ProductList renders the public catalog.
func ProductList(svc product.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product service")
			return
		}

		query := r.URL.Query()
		sort, err := enums.ParseProductSort(query.Get("sort"))
		if err != nil {
			sort = enums.ProductSortNewest
		}
		filters := product.ListFilters{
			CategoryID: validators.ParseOptionalID(r, "category"),
			Search:     validators.QueryText(r, "search", maxSearchLen),
			Sort:       sort,
		}

		list, err := svc.List(r.Context(), filters, pagination.ParsePage(query.Get("page")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, list, popFlash(r, flashes, logg))
	}
}

func ProductDetail(svc product.Service, flashes flash.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product service")
			return
		}

		id, err := validators.ParsePathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Detail(r.Context(), id)
		if err != nil {
			redirectWithError(w, r, flashes, logg, "/products/", err)
			return
		}
		responses.WritePage(w, dto, popFlash(r, flashes, logg))
	}
}
