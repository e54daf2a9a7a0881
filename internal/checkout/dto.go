package checkout

import (
	"strings"

	"github.com/angelmondragon/marketplace-backend/internal/checkout/helpers"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

// GroupReview is one future order: a seller's lines and their totals.
type GroupReview struct {
	helpers.SellerGroup
	Totals helpers.Totals `json:"totals"`
}

// Review is the pre-placement view of the cart.
type Review struct {
	CartID    int64            `json:"cart_id"`
	Lines     []helpers.Line   `json:"lines"`
	Groups    []GroupReview    `json:"groups"`
	Totals    helpers.Totals   `json:"totals"`
	Addresses []models.Address `json:"addresses"`
}

// PlacementResult lists the orders created by one checkout, in seller order.
type PlacementResult struct {
	OrderNumbers []string       `json:"order_numbers"`
	Orders       []models.Order `json:"orders"`
	Totals       helpers.Totals `json:"totals"`
}

// ParseOrderNumbers splits a comma separated list, dropping blanks and duplicates.
func ParseOrderNumbers(csv string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, part := range strings.Split(csv, ",") {
		number := strings.TrimSpace(part)
		if number == "" {
			continue
		}
		if _, ok := seen[number]; ok {
			continue
		}
		seen[number] = struct{}{}
		out = append(out, number)
	}
	return out
}
