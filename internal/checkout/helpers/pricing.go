package helpers

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
)

// Totals is the money breakdown of an order or cart.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// PriceLines computes subtotal, tax, flat shipping and total, each rounded to 2 places.
func PriceLines(lines []Line, rates config.CheckoutRates) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(rates.TaxRate).Round(2)
	shipping := rates.ShippingFlat.Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping).Round(2),
	}
}

// Add sums two breakdowns field by field.
func (t Totals) Add(other Totals) Totals {
	return Totals{
		Subtotal: t.Subtotal.Add(other.Subtotal),
		Tax:      t.Tax.Add(other.Tax),
		Shipping: t.Shipping.Add(other.Shipping),
		Total:    t.Total.Add(other.Total),
	}
}
