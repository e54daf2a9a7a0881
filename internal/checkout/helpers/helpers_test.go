package helpers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
)

var defaultRates = config.CheckoutRates{
	TaxRate:      decimal.RequireFromString("0.10"),
	ShippingFlat: decimal.RequireFromString("10.00"),
}

func line(id, seller int64, price string, qty int) Line {
	return Line{
		CartItemID: id,
		ProductID:  id,
		UnitPrice:  decimal.RequireFromString(price),
		Quantity:   qty,
		SellerID:   seller,
		SellerName: "seller",
	}
}

func TestPartitionBySellerKeepsFirstSeenOrder(t *testing.T) {
	lines := []Line{
		line(1, 20, "1.00", 1),
		line(2, 10, "1.00", 1),
		line(3, 20, "1.00", 1),
		line(4, 30, "1.00", 1),
	}

	groups := PartitionBySeller(lines)

	require.Len(t, groups, 3)
	assert.Equal(t, int64(20), groups[0].SellerID)
	assert.Equal(t, int64(10), groups[1].SellerID)
	assert.Equal(t, int64(30), groups[2].SellerID)
	require.Len(t, groups[0].Lines, 2)
	assert.Equal(t, int64(1), groups[0].Lines[0].CartItemID)
	assert.Equal(t, int64(3), groups[0].Lines[1].CartItemID)

	total := 0
	for _, g := range groups {
		total += len(g.Lines)
	}
	assert.Equal(t, len(lines), total)
}

func TestPartitionBySellerEmpty(t *testing.T) {
	assert.Empty(t, PartitionBySeller(nil))
}

func TestPriceLinesSingleSeller(t *testing.T) {
	totals := PriceLines([]Line{
		line(1, 1, "10.00", 2),
		line(2, 1, "5.00", 1),
	}, defaultRates)

	assert.Equal(t, "25.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "2.50", totals.Tax.StringFixed(2))
	assert.Equal(t, "10.00", totals.Shipping.StringFixed(2))
	assert.Equal(t, "37.50", totals.Total.StringFixed(2))
}

func TestPriceLinesPerSellerShipping(t *testing.T) {
	groups := PartitionBySeller([]Line{
		line(1, 1, "20.00", 1),
		line(2, 2, "15.00", 1),
	})
	require.Len(t, groups, 2)

	a := PriceLines(groups[0].Lines, defaultRates)
	b := PriceLines(groups[1].Lines, defaultRates)
	assert.Equal(t, "32.00", a.Total.StringFixed(2))
	assert.Equal(t, "26.50", b.Total.StringFixed(2))
	assert.Equal(t, "58.50", a.Add(b).Total.StringFixed(2))
	assert.Equal(t, "20.00", a.Add(b).Shipping.StringFixed(2))
}

func TestPriceLinesRoundsTax(t *testing.T) {
	totals := PriceLines([]Line{line(1, 1, "0.05", 1)}, defaultRates)
	assert.Equal(t, "0.01", totals.Tax.StringFixed(2))
	assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.Tax).Add(totals.Shipping)))
}
