package helpers

import "github.com/shopspring/decimal"

// Line is one cart line joined with the product and seller data checkout needs.
type Line struct {
	CartItemID  int64           `gorm:"column:cart_item_id" json:"cart_item_id"`
	ProductID   int64           `gorm:"column:product_id" json:"product_id"`
	ProductName string          `gorm:"column:product_name" json:"product_name"`
	SKU         string          `gorm:"column:sku" json:"sku"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price" json:"unit_price"`
	Quantity    int             `gorm:"column:quantity" json:"quantity"`
	SellerID    int64           `gorm:"column:seller_id" json:"seller_id"`
	SellerName  string          `gorm:"column:seller_name" json:"seller_name"`
}

// Subtotal is unit price times quantity rounded to cents.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// SellerGroup holds the lines of a single seller.
type SellerGroup struct {
	SellerID   int64  `json:"seller_id"`
	SellerName string `json:"seller_name"`
	Lines      []Line `json:"lines"`
}

// PartitionBySeller groups lines by seller, keeping sellers in first-seen order
// and lines in input order within each seller.
func PartitionBySeller(lines []Line) []SellerGroup {
	index := make(map[int64]int, len(lines))
	groups := make([]SellerGroup, 0)
	for _, line := range lines {
		i, ok := index[line.SellerID]
		if !ok {
			i = len(groups)
			index[line.SellerID] = i
			groups = append(groups, SellerGroup{SellerID: line.SellerID, SellerName: line.SellerName})
		}
		groups[i].Lines = append(groups[i].Lines, line)
	}
	return groups
}
