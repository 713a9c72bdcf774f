package entity

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Money travels as JSON numbers, the shape the POS clients send and expect.
	decimal.MarshalJSONWithoutQuotes = true
}

// LineItem is one product/quantity/price entry of a cart or bill.
// Subtotal is always derived from Quantity and UnitPrice.
type LineItem struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// NewLineItem builds a line item with its subtotal computed from the inputs.
func NewLineItem(productName string, quantity int, unitPrice decimal.Decimal) LineItem {
	return LineItem{
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// SumSubtotals returns the sum of every item's subtotal; zero for no items.
func SumSubtotals(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	return total
}
