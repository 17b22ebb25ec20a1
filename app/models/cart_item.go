package models

import "github.com/shopspring/decimal"

type CartItem struct {
	ID              ID              `json:"cartItemId"`
	ProductID       ID              `json:"productId"`
	ProductName     string          `json:"productName"`
	ImageURL        string          `json:"imageUrl"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	CarbonFootprint decimal.Decimal `json:"carbonFootprint"`
}

// LineTotal prefers the backend subtotal and falls back to price × quantity.
func (ci CartItem) LineTotal() decimal.Decimal {
	if !ci.Subtotal.IsZero() {
		return ci.Subtotal
	}
	return ci.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}
