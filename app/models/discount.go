package models

import "github.com/shopspring/decimal"

// AppliedDiscount is the single promotional code bound to a cart.
type AppliedDiscount struct {
	Code        string          `json:"code"`
	AmountSaved decimal.Decimal `json:"amountSaved"`
}

// Discount is a code the customer may apply.
type Discount struct {
	ID                ID              `json:"id"`
	Code              string          `json:"code"`
	Description       string          `json:"description"`
	DiscountType      string          `json:"discountType"`
	Value             decimal.Decimal `json:"value"`
	MinPurchaseAmount decimal.Decimal `json:"minPurchaseAmount"`
}

const (
	DiscountTypePercentage = "PERCENTAGE"
	DiscountTypeFixed      = "FIXED_AMOUNT"
)
