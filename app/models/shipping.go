package models

import "github.com/shopspring/decimal"

// ShippingQuote is a priced, carbon-scored delivery option for one address.
type ShippingQuote struct {
	Name            string          `json:"name"`
	Cost            decimal.Decimal `json:"cost"`
	CarbonFootprint decimal.Decimal `json:"carbonFootprint"`
}
