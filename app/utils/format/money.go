package format

import (
	"fmt"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var rupee = accounting.NewAccounting("₹", 2, ",", ".", "%s%v", "-%s%v", "%s%v")

func Money(amount decimal.Decimal) string {
	return rupee.FormatMoneyDecimal(amount)
}

// OptionalMoney renders a nil amount as a placeholder; shipping and tax are
// nil until the backend has confirmed an address.
func OptionalMoney(amount *decimal.Decimal, placeholder string) string {
	if amount == nil {
		return placeholder
	}
	return Money(*amount)
}

func Carbon(kg decimal.Decimal) string {
	return fmt.Sprintf("%s kg CO₂e", kg.StringFixed(2))
}
