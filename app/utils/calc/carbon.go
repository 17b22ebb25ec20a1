package calc

import "github.com/shopspring/decimal"

type CarbonLevel struct {
	Label    string
	Severity string
}

var (
	lowImpactBelow    = decimal.NewFromInt(5)
	mediumImpactBelow = decimal.NewFromInt(15)
)

// ClassifyCarbon buckets a footprint in kg CO₂e for display.
func ClassifyCarbon(kg decimal.Decimal) CarbonLevel {
	switch {
	case kg.LessThan(lowImpactBelow):
		return CarbonLevel{Label: "Low Impact", Severity: "success"}
	case kg.LessThan(mediumImpactBelow):
		return CarbonLevel{Label: "Medium Impact", Severity: "warning"}
	default:
		return CarbonLevel{Label: "High Impact", Severity: "error"}
	}
}

// EcoPointsWalletValue converts eco points to their wallet value (0.10 each).
func EcoPointsWalletValue(points int) decimal.Decimal {
	return decimal.NewFromInt(int64(points)).Mul(decimal.NewFromFloat(0.10))
}
