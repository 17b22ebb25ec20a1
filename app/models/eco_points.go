package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// EcoPointsTransaction is one entry of the eco points ledger. Older backend
// builds send points/description/createdAt instead of
// pointsChanged/reason/transactionDate.
type EcoPointsTransaction struct {
	ID              ID     `json:"id"`
	Reason          string `json:"reason"`
	Description     string `json:"description"`
	PointsChanged   int    `json:"pointsChanged"`
	Points          int    `json:"points"`
	TransactionDate string `json:"transactionDate"`
	CreatedAt       string `json:"createdAt"`
}

func (t EcoPointsTransaction) Delta() int {
	if t.PointsChanged != 0 {
		return t.PointsChanged
	}
	return t.Points
}

func (t EcoPointsTransaction) Label() string {
	if t.Reason != "" {
		return t.Reason
	}
	return t.Description
}

// Day is the date part of the timestamp.
func (t EcoPointsTransaction) Day() string {
	when := t.TransactionDate
	if when == "" {
		when = t.CreatedAt
	}
	day, _, _ := strings.Cut(when, "T")
	return day
}

type ProfileInsights struct {
	TotalOrders         int             `json:"totalOrders"`
	ActiveOrderCount    int             `json:"activeOrderCount"`
	CurrentEcoPoints    int             `json:"currentEcoPoints"`
	LifetimeTotalCarbon decimal.Decimal `json:"lifetimeTotalCarbon"`
}
