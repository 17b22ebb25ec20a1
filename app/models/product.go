package models

import "github.com/shopspring/decimal"

type Product struct {
	ID                         ID              `json:"id"`
	Name                       string          `json:"name"`
	Description                string          `json:"description"`
	Price                      decimal.Decimal `json:"price"`
	StockQuantity              int             `json:"stockQuantity"`
	ImageURL                   string          `json:"imageUrl"`
	CategoryName               string          `json:"categoryName"`
	CarbonFootprint            decimal.Decimal `json:"carbonFootprint"`
	CradleToWarehouseFootprint decimal.Decimal `json:"cradleToWarehouseFootprint"`
}

// Footprint prefers the cradle-to-warehouse figure when the backend has one.
func (p Product) Footprint() decimal.Decimal {
	if !p.CradleToWarehouseFootprint.IsZero() {
		return p.CradleToWarehouseFootprint
	}
	return p.CarbonFootprint
}

// ProductPage mirrors the backend's paged listing.
type ProductPage struct {
	Content       []Product `json:"content"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int       `json:"totalElements"`
	Number        int       `json:"number"`
	Size          int       `json:"size"`
}
