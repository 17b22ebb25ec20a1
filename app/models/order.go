package models

import "github.com/shopspring/decimal"

const (
	OrderStatusPending    = "PENDING"
	OrderStatusPaid       = "PAID"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

type Order struct {
	ID                   ID              `json:"id"`
	Status               string          `json:"status"`
	Items                []OrderItem     `json:"items"`
	ShippingCost         decimal.Decimal `json:"shippingCost"`
	TaxAmount            decimal.Decimal `json:"taxAmount"`
	DiscountAmount       decimal.Decimal `json:"discountAmount"`
	GrandTotal           decimal.Decimal `json:"grandTotal"`
	TotalCarbonFootprint decimal.Decimal `json:"totalCarbonFootprint"`
	EcoPointsEarned      int             `json:"ecoPointsEarned"`
	EcoPointsRedeemed    int             `json:"ecoPointsRedeemed"`
	CreatedAt            string          `json:"createdAt"`
}

type OrderItem struct {
	ProductID       ID              `json:"productId"`
	ProductName     string          `json:"productName"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	CarbonFootprint decimal.Decimal `json:"carbonFootprint"`
}
