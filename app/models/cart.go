package models

import "github.com/shopspring/decimal"

// Cart is the backend's authoritative view of a customer's pending purchase.
// ShippingCost and TaxAmount stay nil until an address has been confirmed with
// the backend.
type Cart struct {
	ID                   ID               `json:"cartId,omitempty"`
	Items                []CartItem       `json:"items"`
	Subtotal             decimal.Decimal  `json:"productsTotalAmount"`
	ShippingCost         *decimal.Decimal `json:"shippingCost"`
	TaxAmount            *decimal.Decimal `json:"taxAmount"`
	Discount             *AppliedDiscount `json:"appliedDiscount"`
	GrandTotal           *decimal.Decimal `json:"grandTotal"`
	TotalCarbonFootprint decimal.Decimal  `json:"totalCarbonFootprint"`
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// ItemCount sums quantities, not lines.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// FallbackTotal is the same-session sum of line subtotals. It is only shown
// when the backend did not send a grand total.
func (c *Cart) FallbackTotal() decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// Total returns the server grand total, or the fallback sum when absent.
func (c *Cart) Total() decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	if c.GrandTotal != nil {
		return *c.GrandTotal
	}
	return c.FallbackTotal()
}

func (c *Cart) ShippingConfirmed() bool {
	return c != nil && c.ShippingCost != nil
}

func (c *Cart) FindItem(id ID) (CartItem, bool) {
	if c == nil {
		return CartItem{}, false
	}
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return CartItem{}, false
}
