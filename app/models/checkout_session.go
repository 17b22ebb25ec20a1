package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutState string

const (
	CheckoutNoAddress         CheckoutState = "no_address"
	CheckoutAddressSelected   CheckoutState = "address_selected"
	CheckoutShippingConfirmed CheckoutState = "shipping_confirmed"
	CheckoutShippingFailed    CheckoutState = "shipping_failed"
	CheckoutPaymentReady      CheckoutState = "payment_ready"
	CheckoutSubmitting        CheckoutState = "submitting"
	CheckoutComplete          CheckoutState = "complete"
)

const (
	PaymentMethodCard = "card"
	PaymentMethodUPI  = "upi"
	PaymentMethodCOD  = "cod"
)

// CheckoutSession is the in-progress checkout of one browser session. It spans
// several requests, so it is persisted between them.
type CheckoutSession struct {
	ID                string          `gorm:"size:36;not null;primary_key"`
	UserID            string          `gorm:"size:64;index"`
	State             CheckoutState   `gorm:"size:32;not null"`
	SelectedAddressID string          `gorm:"size:64"`
	HasQuote          bool            `gorm:"default:false"`
	QuoteName         string          `gorm:"size:255"`
	QuoteCost         decimal.Decimal `gorm:"type:decimal(16,2);"`
	QuoteCarbon       decimal.Decimal `gorm:"type:decimal(16,4);"`
	PaymentMethod     string          `gorm:"size:16"`
	ShippingConfirmed bool            `gorm:"default:false"`
	LastError         string          `gorm:"type:text"`
	OrderID           string          `gorm:"size:64"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewCheckoutSession(id, userID string) *CheckoutSession {
	return &CheckoutSession{
		ID:            id,
		UserID:        userID,
		State:         CheckoutNoAddress,
		PaymentMethod: PaymentMethodCard,
	}
}

func (s *CheckoutSession) Quote() (ShippingQuote, bool) {
	if s == nil || !s.HasQuote {
		return ShippingQuote{}, false
	}
	return ShippingQuote{Name: s.QuoteName, Cost: s.QuoteCost, CarbonFootprint: s.QuoteCarbon}, true
}

func (s *CheckoutSession) SetQuote(q ShippingQuote) {
	s.HasQuote = true
	s.QuoteName = q.Name
	s.QuoteCost = q.Cost
	s.QuoteCarbon = q.CarbonFootprint
}

func (s *CheckoutSession) ClearQuote() {
	s.HasQuote = false
	s.QuoteName = ""
	s.QuoteCost = decimal.Zero
	s.QuoteCarbon = decimal.Zero
}

// PaymentUnlocked reports whether the payment surface may be shown.
func (s *CheckoutSession) PaymentUnlocked() bool {
	return s != nil && s.ShippingConfirmed &&
		(s.State == CheckoutShippingConfirmed || s.State == CheckoutPaymentReady)
}
