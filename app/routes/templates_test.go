package routes

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/configs"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/services"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/renderer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderCheckout(t *testing.T, view services.CheckoutView, widget configs.PaymentWidget) string {
	t.Helper()

	r := renderer.New("../../templates", false)
	rec := httptest.NewRecorder()
	require.NoError(t, r.HTML(rec, http.StatusOK, "checkout", map[string]interface{}{
		"Title":     "Checkout",
		"CSRFField": template.HTML(`<input type="hidden" name="csrf_token" value="t">`),
		"Checkout":  view,
		"Cart":      view.Cart,
		"EcoPoints": 120,
		"Widget":    widget,
	}))
	return rec.Body.String()
}

func checkoutView(state models.CheckoutState, unlocked bool) services.CheckoutView {
	return services.CheckoutView{
		State: state,
		Cart: &models.Cart{
			Items:    []models.CartItem{{ID: "11", ProductName: "Jute Bag", Price: decimal.NewFromInt(250), Quantity: 1, Subtotal: decimal.NewFromInt(250)}},
			Subtotal: decimal.NewFromInt(250),
		},
		Addresses:         []models.Address{{ID: "101", Label: "Home", Street: "12 MG Road", City: "Pune", IsDefault: true}},
		SelectedAddressID: "101",
		PaymentMethod:     models.PaymentMethodCard,
		PaymentMethods:    services.PaymentMethods,
		PaymentUnlocked:   unlocked,
	}
}

func TestCheckoutPaymentControlsInertUntilShippingConfirmed(t *testing.T) {
	body := renderCheckout(t, checkoutView(models.CheckoutShippingFailed, false), configs.PaymentWidget{Provider: configs.PaymentProviderStripe})

	assert.Contains(t, body, `disabled title="Confirm shipping first">Credit / Debit Card</button>`)
	assert.NotContains(t, body, `id="payment-form"`)
	assert.NotContains(t, body, "js.stripe.com")
	assert.Contains(t, body, "Shipping could not be confirmed")
}

func TestCheckoutMidtransCardFormStaysInBrowser(t *testing.T) {
	widget := configs.PaymentWidget{
		Provider:    configs.PaymentProviderMidtrans,
		ClientKey:   "client-key",
		ScriptURL:   "https://api.sandbox.midtrans.com/v2/assets/js/midtrans-new-3ds.min.js",
		Environment: "sandbox",
	}
	body := renderCheckout(t, checkoutView(models.CheckoutPaymentReady, true), widget)

	assert.Contains(t, body, `id="payment-form"`)
	assert.Contains(t, body, `id="card-number"`)
	assert.Contains(t, body, `id="card-cvv"`)
	assert.NotContains(t, body, `name="card_number"`)
	assert.NotContains(t, body, "window.prompt")
	assert.NotContains(t, body, `disabled title="Confirm shipping first"`)
}
