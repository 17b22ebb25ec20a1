package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/configs"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/helpers"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/services"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/breadcrumb"
	"github.com/unrolled/render"
)

type CheckoutHandler struct {
	render *render.Render
	widget configs.PaymentWidget
}

func NewCheckoutHandler(r *render.Render, widget configs.PaymentWidget) *CheckoutHandler {
	return &CheckoutHandler{render: r, widget: widget}
}

func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	view, err := helpers.Shopper(r).Checkout.Begin(r.Context())
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		helpers.Redirect(w, r, "/cart", "error", "Your cart is empty.")
		return
	case errors.Is(err, services.ErrUnauthorized):
		failRedirect(w, r, "CheckoutHandler.GetCheckout", err, "/login", "")
		return
	case errors.Is(err, services.ErrShippingUnavailable):
		// Rendered with the failure shown next to the address picker.
		log.Printf("CheckoutHandler.GetCheckout: %v", err)
	case err != nil:
		failRedirect(w, r, "CheckoutHandler.GetCheckout", err, "/cart", "")
		return
	}

	h.renderCheckout(w, r, view)
}

func (h *CheckoutHandler) renderCheckout(w http.ResponseWriter, r *http.Request, view services.CheckoutView) {
	shopper := helpers.Shopper(r)
	ecoPoints := 0
	if user := shopper.Identity.User(); user != nil {
		ecoPoints = user.EcoPoints
	}

	pageSpecificData := map[string]interface{}{
		"Title": "Checkout",
		"Breadcrumbs": breadcrumb.Trail(
			breadcrumb.Breadcrumb{Name: "Cart", URL: "/cart"},
			breadcrumb.Breadcrumb{Name: "Checkout", URL: "/checkout"},
		),
		"Checkout":  view,
		"Cart":      view.Cart,
		"EcoPoints": ecoPoints,
		"Widget":    h.widget,
	}
	_ = h.render.HTML(w, http.StatusOK, "checkout", helpers.GetBaseData(r, pageSpecificData))
}

func (h *CheckoutHandler) SelectAddress(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("CheckoutHandler.SelectAddress: Error parsing form: %v", err)
		helpers.Redirect(w, r, "/checkout", "error", "Could not read the form.")
		return
	}

	addressID := models.ID(strings.TrimSpace(r.FormValue("address_id")))
	_, err := helpers.Shopper(r).Checkout.SelectAddress(r.Context(), addressID)
	switch {
	case err == nil:
		helpers.Redirect(w, r, "/checkout", "success", "Shipping confirmed for the selected address.")
	case errors.Is(err, services.ErrEmptyCart):
		helpers.Redirect(w, r, "/cart", "error", "Your cart is empty.")
	default:
		failRedirect(w, r, "CheckoutHandler.SelectAddress", err, "/checkout", "")
	}
}

func (h *CheckoutHandler) ChoosePaymentMethod(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("CheckoutHandler.ChoosePaymentMethod: Error parsing form: %v", err)
		helpers.Redirect(w, r, "/checkout", "error", "Could not read the form.")
		return
	}

	if _, err := helpers.Shopper(r).Checkout.ChoosePaymentMethod(r.Context(), r.FormValue("payment_method")); err != nil {
		failRedirect(w, r, "CheckoutHandler.ChoosePaymentMethod", err, "/checkout", "")
		return
	}
	http.Redirect(w, r, "/checkout", http.StatusSeeOther)
}

// Pay receives the payment method token the provider widget produced in the
// browser, or the widget's error when tokenization failed.
func (h *CheckoutHandler) Pay(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("CheckoutHandler.Pay: Error parsing form: %v", err)
		helpers.Redirect(w, r, "/checkout", "error", "Could not read the form.")
		return
	}

	points := 0
	if raw := strings.TrimSpace(r.FormValue("eco_points")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			helpers.Redirect(w, r, "/checkout", "error", "Eco points must be a whole number.")
			return
		}
		points = n
	}

	result, err := helpers.Shopper(r).Checkout.Submit(r.Context(), services.SubmitRequest{
		PaymentMethodID:   strings.TrimSpace(r.FormValue("payment_method_id")),
		TokenizationError: strings.TrimSpace(r.FormValue("tokenization_error")),
		EcoPointsToRedeem: points,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			helpers.Redirect(w, r, "/cart", "error", "Your cart is empty.")
			return
		}
		failRedirect(w, r, "CheckoutHandler.Pay", err, "/checkout", "")
		return
	}

	message := "Order placed. Thank you for shopping sustainably!"
	if result.Order != nil && result.Order.EcoPointsEarned > 0 {
		message = "Order placed. You earned " + strconv.Itoa(result.Order.EcoPointsEarned) + " eco points!"
	}
	helpers.Redirect(w, r, result.RedirectTo, "success", message)
}
