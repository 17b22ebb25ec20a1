package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/helpers"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/breadcrumb"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type CartHandler struct {
	render *render.Render
}

func NewCartHandler(r *render.Render) *CartHandler {
	return &CartHandler{render: r}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cart := helpers.Shopper(r).Cart

	cart.Load(ctx)
	discounts, err := cart.AvailableDiscounts(ctx)
	if err != nil {
		log.Printf("CartHandler.GetCart: %v", err)
	}

	current := cart.Cart()
	pageSpecificData := map[string]interface{}{
		"Title":       "Your cart",
		"Breadcrumbs": breadcrumb.Trail(breadcrumb.Breadcrumb{Name: "Cart", URL: "/cart"}),
		"Cart":        current,
		"IsEmpty":     current.IsEmpty(),
		"Discounts":   discounts,
	}
	_ = h.render.HTML(w, http.StatusOK, "cart", helpers.GetBaseData(r, pageSpecificData))
}

func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("CartHandler.AddToCart: Error parsing form: %v", err)
		helpers.Redirect(w, r, "/products", "error", "Could not read the form.")
		return
	}

	productID := models.ID(strings.TrimSpace(r.FormValue("product_id")))
	qty, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		qty = 1
	}

	back := returnPath(r, "/products")
	if _, err := helpers.Shopper(r).Cart.AddToCart(r.Context(), productID, qty); err != nil {
		failRedirect(w, r, "CartHandler.AddToCart", err, back, "")
		return
	}
	helpers.Redirect(w, r, back, "success", "Added to your cart.")
}

// UpdateCartItem ignores quantities below one; removal has its own action.
func (h *CartHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	itemID := models.ID(mux.Vars(r)["id"])
	qty, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil || qty < 1 {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	if _, err := helpers.Shopper(r).Cart.UpdateCartItem(r.Context(), itemID, qty); err != nil {
		failRedirect(w, r, "CartHandler.UpdateCartItem", err, "/cart", "")
		return
	}
	helpers.Redirect(w, r, "/cart", "success", "Cart updated.")
}

func (h *CartHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	itemID := models.ID(mux.Vars(r)["id"])
	if _, err := helpers.Shopper(r).Cart.RemoveFromCart(r.Context(), itemID); err != nil {
		failRedirect(w, r, "CartHandler.RemoveCartItem", err, "/cart", "")
		return
	}
	helpers.Redirect(w, r, "/cart", "success", "Item removed.")
}

func (h *CartHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("CartHandler.ApplyDiscount: Error parsing form: %v", err)
		helpers.Redirect(w, r, "/cart", "error", "Could not read the form.")
		return
	}

	result, err := helpers.Shopper(r).Cart.ApplyDiscount(r.Context(), r.FormValue("code"))
	if err != nil {
		failRedirect(w, r, "CartHandler.ApplyDiscount", err, "/cart", "Discount could not be applied right now.")
		return
	}
	if !result.Applied {
		helpers.Redirect(w, r, "/cart", "error", result.Reason)
		return
	}
	helpers.Redirect(w, r, "/cart", "success", "Discount applied.")
}

// GetCartCount serves the header badge.
func (h *CartHandler) GetCartCount(w http.ResponseWriter, r *http.Request) {
	count := 0
	if shopper := helpers.Shopper(r); shopper != nil {
		count = shopper.Cart.ItemCount()
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]int{"count": count})
}

// returnPath honours a local return_to form value.
func returnPath(r *http.Request, fallback string) string {
	target := r.FormValue("return_to")
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return fallback
	}
	return target
}
