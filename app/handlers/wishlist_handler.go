package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/helpers"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/breadcrumb"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type WishlistHandler struct {
	render *render.Render
}

func NewWishlistHandler(r *render.Render) *WishlistHandler {
	return &WishlistHandler{render: r}
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	products, err := helpers.Shopper(r).Backend.Wishlist(r.Context())
	if err != nil {
		log.Printf("WishlistHandler.GetWishlist: %v", err)
	}

	pageSpecificData := map[string]interface{}{
		"Title":       "My wishlist",
		"Breadcrumbs": profileCrumbs(breadcrumb.Breadcrumb{Name: "Wishlist", URL: "/profile/wishlist"}),
		"Products":    products,
		"LoadFailed":  err != nil,
	}
	_ = h.render.HTML(w, http.StatusOK, "wishlist", helpers.GetBaseData(r, pageSpecificData))
}

func (h *WishlistHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("WishlistHandler.AddToWishlist: Error parsing form: %v", err)
		helpers.Redirect(w, r, "/products", "error", "Could not read the form.")
		return
	}

	productID := models.ID(strings.TrimSpace(r.FormValue("product_id")))
	back := returnPath(r, "/profile/wishlist")
	if productID == "" {
		helpers.Redirect(w, r, back, "error", "Pick a product first.")
		return
	}
	if err := helpers.Shopper(r).Backend.AddToWishlist(r.Context(), productID); err != nil {
		failRedirect(w, r, "WishlistHandler.AddToWishlist", err, back, "")
		return
	}
	helpers.Redirect(w, r, back, "success", "Saved to your wishlist.")
}

func (h *WishlistHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	productID := models.ID(mux.Vars(r)["id"])
	if err := helpers.Shopper(r).Backend.RemoveFromWishlist(r.Context(), productID); err != nil {
		failRedirect(w, r, "WishlistHandler.RemoveFromWishlist", err, "/profile/wishlist", "")
		return
	}
	helpers.Redirect(w, r, "/profile/wishlist", "success", "Removed from your wishlist.")
}
