package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/helpers"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/services"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/breadcrumb"
	"github.com/unrolled/render"
)

type HomeHandler struct {
	render   *render.Render
	registry *services.SessionRegistry
}

func NewHomeHandler(r *render.Render, registry *services.SessionRegistry) *HomeHandler {
	return &HomeHandler{render: r, registry: registry}
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/products", http.StatusFound)
}

const recentActivityLimit = 5

// Profile refreshes the user from the backend so eco points are current.
func (h *HomeHandler) Profile(w http.ResponseWriter, r *http.Request) {
	shopper := helpers.Shopper(r)
	user := shopper.Identity.User()
	fresh, err := shopper.Identity.Refresh(r.Context())
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		failRedirect(w, r, "HomeHandler.Profile", err, "/login", "")
		return
	case err != nil:
		log.Printf("HomeHandler.Profile: using cached profile: %v", err)
	default:
		user = fresh
	}
	if user == nil {
		helpers.Redirect(w, r, "/login", "error", "Your session has expired. Please log in again.")
		return
	}

	state, confirmed, err := shopper.Checkout.State(r.Context())
	if err != nil {
		log.Printf("HomeHandler.Profile: %v", err)
	}

	insights, err := shopper.Backend.ProfileInsights(r.Context())
	if err != nil {
		log.Printf("HomeHandler.Profile: insights: %v", err)
		insights = &models.ProfileInsights{CurrentEcoPoints: user.EcoPoints}
	}
	activity, err := shopper.Backend.EcoPointsHistory(r.Context())
	if err != nil {
		log.Printf("HomeHandler.Profile: eco points history: %v", err)
	}
	if len(activity) > recentActivityLimit {
		activity = activity[:recentActivityLimit]
	}

	pageSpecificData := map[string]interface{}{
		"Title":             "My profile",
		"Breadcrumbs":       breadcrumb.Trail(breadcrumb.Breadcrumb{Name: "Profile", URL: "/profile"}),
		"Profile":           user,
		"Insights":          insights,
		"RecentActivity":    activity,
		"CheckoutState":     state,
		"ShippingConfirmed": confirmed,
	}
	_ = h.render.HTML(w, http.StatusOK, "profile", helpers.GetBaseData(r, pageSpecificData))
}

func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": h.registry.Len(),
	})
}
