package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/helpers"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models/other"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/breadcrumb"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

type ProfileHandler struct {
	render *render.Render
}

func NewProfileHandler(r *render.Render) *ProfileHandler {
	return &ProfileHandler{render: r}
}

func (h *ProfileHandler) EcoPointsHistory(w http.ResponseWriter, r *http.Request) {
	history, err := helpers.Shopper(r).Backend.EcoPointsHistory(r.Context())
	if err != nil {
		log.Printf("ProfileHandler.EcoPointsHistory: %v", err)
	}

	pageSpecificData := map[string]interface{}{
		"Title":       "Eco points",
		"Breadcrumbs": profileCrumbs(breadcrumb.Breadcrumb{Name: "Eco points", URL: "/profile/eco-points"}),
		"History":     history,
		"LoadFailed":  err != nil,
	}
	_ = h.render.HTML(w, http.StatusOK, "eco_points", helpers.GetBaseData(r, pageSpecificData))
}

func (h *ProfileHandler) Settings(w http.ResponseWriter, r *http.Request) {
	pageSpecificData := map[string]interface{}{
		"Title":       "Security & settings",
		"Breadcrumbs": profileCrumbs(breadcrumb.Breadcrumb{Name: "Settings", URL: "/profile/settings"}),
		"Profile":     helpers.Shopper(r).Identity.User(),
	}
	_ = h.render.HTML(w, http.StatusOK, "settings", helpers.GetBaseData(r, pageSpecificData))
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("ProfileHandler.UpdateProfile: Error parsing form: %v", err)
		helpers.Redirect(w, r, "/profile/settings", "error", "Could not read the form.")
		return
	}

	_, err := helpers.Shopper(r).Identity.UpdateProfile(r.Context(), other.UpdateProfileRequest{
		Name:  r.FormValue("name"),
		Email: r.FormValue("email"),
	})
	if err != nil {
		failRedirect(w, r, "ProfileHandler.UpdateProfile", err, "/profile/settings", formMessage(err, "Name", "Email"))
		return
	}
	helpers.Redirect(w, r, "/profile/settings", "success", "Profile updated successfully!")
}

func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("ProfileHandler.ChangePassword: Error parsing form: %v", err)
		helpers.Redirect(w, r, "/profile/settings", "error", "Could not read the form.")
		return
	}

	if r.FormValue("new_password") != r.FormValue("confirm_password") {
		helpers.Redirect(w, r, "/profile/settings", "error", "New passwords do not match.")
		return
	}

	err := helpers.Shopper(r).Identity.ChangePassword(r.Context(), other.ChangePasswordRequest{
		CurrentPassword: r.FormValue("current_password"),
		NewPassword:     r.FormValue("new_password"),
	})
	if err != nil {
		failRedirect(w, r, "ProfileHandler.ChangePassword", err, "/profile/settings", formMessage(err, "CurrentPassword", "NewPassword"))
		return
	}
	helpers.Redirect(w, r, "/profile/settings", "success", "Password changed successfully!")
}

// formMessage is empty unless err is a validation failure, leaving the
// backend's own message to failRedirect.
func formMessage(err error, fields ...string) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return ""
	}
	return helpers.FirstValidationError(errs, fields...)
}

func profileCrumbs(extra ...breadcrumb.Breadcrumb) []breadcrumb.Breadcrumb {
	return breadcrumb.Trail(append([]breadcrumb.Breadcrumb{{Name: "Profile", URL: "/profile"}}, extra...)...)
}
