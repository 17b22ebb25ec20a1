package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/helpers"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models/other"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/services"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/breadcrumb"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/sessions"
	"github.com/unrolled/render"
)

type AuthHandler struct {
	render       *render.Render
	sessionStore sessions.SessionStore
	registry     *services.SessionRegistry
}

func NewAuthHandler(r *render.Render, sessionStore sessions.SessionStore, registry *services.SessionRegistry) *AuthHandler {
	return &AuthHandler{
		render:       r,
		sessionStore: sessionStore,
		registry:     registry,
	}
}

func (h *AuthHandler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	if helpers.Shopper(r).Identity.IsAuthenticated() {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	pageSpecificData := map[string]interface{}{
		"Title":       "Login",
		"Breadcrumbs": breadcrumb.Trail(breadcrumb.Breadcrumb{Name: "Login", URL: "/login"}),
		"IsAuthPage":  true,
	}
	_ = h.render.HTML(w, http.StatusOK, "auth/login", helpers.GetBaseData(r, pageSpecificData))
}

func (h *AuthHandler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("LoginPostHandler: Error parsing form: %v", err)
		helpers.Redirect(w, r, "/login", "error", "Could not read the form.")
		return
	}

	shopper := helpers.Shopper(r)
	user, err := shopper.Identity.Login(r.Context(), other.LoginRequest{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	})
	if err != nil {
		log.Printf("LoginPostHandler: login failed for %q: %v", r.FormValue("email"), err)
		helpers.Redirect(w, r, "/login", "error", loginMessage(err))
		return
	}

	h.startSession(w, r, shopper, user)
}

func (h *AuthHandler) RegisterGetHandler(w http.ResponseWriter, r *http.Request) {
	if helpers.Shopper(r).Identity.IsAuthenticated() {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	pageSpecificData := map[string]interface{}{
		"Title":       "Create an account",
		"Breadcrumbs": breadcrumb.Trail(breadcrumb.Breadcrumb{Name: "Register", URL: "/register"}),
		"IsAuthPage":  true,
	}
	_ = h.render.HTML(w, http.StatusOK, "auth/register", helpers.GetBaseData(r, pageSpecificData))
}

func (h *AuthHandler) RegisterPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("RegisterPostHandler: Error parsing form: %v", err)
		helpers.Redirect(w, r, "/register", "error", "Could not read the form.")
		return
	}

	if r.FormValue("password") != r.FormValue("confirm_password") {
		helpers.Redirect(w, r, "/register", "error", "Passwords do not match.")
		return
	}

	shopper := helpers.Shopper(r)
	user, err := shopper.Identity.Register(r.Context(), other.RegisterRequest{
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
	})
	if err != nil {
		log.Printf("RegisterPostHandler: registration failed for %q: %v", r.FormValue("email"), err)
		helpers.Redirect(w, r, "/register", "error", loginMessage(err))
		return
	}

	h.startSession(w, r, shopper, user)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, shopper *services.ShopperSession, user *models.User) {
	if err := h.sessionStore.SetToken(w, r, shopper.Identity.Token()); err != nil {
		log.Printf("AuthHandler.startSession: Error saving token to cookie: %v", err)
	}

	target := "/products"
	if user.HasRole(models.RoleCustomer) && shopper.Cart.ItemCount() > 0 {
		target = "/cart"
	}
	helpers.Redirect(w, r, target, "success", fmt.Sprintf("Welcome, %s!", user.DisplayName()))
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	shopper := helpers.Shopper(r)
	shopper.Identity.Logout(r.Context())
	h.registry.Forget(shopper.ID)

	if err := h.sessionStore.ClearSession(w, r); err != nil {
		log.Printf("LogoutHandler: Error clearing session: %v", err)
	}
	helpers.Redirect(w, r, "/login", "success", "You have been logged out.")
}

func loginMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrMissingCredentials), errors.Is(err, services.ErrInvalidRegistration):
		return err.Error()
	}
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusUnauthorized {
			return "Invalid email or password."
		}
		if apiErr.Rejected() {
			return apiErr.Message
		}
	}
	return "Could not reach the store right now, please try again."
}
