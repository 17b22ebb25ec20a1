package middlewares

import (
	"log"
	"net/http"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/helpers"
)

// RequireAuth lets only signed-in shoppers through.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shopper := helpers.Shopper(r)
		if shopper == nil || !shopper.Identity.IsAuthenticated() {
			log.Printf("RequireAuth: anonymous request to %s. Redirecting to login.", r.URL.Path)
			helpers.Redirect(w, r, "/login", "error", "Please log in to continue.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole checks authentication and role separately: being signed in is
// not enough, a seller or admin must not reach customer flows.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			shopper := helpers.Shopper(r)
			if !shopper.Identity.HasRole(role) {
				log.Printf("RequireRole: user %s lacks %s for %s", shopper.Identity.User().ID, role, r.URL.Path)
				helpers.Redirect(w, r, "/products", "error", "Your account is not allowed to use this page.")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
