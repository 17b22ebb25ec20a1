package middlewares

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/helpers"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/services"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/sessions"
	"github.com/gorilla/csrf"
)

// ShopperMiddleware attaches the browser's ShopperSession to the request.
// A token the backend no longer accepts is removed from the cookie.
func ShopperMiddleware(store sessions.SessionStore, registry *services.SessionRegistry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := store.SessionID(w, r)
			if err != nil {
				log.Printf("ShopperMiddleware: Error issuing session id on %s: %v", r.URL.Path, err)
				http.Error(w, "could not start a session", http.StatusInternalServerError)
				return
			}

			token := store.GetToken(r)
			shopper := registry.Get(r.Context(), sessionID, token)

			if token != "" && shopper.Identity.Token() != token {
				if err := store.ClearToken(w, r); err != nil {
					log.Printf("ShopperMiddleware: Error clearing stale token: %v", err)
				}
			}

			next.ServeHTTP(w, r.WithContext(helpers.WithShopper(r.Context(), shopper)))
		})
	}
}

func CartCountMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := 0
		if shopper := helpers.Shopper(r); shopper != nil {
			count = shopper.Cart.ItemCount()
		}
		ctx := context.WithValue(r.Context(), helpers.CartCountKey, count)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func MethodOverrideMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_ = r.ParseForm()
			override := strings.ToUpper(r.Form.Get("_method"))
			if override == http.MethodPut || override == http.MethodPatch || override == http.MethodDelete {
				r.Method = override
			}
		}
		next.ServeHTTP(w, r)
	})
}

// PlaintextCSRFMiddleware marks requests as plain HTTP so the CSRF origin
// check works behind http://localhost during development.
func PlaintextCSRFMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
