package middlewares

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/helpers"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/repositories"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newShopper restores a session whose /profile/me answers with profile. An
// empty profile leaves the shopper anonymous.
func newShopper(t *testing.T, profile string) *services.ShopperSession {
	t.Helper()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/profile/me":
			io.WriteString(w, profile)
		case "/api/v1/cart":
			io.WriteString(w, `{"items": [{"cartItemId": 1, "quantity": 3}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(backend.Close)

	client := services.NewBackendClient(backend.URL+"/api/v1", 5*time.Second)
	registry := services.NewSessionRegistry(client, repositories.NewMemoryCheckoutSessionRepository())

	token := ""
	if profile != "" {
		token = "tok"
	}
	return registry.Get(context.Background(), "sess", token)
}

func serveGated(t *testing.T, gate func(http.Handler) http.Handler, shopper *services.ShopperSession) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	reached := false
	h := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	if shopper != nil {
		req = req.WithContext(helpers.WithShopper(req.Context(), shopper))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, reached
}

func redirectPath(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	return loc.Path
}

func TestRequireRoleAnonymousGoesToLogin(t *testing.T) {
	rec, reached := serveGated(t, RequireRole(models.RoleCustomer), newShopper(t, ""))

	assert.False(t, reached)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", redirectPath(t, rec))
}

func TestRequireRoleWithoutSession(t *testing.T) {
	rec, reached := serveGated(t, RequireRole(models.RoleCustomer), nil)

	assert.False(t, reached)
	assert.Equal(t, "/login", redirectPath(t, rec))
}

func TestRequireRoleSellerIsTurnedAway(t *testing.T) {
	seller := newShopper(t, `{"id": 8, "email": "vik@example.com", "roles": ["ROLE_SELLER"]}`)
	require.True(t, seller.Identity.IsAuthenticated())

	rec, reached := serveGated(t, RequireRole(models.RoleCustomer), seller)

	assert.False(t, reached, "authenticated without the role must not pass")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/products", redirectPath(t, rec))
	assert.Equal(t, 0, seller.Cart.ItemCount())
}

func TestRequireRoleCustomerPasses(t *testing.T) {
	customer := newShopper(t, `{"id": 7, "email": "asha@example.com", "roles": [{"authority": "ROLE_CUSTOMER"}]}`)

	rec, reached := serveGated(t, RequireRole(models.RoleCustomer), customer)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthAcceptsAnyRole(t *testing.T) {
	seller := newShopper(t, `{"id": 8, "roles": ["ROLE_SELLER"]}`)

	_, reached := serveGated(t, RequireAuth, seller)
	assert.True(t, reached)
}

func TestCartCountMiddleware(t *testing.T) {
	customer := newShopper(t, `{"id": 7, "roles": ["ROLE_CUSTOMER"]}`)

	var count interface{}
	h := CartCountMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count = r.Context().Value(helpers.CartCountKey)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req.WithContext(helpers.WithShopper(req.Context(), customer)))
	assert.Equal(t, 3, count)
}

func TestMethodOverrideMiddleware(t *testing.T) {
	var method string
	h := MethodOverrideMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
	}))

	req := httptest.NewRequest(http.MethodPost, "/cart/items/1", nil)
	req.PostForm = url.Values{"_method": {"delete"}}
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, http.MethodDelete, method)

	req = httptest.NewRequest(http.MethodPost, "/cart/items/1", nil)
	req.PostForm = url.Values{"_method": {"GET"}}
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, http.MethodPost, method)
}
