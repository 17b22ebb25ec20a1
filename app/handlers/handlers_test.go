package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/helpers"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/repositories"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/services"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/renderer"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"github.com/unrolled/render"
)

const (
	customerProfile = `{"id": 7, "firstName": "Asha", "lastName": "Rao", "email": "asha@example.com",
		"ecoPoints": 120, "roles": ["ROLE_CUSTOMER"]}`
	oneItemCart = `{"cartId": 1,
		"items": [{"cartItemId": 11, "productId": 5, "productName": "Bamboo Toothbrush",
			"price": 500, "quantity": 2, "subtotal": 1000, "carbonFootprint": 0.6}],
		"productsTotalAmount": 1000, "shippingCost": null, "taxAmount": null,
		"grandTotal": 1000, "totalCarbonFootprint": 1.2}`
	shippedCart = `{"cartId": 1,
		"items": [{"cartItemId": 11, "productId": 5, "productName": "Bamboo Toothbrush",
			"price": 500, "quantity": 2, "subtotal": 1000, "carbonFootprint": 0.6}],
		"productsTotalAmount": 1000, "shippingCost": 50, "taxAmount": 180,
		"grandTotal": 1230, "totalCarbonFootprint": 1.7}`
	noItemsCart = `{"cartId": 1, "items": [], "productsTotalAmount": 0, "totalCarbonFootprint": 0}`
	addressBook = `[{"id": 101, "label": "Home", "street": "12 MG Road", "city": "Pune", "state": "MH",
		"postalCode": "411001", "country": "India", "isDefault": true}]`
	standardQuote = `[{"name": "Standard", "cost": 50, "carbonFootprint": 0.5}]`
)

// testTemplates print just enough of each page's data to assert on.
var testTemplates = map[string]string{
	"layout.html":        `{{ yield }}`,
	"products.html":      `{{ range .Products }}{{ .Name }};{{ end }}page={{ .CurrentPage }}/{{ .TotalPages }}`,
	"search.html":        `q={{ .SearchQuery }};{{ range .Products }}{{ .Name }};{{ end }}`,
	"product.html":       `{{ .Product.Name }}|{{ (carbonLevel .Carbon).Label }}`,
	"cart.html":          `empty={{ .IsEmpty }} total={{ cartTotal .Cart }} discounts={{ len .Discounts }}`,
	"checkout.html":      `state={{ .Checkout.State }} unlocked={{ .Checkout.PaymentUnlocked }} widget={{ .Widget.Provider }} points={{ .EcoPoints }}`,
	"addresses.html":     `{{ range .Addresses }}{{ .Label }};{{ end }}`,
	"address_form.html":  `{{ range $k, $v := .Page.Errors }}{{ $k }}={{ $v }};{{ end }}`,
	"orders.html":        `{{ range .Orders }}{{ .ID }};{{ end }}`,
	"order.html":         `{{ .Order.ID }}|{{ .Order.Status }}`,
	"profile.html":       `points={{ .Profile.EcoPoints }} wallet={{ walletValue .Profile.EcoPoints }} orders={{ .Insights.TotalOrders }} recent={{ len .RecentActivity }}`,
	"wishlist.html":      `{{ range .Products }}{{ .Name }};{{ end }}failed={{ .LoadFailed }}`,
	"eco_points.html":    `{{ range .History }}{{ .Label }}={{ .Delta }};{{ end }}`,
	"settings.html":      `{{ .Profile.Email }}`,
	"auth/login.html":    `login`,
	"auth/register.html": `register`,
}

func newTestRender(t *testing.T) *render.Render {
	t.Helper()
	dir := t.TempDir()
	for name, body := range testTemplates {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return renderer.New(dir, false)
}

// backend records "METHOD /path" for every call, /api/v1 stripped.
type backend struct {
	*httptest.Server
	mux *http.ServeMux

	mu    sync.Mutex
	calls []string
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{mux: http.NewServeMux()}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, r.Method+" "+strings.TrimPrefix(r.URL.Path, "/api/v1"))
		b.mu.Unlock()
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.Close)
	return b
}

func (b *backend) respond(pattern string, status int, body string) {
	b.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	})
}

func (b *backend) count(call string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (b *backend) registry() *services.SessionRegistry {
	client := services.NewBackendClient(b.URL+"/api/v1", 5*time.Second)
	return services.NewSessionRegistry(client, repositories.NewMemoryCheckoutSessionRepository())
}

// customer returns a restored customer session against b.
func (b *backend) customer(t *testing.T) *services.ShopperSession {
	t.Helper()
	shopper := b.registry().Get(context.Background(), "sess-1", "tok")
	require.True(t, shopper.Identity.IsAuthenticated())
	return shopper
}

func request(method, target string, form url.Values, shopper *services.ShopperSession, vars map[string]string) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if shopper != nil {
		req = req.WithContext(helpers.WithShopper(req.Context(), shopper))
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

// flash splits a redirect into its path and flash message.
func flash(t *testing.T, rec *httptest.ResponseRecorder) (path, status, message string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	return loc.Path, loc.Query().Get("status"), loc.Query().Get("message")
}
