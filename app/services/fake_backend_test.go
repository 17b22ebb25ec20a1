package services

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	cartBeforeShipping = `{
		"cartId": 1,
		"items": [{"cartItemId": 11, "productId": 5, "productName": "Bamboo Toothbrush",
			"price": 500, "quantity": 2, "subtotal": 1000, "carbonFootprint": 0.6}],
		"productsTotalAmount": 1000,
		"shippingCost": null,
		"taxAmount": null,
		"grandTotal": 1000,
		"totalCarbonFootprint": 1.2
	}`
	cartShippedToA = `{
		"cartId": 1,
		"items": [{"cartItemId": 11, "productId": 5, "productName": "Bamboo Toothbrush",
			"price": 500, "quantity": 2, "subtotal": 1000, "carbonFootprint": 0.6}],
		"productsTotalAmount": 1000,
		"shippingCost": 50,
		"taxAmount": 180,
		"grandTotal": 1230,
		"totalCarbonFootprint": 1.7
	}`
	cartWithDiscount = `{
		"cartId": 1,
		"items": [{"cartItemId": 11, "productId": 5, "productName": "Bamboo Toothbrush",
			"price": 500, "quantity": 2, "subtotal": 1000, "carbonFootprint": 0.6}],
		"productsTotalAmount": 1000,
		"appliedDiscount": {"code": "GREEN10", "amountSaved": 100},
		"grandTotal": 900,
		"totalCarbonFootprint": 1.2
	}`
	cartThreeItems = `{
		"cartId": 1,
		"items": [{"cartItemId": 11, "productId": 5, "productName": "Bamboo Toothbrush",
			"price": 500, "quantity": 3, "subtotal": 1500, "carbonFootprint": 0.6}],
		"productsTotalAmount": 1500,
		"grandTotal": 1500,
		"totalCarbonFootprint": 1.8
	}`
	emptyCart = `{"cartId": 1, "items": [], "productsTotalAmount": 0, "totalCarbonFootprint": 0}`

	twoAddresses = `[
		{"id": 101, "label": "Home", "street": "12 MG Road", "city": "Pune", "state": "MH",
			"postalCode": "411001", "country": "India", "isDefault": true},
		{"id": 102, "label": "Office", "street": "4 Park St", "city": "Mumbai", "state": "MH",
			"postalCode": "400001", "country": "India", "isDefault": false}
	]`
	quotesForA = `[{"name": "Standard", "cost": 50, "carbonFootprint": 0.5}]`
	quotesForB = `[{"name": "Express", "cost": 80, "carbonFootprint": 0.9}]`

	customerJSON = `{"id": 7, "firstName": "Asha", "lastName": "Rao", "email": "asha@example.com",
		"ecoPoints": 120, "roles": [{"name": "ROLE_CUSTOMER"}]}`
	sellerJSON = `{"id": 8, "firstName": "Vik", "email": "vik@example.com", "roles": ["ROLE_SELLER"]}`
)

// fakeBackend is an httptest server standing in for the REST API. Every
// request is recorded as "METHOD /path" with the /api/v1 prefix removed.
type fakeBackend struct {
	*httptest.Server
	mux *http.ServeMux

	mu     sync.Mutex
	calls  []string
	bodies map[string]string
	auth   []string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	f := &fakeBackend{mux: http.NewServeMux(), bodies: make(map[string]string)}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		call := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api/v1")

		f.mu.Lock()
		f.calls = append(f.calls, call)
		f.bodies[call] = string(body)
		f.auth = append(f.auth, r.Header.Get("Authorization"))
		f.mu.Unlock()

		r.Body = io.NopCloser(strings.NewReader(string(body)))
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeBackend) client() *BackendClient {
	return NewBackendClient(f.URL+"/api/v1", 5*time.Second)
}

func (f *fakeBackend) respond(pattern string, status int, body string) {
	f.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	})
}

func (f *fakeBackend) handle(pattern string, fn http.HandlerFunc) {
	f.mux.HandleFunc(pattern, fn)
}

func (f *fakeBackend) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) body(call string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[call]
}

func (f *fakeBackend) lastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.auth) == 0 {
		return ""
	}
	return f.auth[len(f.auth)-1]
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

// fixedToken is a TokenSource that remembers whether it was invalidated.
type fixedToken struct {
	mu          sync.Mutex
	token       string
	invalidated bool
}

func (t *fixedToken) Token() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

func (t *fixedToken) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
	t.invalidated = true
}
