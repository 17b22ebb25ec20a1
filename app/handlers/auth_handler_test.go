package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/sessions"
	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionStore() *sessions.CookieSessionStore {
	return sessions.NewCookieSessionStore(time.Hour, false, securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32))
}

func TestLoginStoresTokenAndLoadsCart(t *testing.T) {
	b := newBackend(t)
	b.respond("POST /api/v1/auth/login", http.StatusOK, `{"accessToken": "tok-new", "user": `+customerProfile+`}`)
	b.respond("GET /api/v1/cart", http.StatusOK, oneItemCart)

	registry := b.registry()
	shopper := registry.Get(context.Background(), "sess-2", "")
	store := newSessionStore()
	h := NewAuthHandler(newTestRender(t), store, registry)

	rec := httptest.NewRecorder()
	h.LoginPostHandler(rec, request(http.MethodPost, "/login", url.Values{
		"email":    {"asha@example.com"},
		"password": {"secret"},
	}, shopper, nil))

	path, status, message := flash(t, rec)
	assert.Equal(t, "/cart", path)
	assert.Equal(t, "success", status)
	assert.Equal(t, "Welcome, Asha Rao!", message)
	assert.Equal(t, "tok-new", shopper.Identity.Token())
	assert.Equal(t, 1, b.count("GET /cart"))

	replayed := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		replayed.AddCookie(c)
	}
	assert.Equal(t, "tok-new", store.GetToken(replayed))
}

func TestLoginWrongPassword(t *testing.T) {
	b := newBackend(t)
	b.respond("POST /api/v1/auth/login", http.StatusUnauthorized, `{"message": "Bad credentials"}`)

	registry := b.registry()
	shopper := registry.Get(context.Background(), "sess-2", "")
	h := NewAuthHandler(newTestRender(t), newSessionStore(), registry)

	rec := httptest.NewRecorder()
	h.LoginPostHandler(rec, request(http.MethodPost, "/login", url.Values{
		"email":    {"asha@example.com"},
		"password": {"wrong"},
	}, shopper, nil))

	path, status, message := flash(t, rec)
	assert.Equal(t, "/login", path)
	assert.Equal(t, "error", status)
	assert.Equal(t, "Invalid email or password.", message)
	assert.False(t, shopper.Identity.IsAuthenticated())
}

func TestLoginMissingCredentialsSkipsBackend(t *testing.T) {
	b := newBackend(t)
	registry := b.registry()
	shopper := registry.Get(context.Background(), "sess-2", "")
	h := NewAuthHandler(newTestRender(t), newSessionStore(), registry)

	rec := httptest.NewRecorder()
	h.LoginPostHandler(rec, request(http.MethodPost, "/login", url.Values{"email": {"asha@example.com"}}, shopper, nil))

	_, _, message := flash(t, rec)
	assert.Equal(t, "email and password are required", message)
	assert.Zero(t, b.count("POST /auth/login"))
}

func TestRegisterPasswordMismatch(t *testing.T) {
	b := newBackend(t)
	registry := b.registry()
	shopper := registry.Get(context.Background(), "sess-2", "")
	h := NewAuthHandler(newTestRender(t), newSessionStore(), registry)

	rec := httptest.NewRecorder()
	h.RegisterPostHandler(rec, request(http.MethodPost, "/register", url.Values{
		"first_name":       {"Asha"},
		"last_name":        {"Rao"},
		"email":            {"asha@example.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret2"},
	}, shopper, nil))

	path, _, message := flash(t, rec)
	assert.Equal(t, "/register", path)
	assert.Equal(t, "Passwords do not match.", message)
	assert.Zero(t, b.count("POST /auth/register"))
}

func TestLoginPageRedirectsSignedInShopper(t *testing.T) {
	b := newBackend(t)
	b.respond("GET /api/v1/profile/me", http.StatusOK, customerProfile)
	b.respond("GET /api/v1/cart", http.StatusOK, oneItemCart)
	h := NewAuthHandler(newTestRender(t), newSessionStore(), b.registry())

	rec := httptest.NewRecorder()
	h.LoginGetHandler(rec, request(http.MethodGet, "/login", nil, b.customer(t), nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/profile", rec.Header().Get("Location"))
}

func TestLogoutForgetsSession(t *testing.T) {
	b := newBackend(t)
	b.respond("GET /api/v1/profile/me", http.StatusOK, customerProfile)
	b.respond("GET /api/v1/cart", http.StatusOK, oneItemCart)

	registry := b.registry()
	shopper := registry.Get(context.Background(), "sess-3", "tok")
	require.Equal(t, 1, registry.Len())
	h := NewAuthHandler(newTestRender(t), newSessionStore(), registry)

	rec := httptest.NewRecorder()
	h.LogoutHandler(rec, request(http.MethodPost, "/logout", url.Values{}, shopper, nil))

	path, _, _ := flash(t, rec)
	assert.Equal(t, "/login", path)
	assert.Zero(t, registry.Len())
	assert.False(t, shopper.Identity.IsAuthenticated())
	assert.Nil(t, shopper.Cart.Cart())
}
