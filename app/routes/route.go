package routes

import (
	"net/http"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/configs"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/handlers"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/middlewares"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/services"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type Dependencies struct {
	Env      configs.ENV
	Render   *render.Render
	Sessions sessions.SessionStore
	Registry *services.SessionRegistry
	Widget   configs.PaymentWidget
	CSRFKey  []byte
}

// NewRouter wires every page. The health check sits outside the shopper
// subrouter so probes do not open sessions.
func NewRouter(deps Dependencies) http.Handler {
	router := mux.NewRouter()

	homeHandler := handlers.NewHomeHandler(deps.Render, deps.Registry)
	authHandler := handlers.NewAuthHandler(deps.Render, deps.Sessions, deps.Registry)
	productHandler := handlers.NewProductHandler(deps.Render)
	cartHandler := handlers.NewCartHandler(deps.Render)
	checkoutHandler := handlers.NewCheckoutHandler(deps.Render, deps.Widget)
	addressHandler := handlers.NewAddressHandler(deps.Render, validator.New())
	orderHandler := handlers.NewOrderHandler(deps.Render)
	profileHandler := handlers.NewProfileHandler(deps.Render)
	wishlistHandler := handlers.NewWishlistHandler(deps.Render)

	router.HandleFunc("/healthz", homeHandler.Health).Methods("GET")

	app := router.PathPrefix("/").Subrouter()
	app.Use(middlewares.ShopperMiddleware(deps.Sessions, deps.Registry))
	app.Use(middlewares.CartCountMiddleware)

	app.HandleFunc("/", homeHandler.Home).Methods("GET")

	app.HandleFunc("/products", productHandler.Products).Methods("GET")
	app.HandleFunc("/products/search", productHandler.Search).Methods("GET")
	app.HandleFunc("/products/{id}", productHandler.ProductDetail).Methods("GET")

	app.HandleFunc("/login", authHandler.LoginGetHandler).Methods("GET")
	app.HandleFunc("/login", authHandler.LoginPostHandler).Methods("POST")
	app.HandleFunc("/register", authHandler.RegisterGetHandler).Methods("GET")
	app.HandleFunc("/register", authHandler.RegisterPostHandler).Methods("POST")
	app.HandleFunc("/logout", authHandler.LogoutHandler).Methods("POST")

	app.HandleFunc("/cart/count", cartHandler.GetCartCount).Methods("GET")

	customer := app.NewRoute().Subrouter()
	customer.Use(middlewares.RequireRole(models.RoleCustomer))
	customer.HandleFunc("/cart", cartHandler.GetCart).Methods("GET")
	customer.HandleFunc("/cart/add", cartHandler.AddToCart).Methods("POST")
	customer.HandleFunc("/cart/items/{id}", cartHandler.UpdateCartItem).Methods("PUT")
	customer.HandleFunc("/cart/items/{id}", cartHandler.RemoveCartItem).Methods("DELETE")
	customer.HandleFunc("/cart/discount", cartHandler.ApplyDiscount).Methods("POST")
	customer.HandleFunc("/checkout", checkoutHandler.GetCheckout).Methods("GET")
	customer.HandleFunc("/checkout/address", checkoutHandler.SelectAddress).Methods("POST")
	customer.HandleFunc("/checkout/payment-method", checkoutHandler.ChoosePaymentMethod).Methods("POST")
	customer.HandleFunc("/checkout/pay", checkoutHandler.Pay).Methods("POST")

	profile := app.PathPrefix("/profile").Subrouter()
	profile.Use(middlewares.RequireAuth)
	profile.HandleFunc("", homeHandler.Profile).Methods("GET")
	profile.HandleFunc("/addresses", addressHandler.GetAddresses).Methods("GET")
	profile.HandleFunc("/addresses", addressHandler.CreateAddress).Methods("POST")
	profile.HandleFunc("/addresses/new", addressHandler.NewAddressForm).Methods("GET")
	profile.HandleFunc("/addresses/{id}/edit", addressHandler.EditAddressForm).Methods("GET")
	profile.HandleFunc("/addresses/{id}", addressHandler.UpdateAddress).Methods("PUT")
	profile.HandleFunc("/addresses/{id}", addressHandler.DeleteAddress).Methods("DELETE")
	profile.HandleFunc("/orders", orderHandler.GetOrders).Methods("GET")
	profile.HandleFunc("/orders/{id}", orderHandler.GetOrderDetail).Methods("GET")
	profile.HandleFunc("/wishlist", wishlistHandler.GetWishlist).Methods("GET")
	profile.HandleFunc("/wishlist", wishlistHandler.AddToWishlist).Methods("POST")
	profile.HandleFunc("/wishlist/{id}", wishlistHandler.RemoveFromWishlist).Methods("DELETE")
	profile.HandleFunc("/eco-points", profileHandler.EcoPointsHistory).Methods("GET")
	profile.HandleFunc("/settings", profileHandler.Settings).Methods("GET")
	profile.HandleFunc("/settings", profileHandler.UpdateProfile).Methods("PUT")
	profile.HandleFunc("/password", profileHandler.ChangePassword).Methods("PUT")

	protect := csrf.Protect(
		deps.CSRFKey,
		csrf.Secure(deps.Env.IsProduction()),
		csrf.Path("/"),
		csrf.FieldName("csrf_token"),
	)

	var handler http.Handler = protect(router)
	handler = middlewares.MethodOverrideMiddleware(handler)
	if !deps.Env.IsProduction() {
		handler = middlewares.PlaintextCSRFMiddleware(handler)
	}
	return handler
}
