package handlers

import (
	"log"
	"net/http"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/helpers"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/breadcrumb"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type OrderHandler struct {
	render *render.Render
}

func NewOrderHandler(r *render.Render) *OrderHandler {
	return &OrderHandler{render: r}
}

func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := helpers.Shopper(r).Backend.Orders(r.Context())
	if err != nil {
		log.Printf("OrderHandler.GetOrders: %v", err)
	}

	pageSpecificData := map[string]interface{}{
		"Title":       "My orders",
		"Breadcrumbs": orderCrumbs(),
		"Orders":      orders,
		"LoadFailed":  err != nil,
	}
	_ = h.render.HTML(w, http.StatusOK, "orders", helpers.GetBaseData(r, pageSpecificData))
}

func (h *OrderHandler) GetOrderDetail(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	order, err := helpers.Shopper(r).Backend.Order(r.Context(), id)
	if err != nil {
		failRedirect(w, r, "OrderHandler.GetOrderDetail", err, "/profile/orders", "Order not found.")
		return
	}

	pageSpecificData := map[string]interface{}{
		"Title":       "Order #" + id.String(),
		"Breadcrumbs": orderCrumbs(breadcrumb.Breadcrumb{Name: "#" + id.String(), URL: "/profile/orders/" + id.String()}),
		"Order":       order,
	}
	_ = h.render.HTML(w, http.StatusOK, "order", helpers.GetBaseData(r, pageSpecificData))
}

func orderCrumbs(extra ...breadcrumb.Breadcrumb) []breadcrumb.Breadcrumb {
	return breadcrumb.Trail(append([]breadcrumb.Breadcrumb{
		{Name: "Profile", URL: "/profile"},
		{Name: "Orders", URL: "/profile/orders"},
	}, extra...)...)
}
