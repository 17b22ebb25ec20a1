package handlers

import (
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/helpers"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/breadcrumb"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

const productsPerPage = 12

var productSorts = map[string]string{
	"":           "",
	"newest":     "id,desc",
	"price_asc":  "price,asc",
	"price_desc": "price,desc",
	"carbon_asc": "carbonFootprint,asc",
}

type ProductHandler struct {
	render *render.Render
}

func NewProductHandler(r *render.Render) *ProductHandler {
	return &ProductHandler{render: r}
}

func (h *ProductHandler) Products(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	sortKey := r.URL.Query().Get("sort")
	sort, ok := productSorts[sortKey]
	if !ok {
		sortKey, sort = "", ""
	}

	// The backend pages from zero.
	result, err := helpers.Shopper(r).Backend.Products(r.Context(), page-1, productsPerPage, sort)
	if err != nil {
		log.Printf("ProductHandler.Products: failed to load page %d: %v", page, err)
		result = &models.ProductPage{}
	}

	pageSpecificData := map[string]interface{}{
		"Title":       "Shop sustainable",
		"Breadcrumbs": breadcrumb.Trail(),
		"Products":    result.Content,
		"CurrentPage": page,
		"TotalPages":  result.TotalPages,
		"Sort":        sortKey,
		"LoadFailed":  err != nil,
	}
	_ = h.render.HTML(w, http.StatusOK, "products", helpers.GetBaseData(r, pageSpecificData))
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}

	products, err := helpers.Shopper(r).Backend.SearchProducts(r.Context(), query)
	if err != nil {
		log.Printf("ProductHandler.Search: search for %q failed: %v", query, err)
		products = nil
	}

	pageSpecificData := map[string]interface{}{
		"Title":       "Search: " + query,
		"Breadcrumbs": breadcrumb.Trail(breadcrumb.Breadcrumb{Name: "Search", URL: "/products/search?q=" + url.QueryEscape(query)}),
		"Products":    products,
		"SearchQuery": query,
		"LoadFailed":  err != nil,
	}
	_ = h.render.HTML(w, http.StatusOK, "search", helpers.GetBaseData(r, pageSpecificData))
}

func (h *ProductHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	if id == "" {
		http.NotFound(w, r)
		return
	}

	product, err := helpers.Shopper(r).Backend.Product(r.Context(), id)
	if err != nil {
		log.Printf("ProductHandler.ProductDetail: failed to load product %s: %v", id, err)
		helpers.Redirect(w, r, "/products", "error", "That product is not available.")
		return
	}

	pageSpecificData := map[string]interface{}{
		"Title":       product.Name,
		"Breadcrumbs": breadcrumb.Trail(breadcrumb.Breadcrumb{Name: product.Name, URL: "/products/" + id.String()}),
		"Product":     product,
		"Carbon":      product.Footprint(),
		"InStock":     product.StockQuantity > 0,
	}
	_ = h.render.HTML(w, http.StatusOK, "product", helpers.GetBaseData(r, pageSpecificData))
}
