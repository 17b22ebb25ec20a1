package handlers

import (
	"log"
	"net/http"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/helpers"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models/other"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/breadcrumb"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type AddressHandler struct {
	render    *render.Render
	validator *validator.Validate
}

func NewAddressHandler(r *render.Render, validator *validator.Validate) *AddressHandler {
	return &AddressHandler{render: r, validator: validator}
}

type addressPageData struct {
	Form       other.AddressForm
	IsEdit     bool
	FormAction string
	ReturnTo   string
	Errors     map[string]string
}

func (h *AddressHandler) GetAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := helpers.Shopper(r).Backend.Addresses(r.Context())
	if err != nil {
		log.Printf("AddressHandler.GetAddresses: %v", err)
	}

	pageSpecificData := map[string]interface{}{
		"Title":       "Address book",
		"Breadcrumbs": addressCrumbs(),
		"Addresses":   addresses,
		"LoadFailed":  err != nil,
	}
	_ = h.render.HTML(w, http.StatusOK, "addresses", helpers.GetBaseData(r, pageSpecificData))
}

func (h *AddressHandler) NewAddressForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, addressPageData{
		Form:       other.AddressForm{Country: models.DefaultCountry},
		FormAction: "/profile/addresses",
		ReturnTo:   r.URL.Query().Get("return_to"),
	})
}

func (h *AddressHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("AddressHandler.CreateAddress: Error parsing form: %v", err)
		helpers.Redirect(w, r, "/profile/addresses", "error", "Could not read the form.")
		return
	}

	form := addressFormFromRequest(r)
	page := addressPageData{Form: form, FormAction: "/profile/addresses", ReturnTo: r.FormValue("return_to")}
	address := form.Address()
	if err := h.validator.Struct(address); err != nil {
		page.Errors = validationErrors(err)
		h.renderForm(w, r, http.StatusUnprocessableEntity, page)
		return
	}

	if _, err := helpers.Shopper(r).Backend.CreateAddress(r.Context(), address); err != nil {
		failRedirect(w, r, "AddressHandler.CreateAddress", err, "/profile/addresses/new", "")
		return
	}

	if page.ReturnTo == "checkout" {
		helpers.Redirect(w, r, "/checkout", "success", "Address saved.")
		return
	}
	helpers.Redirect(w, r, "/profile/addresses", "success", "Address saved.")
}

func (h *AddressHandler) EditAddressForm(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	addresses, err := helpers.Shopper(r).Backend.Addresses(r.Context())
	if err != nil {
		failRedirect(w, r, "AddressHandler.EditAddressForm", err, "/profile/addresses", "")
		return
	}
	address, ok := models.FindAddress(addresses, id)
	if !ok {
		helpers.Redirect(w, r, "/profile/addresses", "error", "Address not found.")
		return
	}

	h.renderForm(w, r, http.StatusOK, addressPageData{
		Form:       other.AddressFormFrom(address),
		IsEdit:     true,
		FormAction: "/profile/addresses/" + id.String(),
	})
}

func (h *AddressHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	form := addressFormFromRequest(r)
	page := addressPageData{Form: form, IsEdit: true, FormAction: "/profile/addresses/" + id.String()}

	address := form.Address()
	address.ID = id
	if err := h.validator.Struct(address); err != nil {
		page.Errors = validationErrors(err)
		h.renderForm(w, r, http.StatusUnprocessableEntity, page)
		return
	}

	if _, err := helpers.Shopper(r).Backend.UpdateAddress(r.Context(), id, address); err != nil {
		failRedirect(w, r, "AddressHandler.UpdateAddress", err, "/profile/addresses/"+id.String()+"/edit", "")
		return
	}
	helpers.Redirect(w, r, "/profile/addresses", "success", "Address updated.")
}

func (h *AddressHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	if err := helpers.Shopper(r).Backend.DeleteAddress(r.Context(), id); err != nil {
		failRedirect(w, r, "AddressHandler.DeleteAddress", err, "/profile/addresses", "")
		return
	}
	helpers.Redirect(w, r, "/profile/addresses", "success", "Address deleted.")
}

func (h *AddressHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, page addressPageData) {
	title := "New address"
	if page.IsEdit {
		title = "Edit address"
	}
	pageSpecificData := map[string]interface{}{
		"Title":       title,
		"Breadcrumbs": addressCrumbs(breadcrumb.Breadcrumb{Name: title, URL: page.FormAction}),
		"Page":        page,
	}
	_ = h.render.HTML(w, status, "address_form", helpers.GetBaseData(r, pageSpecificData))
}

func addressFormFromRequest(r *http.Request) other.AddressForm {
	return other.AddressForm{
		Label:      r.FormValue("label"),
		Street:     r.FormValue("street"),
		City:       r.FormValue("city"),
		State:      r.FormValue("state"),
		PostalCode: r.FormValue("postal_code"),
		Country:    r.FormValue("country"),
		IsDefault:  r.FormValue("is_default") == "on",
	}
}

func validationErrors(err error) map[string]string {
	if errs, ok := err.(validator.ValidationErrors); ok {
		return helpers.FormatValidationErrors(errs)
	}
	return map[string]string{"form": err.Error()}
}

func addressCrumbs(extra ...breadcrumb.Breadcrumb) []breadcrumb.Breadcrumb {
	return breadcrumb.Trail(append([]breadcrumb.Breadcrumb{
		{Name: "Profile", URL: "/profile"},
		{Name: "Addresses", URL: "/profile/addresses"},
	}, extra...)...)
}
