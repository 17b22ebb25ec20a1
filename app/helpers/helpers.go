package helpers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/services"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/breadcrumb"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
)

type contextKey string

const (
	ContextKeyShopper contextKey = "shopper"
	CartCountKey      contextKey = "cart_count"
)

func WithShopper(ctx context.Context, s *services.ShopperSession) context.Context {
	return context.WithValue(ctx, ContextKeyShopper, s)
}

// Shopper returns the session attached by the session middleware.
func Shopper(r *http.Request) *services.ShopperSession {
	s, _ := r.Context().Value(ContextKeyShopper).(*services.ShopperSession)
	return s
}

// Redirect sends the browser to path with a flash message in the query.
func Redirect(w http.ResponseWriter, r *http.Request, path, status, message string) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	target := fmt.Sprintf("%s%sstatus=%s&message=%s", path, sep, url.QueryEscape(status), url.QueryEscape(message))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func GetBaseData(r *http.Request, pageSpecificData map[string]interface{}) map[string]interface{} {
	if pageSpecificData == nil {
		pageSpecificData = make(map[string]interface{})
	}

	if _, exists := pageSpecificData["Title"]; !exists {
		pageSpecificData["Title"] = "EcoBazaarX"
	}
	if _, exists := pageSpecificData["Breadcrumbs"]; !exists {
		pageSpecificData["Breadcrumbs"] = []breadcrumb.Breadcrumb{}
	}
	if _, exists := pageSpecificData["IsAuthPage"]; !exists {
		pageSpecificData["IsAuthPage"] = false
	}

	pageSpecificData["Query"] = r.URL.Query()
	pageSpecificData["CSRFField"] = csrf.TemplateField(r)
	pageSpecificData["CSRFToken"] = csrf.Token(r)

	pageSpecificData["CartCount"] = 0
	if count, ok := r.Context().Value(CartCountKey).(int); ok {
		pageSpecificData["CartCount"] = count
	}

	pageSpecificData["User"] = (*models.User)(nil)
	pageSpecificData["IsLoggedIn"] = false
	pageSpecificData["IsCustomer"] = false
	if s := Shopper(r); s != nil {
		if user := s.Identity.User(); user != nil {
			pageSpecificData["User"] = user
			pageSpecificData["IsLoggedIn"] = true
			pageSpecificData["IsCustomer"] = user.HasRole(models.RoleCustomer)
		}
	}

	pageSpecificData["MessageStatus"] = r.URL.Query().Get("status")
	pageSpecificData["Message"] = r.URL.Query().Get("message")

	return pageSpecificData
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		label := fieldLabel(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", label)
		case "email":
			errorMessages[field] = fmt.Sprintf("%s must be a valid email address.", label)
		case "alphanum":
			errorMessages[field] = fmt.Sprintf("%s may only contain letters and digits.", label)
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s characters.", label, err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s characters.", label, err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s is invalid.", label)
		}
	}
	return errorMessages
}

// fieldLabel turns PostalCode into "Postal code".
func fieldLabel(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FirstValidationError is the message shown when a form only has room for one.
func FirstValidationError(err error, fields ...string) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	messages := FormatValidationErrors(errs)
	for _, f := range fields {
		if msg, ok := messages[strings.ToLower(f)]; ok {
			return msg
		}
	}
	for _, msg := range messages {
		return msg
	}
	return "Please check the form."
}
