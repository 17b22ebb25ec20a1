package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/helpers"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/services"
)

// failRedirect reports a failed backend call. An expired session goes to the
// login page; anything else back to fallback with the error as flash message.
func failRedirect(w http.ResponseWriter, r *http.Request, op string, err error, fallback, message string) {
	log.Printf("%s: %v", op, err)
	if errors.Is(err, services.ErrUnauthorized) {
		helpers.Redirect(w, r, "/login", "error", "Your session has expired. Please log in again.")
		return
	}
	if message == "" {
		message = userMessage(err)
	}
	helpers.Redirect(w, r, fallback, "error", message)
}

// userMessage keeps backend messages and hides transport details.
func userMessage(err error) string {
	var apiErr *services.APIError
	rejected := errors.As(err, &apiErr) && apiErr.Rejected()

	var payErr *services.PaymentError
	if errors.As(err, &payErr) {
		switch {
		case payErr.Stage == services.StageTokenization:
			return payErr.Error()
		case rejected:
			return (&services.PaymentError{Stage: payErr.Stage, Err: errors.New(apiErr.Message)}).Error()
		}
		return (&services.PaymentError{Stage: payErr.Stage, Err: errors.New("the store could not be reached")}).Error()
	}
	if rejected {
		return apiErr.Message
	}
	for _, known := range []error{
		services.ErrInvalidQuantity,
		services.ErrInvalidProduct,
		services.ErrEmptyCart,
		services.ErrUnknownAddress,
		services.ErrNoShippingOptions,
		services.ErrShippingUnavailable,
		services.ErrShippingNotConfirmed,
		services.ErrPaymentMethodDisabled,
		services.ErrUnknownPaymentMethod,
		services.ErrInvalidEcoPoints,
		services.ErrSamePassword,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "Something went wrong, please try again."
}
