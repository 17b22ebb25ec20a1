package other

import (
	"strings"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
)

// AddressForm is the address book form as posted by the browser.
type AddressForm struct {
	Label      string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

func (f AddressForm) Address() models.Address {
	country := strings.TrimSpace(f.Country)
	if country == "" {
		country = models.DefaultCountry
	}
	return models.Address{
		Label:      strings.TrimSpace(f.Label),
		Street:     strings.TrimSpace(f.Street),
		City:       strings.TrimSpace(f.City),
		State:      strings.TrimSpace(f.State),
		PostalCode: strings.ReplaceAll(strings.TrimSpace(f.PostalCode), " ", ""),
		Country:    country,
		IsDefault:  f.IsDefault,
	}
}

func AddressFormFrom(a models.Address) AddressForm {
	return AddressForm{
		Label:      a.Label,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
	}
}
