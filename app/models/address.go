package models

import "fmt"

type Address struct {
	ID         ID     `json:"id,omitempty"`
	Label      string `json:"label" validate:"required,max=50"`
	Street     string `json:"street" validate:"required,max=255"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	PostalCode string `json:"postalCode" validate:"required,alphanum,min=4,max=10"`
	Country    string `json:"country" validate:"required,max=100"`
	IsDefault  bool   `json:"isDefault"`
}

const DefaultCountry = "India"

func (a Address) OneLine() string {
	label := a.Label
	if label == "" {
		label = "Address"
	}
	return fmt.Sprintf("%s: %s, %s", label, a.Street, a.City)
}

// PickDefaultAddress returns the address flagged as default, else the first.
func PickDefaultAddress(addresses []Address) (Address, bool) {
	if len(addresses) == 0 {
		return Address{}, false
	}
	for _, a := range addresses {
		if a.IsDefault {
			return a, true
		}
	}
	return addresses[0], true
}

func FindAddress(addresses []Address, id ID) (Address, bool) {
	for _, a := range addresses {
		if a.ID == id {
			return a, true
		}
	}
	return Address{}, false
}
