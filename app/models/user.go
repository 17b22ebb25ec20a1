package models

import (
	"encoding/json"
	"strings"
)

const (
	RoleCustomer = "ROLE_CUSTOMER"
	RoleSeller   = "ROLE_SELLER"
	RoleAdmin    = "ROLE_ADMIN"
)

type User struct {
	ID        ID     `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	EcoPoints int    `json:"ecoPoints"`
	Roles     Roles  `json:"roles"`

	ReferralCode string `json:"referralCode"`
}

func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Roles flattens the backend's role list. Entries arrive either as plain
// strings or as objects carrying "name" or "authority".
type Roles []string

func (r *Roles) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Roles, 0, len(raw))
	for _, entry := range raw {
		var name string
		if err := json.Unmarshal(entry, &name); err == nil {
			out = append(out, name)
			continue
		}
		var obj struct {
			Name      string `json:"name"`
			Authority string `json:"authority"`
		}
		if err := json.Unmarshal(entry, &obj); err != nil {
			return err
		}
		switch {
		case obj.Name != "":
			out = append(out, obj.Name)
		case obj.Authority != "":
			out = append(out, obj.Authority)
		}
	}
	*r = out
	return nil
}
