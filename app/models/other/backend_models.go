package other

import "github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"

// Request and response bodies of the EcoBazaarX REST backend (/api/v1).

type BackendError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=100"`
	LastName  string `json:"lastName" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

// AuthResponse carries the bearer token either as accessToken or token. The
// user is optional; when absent the profile has to be fetched separately.
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	Token       string       `json:"token"`
	User        *models.User `json:"user"`
}

func (a AuthResponse) BearerToken() string {
	if a.AccessToken != "" {
		return a.AccessToken
	}
	return a.Token
}

type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type AddToCartRequest struct {
	ProductID models.ID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type SelectShippingRequest struct {
	AddressID models.ID `json:"addressId"`
}

type ApplyDiscountRequest struct {
	DiscountCode string `json:"discountCode"`
}

type CheckoutRequest struct {
	PaymentMethodID   string `json:"paymentMethodId"`
	EcoPointsToRedeem int    `json:"ecoPointsToRedeem"`
}

// AddressList accepts both a bare array and {"addresses": [...]}.
type AddressList struct {
	Addresses []models.Address `json:"addresses"`
}
