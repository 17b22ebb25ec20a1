package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models/other"
)

// ErrUnauthorized is returned when the backend rejects the bearer token. The
// token has already been dropped from its source by the time the caller sees it.
var ErrUnauthorized = errors.New("backend: session expired, please log in again")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// Rejected reports a 4xx: the backend understood the request and refused it.
func (e *APIError) Rejected() bool {
	return e.Status >= 400 && e.Status < 500
}

// TokenSource supplies the bearer token for a shopper and forgets it when the
// backend says it is no longer valid.
type TokenSource interface {
	Token() string
	Invalidate()
}

// BackendClient is the shared transport to the EcoBazaarX REST API.
type BackendClient struct {
	baseURL string
	client  *http.Client
}

func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Session binds the transport to one shopper's token.
func (c *BackendClient) Session(tokens TokenSource) *BackendSession {
	return &BackendSession{client: c, tokens: tokens}
}

type BackendSession struct {
	client *BackendClient
	tokens TokenSource
}

func (s *BackendSession) token() string {
	if s.tokens == nil {
		return ""
	}
	return s.tokens.Token()
}

func (s *BackendSession) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.client.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token := s.token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// A 401 without a token is a failed login, not an expired session.
	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		log.Printf("BackendSession.do: %s %s returned 401, dropping token", method, path)
		s.tokens.Invalidate()
		return ErrUnauthorized
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func errorMessage(status int, body []byte) string {
	var be other.BackendError
	if err := json.Unmarshal(body, &be); err == nil {
		if be.Message != "" {
			return be.Message
		}
		if be.Error != "" {
			return be.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") && len(text) < 300 {
		return text
	}
	return http.StatusText(status)
}

// decodeList accepts a bare JSON array or an object wrapping it under one of
// keys (paged responses use "content").
func decodeList[T any](raw json.RawMessage, keys ...string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var list []T
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}
	for _, key := range keys {
		if inner, ok := wrapper[key]; ok {
			return decodeList[T](inner)
		}
	}
	return nil, fmt.Errorf("expected a list under one of %v", keys)
}

func escapeID(id models.ID) string {
	return url.PathEscape(id.String())
}

// Cart

func (s *BackendSession) GetCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := s.do(ctx, http.MethodGet, "/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *BackendSession) AddToCart(ctx context.Context, productID models.ID, qty int) (*models.Cart, error) {
	var cart models.Cart
	req := other.AddToCartRequest{ProductID: productID, Quantity: qty}
	if err := s.do(ctx, http.MethodPost, "/cart/add", req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *BackendSession) UpdateCartItem(ctx context.Context, itemID models.ID, qty int) (*models.Cart, error) {
	var cart models.Cart
	req := other.UpdateCartItemRequest{Quantity: qty}
	if err := s.do(ctx, http.MethodPut, "/cart/update/"+escapeID(itemID), req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *BackendSession) RemoveCartItem(ctx context.Context, itemID models.ID) (*models.Cart, error) {
	var cart models.Cart
	if err := s.do(ctx, http.MethodDelete, "/cart/remove/"+escapeID(itemID), nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *BackendSession) ShippingOptions(ctx context.Context, addressID models.ID) ([]models.ShippingQuote, error) {
	var raw json.RawMessage
	if err := s.do(ctx, http.MethodGet, "/cart/shipping-options/"+escapeID(addressID), nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[models.ShippingQuote](raw, "options", "content")
}

func (s *BackendSession) SelectShipping(ctx context.Context, addressID models.ID) (*models.Cart, error) {
	var cart models.Cart
	req := other.SelectShippingRequest{AddressID: addressID}
	if err := s.do(ctx, http.MethodPost, "/cart/select-shipping", req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *BackendSession) ApplyDiscount(ctx context.Context, code string) (*models.Cart, error) {
	var cart models.Cart
	req := other.ApplyDiscountRequest{DiscountCode: code}
	if err := s.do(ctx, http.MethodPost, "/cart/apply-discount", req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *BackendSession) AvailableDiscounts(ctx context.Context) ([]models.Discount, error) {
	var raw json.RawMessage
	if err := s.do(ctx, http.MethodGet, "/cart/discounts", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[models.Discount](raw, "discounts", "content")
}

func (s *BackendSession) Checkout(ctx context.Context, req other.CheckoutRequest) (*models.Order, error) {
	var order models.Order
	if err := s.do(ctx, http.MethodPost, "/checkout", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Address book

func (s *BackendSession) Addresses(ctx context.Context) ([]models.Address, error) {
	var raw json.RawMessage
	if err := s.do(ctx, http.MethodGet, "/profile/addresses", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[models.Address](raw, "addresses", "content")
}

func (s *BackendSession) CreateAddress(ctx context.Context, address models.Address) (*models.Address, error) {
	var created models.Address
	if err := s.do(ctx, http.MethodPost, "/profile/addresses", address, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *BackendSession) UpdateAddress(ctx context.Context, id models.ID, address models.Address) (*models.Address, error) {
	var updated models.Address
	if err := s.do(ctx, http.MethodPut, "/profile/addresses/"+escapeID(id), address, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *BackendSession) DeleteAddress(ctx context.Context, id models.ID) error {
	return s.do(ctx, http.MethodDelete, "/profile/addresses/"+escapeID(id), nil, nil)
}

// Identity

func (s *BackendSession) Login(ctx context.Context, req other.LoginRequest) (*other.AuthResponse, error) {
	var resp other.AuthResponse
	if err := s.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *BackendSession) Register(ctx context.Context, req other.RegisterRequest) (*other.AuthResponse, error) {
	var resp other.AuthResponse
	if err := s.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *BackendSession) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.do(ctx, http.MethodGet, "/profile/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *BackendSession) UpdateProfile(ctx context.Context, req other.UpdateProfileRequest) error {
	return s.do(ctx, http.MethodPut, "/profile/me", req, nil)
}

func (s *BackendSession) ChangePassword(ctx context.Context, req other.ChangePasswordRequest) error {
	return s.do(ctx, http.MethodPut, "/profile/change-password", req, nil)
}

func (s *BackendSession) ProfileInsights(ctx context.Context) (*models.ProfileInsights, error) {
	var insights models.ProfileInsights
	if err := s.do(ctx, http.MethodGet, "/insights/profile", nil, &insights); err != nil {
		return nil, err
	}
	return &insights, nil
}

func (s *BackendSession) EcoPointsHistory(ctx context.Context) ([]models.EcoPointsTransaction, error) {
	var raw json.RawMessage
	if err := s.do(ctx, http.MethodGet, "/profile/eco-points-history", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[models.EcoPointsTransaction](raw, "content", "history")
}

// Wishlist

func (s *BackendSession) Wishlist(ctx context.Context) ([]models.Product, error) {
	var raw json.RawMessage
	if err := s.do(ctx, http.MethodGet, "/profile/wishlist", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[models.Product](raw, "content", "products")
}

func (s *BackendSession) AddToWishlist(ctx context.Context, productID models.ID) error {
	return s.do(ctx, http.MethodPost, "/profile/wishlist/"+escapeID(productID), nil, nil)
}

func (s *BackendSession) RemoveFromWishlist(ctx context.Context, productID models.ID) error {
	return s.do(ctx, http.MethodDelete, "/profile/wishlist/"+escapeID(productID), nil, nil)
}

// Orders

func (s *BackendSession) Orders(ctx context.Context) ([]models.Order, error) {
	var raw json.RawMessage
	if err := s.do(ctx, http.MethodGet, "/profile/orders", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[models.Order](raw, "content", "orders")
}

func (s *BackendSession) Order(ctx context.Context, id models.ID) (*models.Order, error) {
	var order models.Order
	if err := s.do(ctx, http.MethodGet, "/profile/orders/"+escapeID(id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Catalog

func (s *BackendSession) Products(ctx context.Context, page, size int, sort string) (*models.ProductPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	if sort != "" {
		params.Set("sort", sort)
	}

	var result models.ProductPage
	if err := s.do(ctx, http.MethodGet, "/products?"+params.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *BackendSession) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	params := url.Values{}
	params.Set("query", query)

	var raw json.RawMessage
	if err := s.do(ctx, http.MethodGet, "/products/search?"+params.Encode(), nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[models.Product](raw, "content")
}

func (s *BackendSession) Product(ctx context.Context, id models.ID) (*models.Product, error) {
	var product models.Product
	if err := s.do(ctx, http.MethodGet, "/products/"+escapeID(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
