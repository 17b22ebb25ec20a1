package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models/other"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidProduct  = errors.New("product is required")
)

// CartBackend is the part of the REST backend the cart store drives.
type CartBackend interface {
	GetCart(ctx context.Context) (*models.Cart, error)
	AddToCart(ctx context.Context, productID models.ID, qty int) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, itemID models.ID, qty int) (*models.Cart, error)
	RemoveCartItem(ctx context.Context, itemID models.ID) (*models.Cart, error)
	ApplyDiscount(ctx context.Context, code string) (*models.Cart, error)
	AvailableDiscounts(ctx context.Context) ([]models.Discount, error)
	SelectShipping(ctx context.Context, addressID models.ID) (*models.Cart, error)
	Checkout(ctx context.Context, req other.CheckoutRequest) (*models.Order, error)
}

// DiscountResult tells a refused code apart from a failed request. Transport
// and server failures come back as an error instead.
type DiscountResult struct {
	Applied bool
	Cart    *models.Cart
	Reason  string
}

// CartStore holds the shopper's cart as last reported by the backend. Every
// successful mutation replaces the snapshot with the server payload as is;
// a failed one leaves it alone. Snapshots are shared and must be treated as
// read-only.
//
// Each call takes a ticket before going to the network. A response is only
// applied when no later ticket has been applied yet, so a slow reply cannot
// overwrite a newer cart.
type CartStore struct {
	backend CartBackend

	mu          sync.Mutex
	cart        *models.Cart
	issued      uint64
	applied     uint64
	subscribers []func(*models.Cart)
}

func NewCartStore(backend CartBackend) *CartStore {
	return &CartStore{backend: backend}
}

func (s *CartStore) Subscribe(fn func(*models.Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *CartStore) ticket() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// replace installs cart if ticket is not older than the applied snapshot and
// reports whether it did.
func (s *CartStore) replace(ticket uint64, cart *models.Cart) bool {
	s.mu.Lock()
	if ticket < s.applied {
		s.mu.Unlock()
		log.Printf("CartStore.replace: dropping stale cart response (ticket %d, applied %d)", ticket, s.applied)
		return false
	}
	s.applied = ticket
	s.cart = cart
	subs := make([]func(*models.Cart), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(cart)
	}
	return true
}

// Cart returns the current snapshot, nil when there is none.
func (s *CartStore) Cart() *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

func (s *CartStore) ItemCount() int {
	return s.Cart().ItemCount()
}

func (s *CartStore) Total() decimal.Decimal {
	return s.Cart().Total()
}

// Clear drops the snapshot and supersedes any call still in flight.
func (s *CartStore) Clear() {
	s.replace(s.ticket(), nil)
}

// OnSessionEvent loads the cart when a customer signs in and clears it on
// every other identity change.
func (s *CartStore) OnSessionEvent(ctx context.Context, ev SessionEvent) {
	if ev.Customer() {
		s.Load(ctx)
		return
	}
	s.Clear()
}

// Load fetches the cart. A failure leaves no cart, which the views treat as
// empty.
func (s *CartStore) Load(ctx context.Context) {
	t := s.ticket()
	cart, err := s.backend.GetCart(ctx)
	if err != nil {
		log.Printf("CartStore.Load: failed to fetch cart: %v", err)
		s.replace(t, nil)
		return
	}
	s.replace(t, cart)
}

// mutate runs call and installs its cart. On success it returns the snapshot
// that is current afterwards, which is newer than the response when a later
// call already landed.
func (s *CartStore) mutate(ctx context.Context, op string, call func(context.Context) (*models.Cart, error)) (*models.Cart, error) {
	t := s.ticket()
	cart, err := call(ctx)
	if err != nil {
		log.Printf("CartStore.%s: %v", op, err)
		return nil, err
	}
	if !s.replace(t, cart) {
		return s.Cart(), nil
	}
	return cart, nil
}

func (s *CartStore) AddToCart(ctx context.Context, productID models.ID, qty int) (*models.Cart, error) {
	if strings.TrimSpace(productID.String()) == "" {
		return nil, ErrInvalidProduct
	}
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	return s.mutate(ctx, "AddToCart", func(ctx context.Context) (*models.Cart, error) {
		return s.backend.AddToCart(ctx, productID, qty)
	})
}

// UpdateCartItem never reaches the backend for a quantity below 1.
func (s *CartStore) UpdateCartItem(ctx context.Context, itemID models.ID, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	return s.mutate(ctx, "UpdateCartItem", func(ctx context.Context) (*models.Cart, error) {
		return s.backend.UpdateCartItem(ctx, itemID, qty)
	})
}

func (s *CartStore) RemoveFromCart(ctx context.Context, itemID models.ID) (*models.Cart, error) {
	return s.mutate(ctx, "RemoveFromCart", func(ctx context.Context) (*models.Cart, error) {
		return s.backend.RemoveCartItem(ctx, itemID)
	})
}

// SelectShipping locks the shipping option for addressID. The backend
// answers with the recomputed cart, including shipping and tax.
func (s *CartStore) SelectShipping(ctx context.Context, addressID models.ID) (*models.Cart, error) {
	return s.mutate(ctx, "SelectShipping", func(ctx context.Context) (*models.Cart, error) {
		return s.backend.SelectShipping(ctx, addressID)
	})
}

func (s *CartStore) ApplyDiscount(ctx context.Context, code string) (DiscountResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return DiscountResult{Cart: s.Cart(), Reason: "Enter a discount code."}, nil
	}

	cart, err := s.mutate(ctx, "ApplyDiscount", func(ctx context.Context) (*models.Cart, error) {
		return s.backend.ApplyDiscount(ctx, code)
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Rejected() {
			return DiscountResult{Cart: s.Cart(), Reason: apiErr.Message}, nil
		}
		return DiscountResult{}, err
	}
	return DiscountResult{Applied: true, Cart: cart}, nil
}

func (s *CartStore) AvailableDiscounts(ctx context.Context) ([]models.Discount, error) {
	discounts, err := s.backend.AvailableDiscounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load discounts: %w", err)
	}
	return discounts, nil
}

// Checkout places the order. The server cart is gone afterwards, so the
// snapshot is cleared; a failure keeps it for a retry.
func (s *CartStore) Checkout(ctx context.Context, req other.CheckoutRequest) (*models.Order, error) {
	order, err := s.backend.Checkout(ctx, req)
	if err != nil {
		log.Printf("CartStore.Checkout: %v", err)
		return nil, err
	}
	s.Clear()
	return order, nil
}
