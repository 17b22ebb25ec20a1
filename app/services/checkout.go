package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models/other"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/repositories"
)

const OrderHistoryPath = "/profile/orders"

var (
	ErrEmptyCart             = errors.New("your cart is empty")
	ErrUnknownAddress        = errors.New("address not found in your address book")
	ErrNoShippingOptions     = errors.New("no shipping options are available for this address")
	ErrShippingUnavailable   = errors.New("shipping could not be confirmed for this address")
	ErrShippingNotConfirmed  = errors.New("confirm a shipping address before paying")
	ErrPaymentMethodDisabled = errors.New("this payment method is not available yet")
	ErrUnknownPaymentMethod  = errors.New("unknown payment method")
	ErrInvalidEcoPoints      = errors.New("eco points to redeem cannot be negative")
)

type PaymentStage string

const (
	// StageTokenization failed in the provider's widget; nothing reached the backend.
	StageTokenization PaymentStage = "tokenization"
	// StageSubmission failed while placing the order; no order was created.
	StageSubmission PaymentStage = "submission"
)

type PaymentError struct {
	Stage PaymentStage
	Err   error
}

func (e *PaymentError) Error() string {
	switch e.Stage {
	case StageTokenization:
		return fmt.Sprintf("card could not be verified, you have not been charged: %v", e.Err)
	default:
		return fmt.Sprintf("order could not be placed: %v", e.Err)
	}
}

func (e *PaymentError) Unwrap() error { return e.Err }

// CheckoutBackend is what the orchestrator reads directly. Cart mutations go
// through the CartStore.
type CheckoutBackend interface {
	Addresses(ctx context.Context) ([]models.Address, error)
	ShippingOptions(ctx context.Context, addressID models.ID) ([]models.ShippingQuote, error)
}

// PaymentMethodOption is one entry of the payment method picker.
type PaymentMethodOption struct {
	ID      string
	Label   string
	Enabled bool
}

var PaymentMethods = []PaymentMethodOption{
	{ID: models.PaymentMethodCard, Label: "Credit / Debit Card", Enabled: true},
	{ID: models.PaymentMethodUPI, Label: "UPI", Enabled: false},
	{ID: models.PaymentMethodCOD, Label: "Cash on Delivery", Enabled: false},
}

func paymentMethodEnabled(id string) (known, enabled bool) {
	for _, m := range PaymentMethods {
		if m.ID == id {
			return true, m.Enabled
		}
	}
	return false, false
}

// CheckoutView is everything the checkout page renders.
type CheckoutView struct {
	State             models.CheckoutState
	Cart              *models.Cart
	Addresses         []models.Address
	SelectedAddressID models.ID
	Quote             *models.ShippingQuote
	PaymentMethod     string
	PaymentMethods    []PaymentMethodOption
	PaymentUnlocked   bool
	LastError         string
}

// NeedsAddress is true when the shopper has no address to ship to.
func (v CheckoutView) NeedsAddress() bool {
	return len(v.Addresses) == 0
}

type SubmitRequest struct {
	PaymentMethodID   string
	TokenizationError string
	EcoPointsToRedeem int
}

type CheckoutResult struct {
	Order      *models.Order
	RedirectTo string
}

// Checkout sequences address selection, shipping lock-in, payment method and
// order submission for one browser session. The payment step stays locked
// until the backend has confirmed shipping for the selected address, and any
// address change drops that confirmation before anything else happens.
type Checkout struct {
	sessionID string
	repo      repositories.CheckoutSessionRepository
	backend   CheckoutBackend
	cart      *CartStore

	// flow serializes the operations of one session.
	flow   sync.Mutex
	userMu sync.RWMutex
	userID string
}

func NewCheckout(sessionID string, repo repositories.CheckoutSessionRepository, backend CheckoutBackend, cart *CartStore) *Checkout {
	return &Checkout{
		sessionID: sessionID,
		repo:      repo,
		backend:   backend,
		cart:      cart,
	}
}

// OnSessionEvent forgets any checkout in progress when the identity changes.
func (c *Checkout) OnSessionEvent(ctx context.Context, ev SessionEvent) {
	c.userMu.Lock()
	if ev.User != nil {
		c.userID = ev.User.ID.String()
	} else {
		c.userID = ""
	}
	c.userMu.Unlock()

	if ev.Kind == SessionRestored {
		return
	}
	// Expiry fires from inside a backend call made under flow, so the record
	// is dropped without taking it.
	if err := c.repo.Delete(ctx, c.sessionID); err != nil {
		log.Printf("Checkout.OnSessionEvent: %v", err)
	}
}

func (c *Checkout) Reset(ctx context.Context) error {
	c.flow.Lock()
	defer c.flow.Unlock()
	return c.repo.Delete(ctx, c.sessionID)
}

func (c *Checkout) currentUserID() string {
	c.userMu.RLock()
	defer c.userMu.RUnlock()
	return c.userID
}

// session loads the persisted flow, starting a new one when none is stored,
// a previous order completed, or it belongs to someone else.
func (c *Checkout) session(ctx context.Context) (*models.CheckoutSession, error) {
	sess, err := c.repo.Find(ctx, c.sessionID)
	if err != nil {
		return nil, err
	}
	userID := c.currentUserID()
	if sess == nil || sess.State == models.CheckoutComplete || sess.UserID != userID {
		sess = models.NewCheckoutSession(c.sessionID, userID)
	}
	return sess, nil
}

func (c *Checkout) save(ctx context.Context, sess *models.CheckoutSession) error {
	if err := c.repo.Save(ctx, sess); err != nil {
		return fmt.Errorf("failed to save checkout progress: %w", err)
	}
	return nil
}

func (c *Checkout) addresses(ctx context.Context) []models.Address {
	addresses, err := c.backend.Addresses(ctx)
	if err != nil {
		log.Printf("Checkout.addresses: failed to load addresses: %v", err)
		return nil
	}
	return addresses
}

func (c *Checkout) view(sess *models.CheckoutSession, addresses []models.Address) CheckoutView {
	v := CheckoutView{
		State:             sess.State,
		Cart:              c.cart.Cart(),
		Addresses:         addresses,
		SelectedAddressID: models.ID(sess.SelectedAddressID),
		PaymentMethod:     sess.PaymentMethod,
		PaymentMethods:    PaymentMethods,
		PaymentUnlocked:   sess.PaymentUnlocked(),
		LastError:         sess.LastError,
	}
	if q, ok := sess.Quote(); ok {
		v.Quote = &q
	}
	return v
}

// Begin opens the checkout page. The cart is reloaded first so a cart emptied
// elsewhere refuses to render. The persisted address is kept and quoted again
// when it still exists, otherwise the default (or first) address is selected
// and quoted.
func (c *Checkout) Begin(ctx context.Context) (CheckoutView, error) {
	c.flow.Lock()
	defer c.flow.Unlock()

	c.cart.Load(ctx)
	if c.cart.Cart().IsEmpty() {
		return CheckoutView{}, ErrEmptyCart
	}

	sess, err := c.session(ctx)
	if err != nil {
		return CheckoutView{}, err
	}

	addresses := c.addresses(ctx)
	if len(addresses) == 0 {
		sess.State = models.CheckoutNoAddress
		sess.SelectedAddressID = ""
		sess.ShippingConfirmed = false
		sess.ClearQuote()
		if err := c.save(ctx, sess); err != nil {
			return CheckoutView{}, err
		}
		return c.view(sess, addresses), nil
	}

	if current, ok := models.FindAddress(addresses, models.ID(sess.SelectedAddressID)); ok {
		// A failed quote stays failed until the shopper picks an address again.
		if sess.State == models.CheckoutShippingFailed {
			return c.view(sess, addresses), nil
		}
		// The server cart is shared by every device of the customer, so a
		// confirmation made here may have been replaced elsewhere.
		return c.selectAddress(ctx, sess, addresses, current.ID)
	}

	pick, _ := models.PickDefaultAddress(addresses)
	return c.selectAddress(ctx, sess, addresses, pick.ID)
}

// SelectAddress switches the shipping address and runs the two step
// confirmation: a shipping options preview, then the binding select-shipping
// call whose cart carries the new shipping and tax.
func (c *Checkout) SelectAddress(ctx context.Context, addressID models.ID) (CheckoutView, error) {
	c.flow.Lock()
	defer c.flow.Unlock()

	if c.cart.Cart().IsEmpty() {
		return CheckoutView{}, ErrEmptyCart
	}

	sess, err := c.session(ctx)
	if err != nil {
		return CheckoutView{}, err
	}
	addresses := c.addresses(ctx)
	return c.selectAddress(ctx, sess, addresses, addressID)
}

func (c *Checkout) selectAddress(ctx context.Context, sess *models.CheckoutSession, addresses []models.Address, addressID models.ID) (CheckoutView, error) {
	if _, ok := models.FindAddress(addresses, addressID); !ok {
		return c.view(sess, addresses), ErrUnknownAddress
	}

	sess.SelectedAddressID = addressID.String()
	sess.ShippingConfirmed = false
	sess.State = models.CheckoutAddressSelected
	sess.ClearQuote()
	sess.LastError = ""
	if err := c.save(ctx, sess); err != nil {
		return c.view(sess, addresses), err
	}

	quote, err := c.confirmShipping(ctx, addressID)
	if err != nil {
		log.Printf("Checkout.selectAddress: address %s: %v", addressID, err)
		sess.State = models.CheckoutShippingFailed
		sess.LastError = err.Error()
		if saveErr := c.save(ctx, sess); saveErr != nil {
			return c.view(sess, addresses), saveErr
		}
		return c.view(sess, addresses), fmt.Errorf("%w: %w", ErrShippingUnavailable, err)
	}

	sess.SetQuote(quote)
	sess.ShippingConfirmed = true
	sess.State = models.CheckoutShippingConfirmed
	if _, enabled := paymentMethodEnabled(sess.PaymentMethod); enabled {
		sess.State = models.CheckoutPaymentReady
	}
	if err := c.save(ctx, sess); err != nil {
		return c.view(sess, addresses), err
	}
	return c.view(sess, addresses), nil
}

func (c *Checkout) confirmShipping(ctx context.Context, addressID models.ID) (models.ShippingQuote, error) {
	options, err := c.backend.ShippingOptions(ctx, addressID)
	if err != nil {
		return models.ShippingQuote{}, err
	}
	if len(options) == 0 {
		return models.ShippingQuote{}, ErrNoShippingOptions
	}
	if _, err := c.cart.SelectShipping(ctx, addressID); err != nil {
		return models.ShippingQuote{}, err
	}
	return options[0], nil
}

func (c *Checkout) ChoosePaymentMethod(ctx context.Context, method string) (CheckoutView, error) {
	c.flow.Lock()
	defer c.flow.Unlock()

	sess, err := c.session(ctx)
	if err != nil {
		return CheckoutView{}, err
	}
	if !sess.ShippingConfirmed {
		return c.view(sess, nil), ErrShippingNotConfirmed
	}

	known, enabled := paymentMethodEnabled(method)
	switch {
	case !known:
		return c.view(sess, nil), ErrUnknownPaymentMethod
	case !enabled:
		return c.view(sess, nil), ErrPaymentMethodDisabled
	}

	sess.PaymentMethod = method
	sess.State = models.CheckoutPaymentReady
	if err := c.save(ctx, sess); err != nil {
		return c.view(sess, nil), err
	}
	return c.view(sess, nil), nil
}

// Submit places the order with the token produced by the payment widget.
func (c *Checkout) Submit(ctx context.Context, req SubmitRequest) (*CheckoutResult, error) {
	c.flow.Lock()
	defer c.flow.Unlock()

	sess, err := c.session(ctx)
	if err != nil {
		return nil, err
	}
	if !sess.PaymentUnlocked() {
		return nil, ErrShippingNotConfirmed
	}
	if c.cart.Cart().IsEmpty() {
		return nil, ErrEmptyCart
	}
	if req.TokenizationError != "" {
		return nil, &PaymentError{Stage: StageTokenization, Err: errors.New(req.TokenizationError)}
	}
	if req.PaymentMethodID == "" {
		return nil, &PaymentError{Stage: StageTokenization, Err: errors.New("no payment method token was received")}
	}
	if req.EcoPointsToRedeem < 0 {
		return nil, ErrInvalidEcoPoints
	}

	sess.State = models.CheckoutSubmitting
	sess.LastError = ""
	if err := c.save(ctx, sess); err != nil {
		return nil, err
	}

	order, err := c.cart.Checkout(ctx, other.CheckoutRequest{
		PaymentMethodID:   req.PaymentMethodID,
		EcoPointsToRedeem: req.EcoPointsToRedeem,
	})
	if err != nil {
		sess.State = models.CheckoutPaymentReady
		sess.LastError = err.Error()
		if saveErr := c.save(ctx, sess); saveErr != nil {
			log.Printf("Checkout.Submit: %v", saveErr)
		}
		return nil, &PaymentError{Stage: StageSubmission, Err: err}
	}

	sess.State = models.CheckoutComplete
	sess.ShippingConfirmed = false
	if order != nil {
		sess.OrderID = order.ID.String()
	}
	if err := c.save(ctx, sess); err != nil {
		log.Printf("Checkout.Submit: order placed but progress not saved: %v", err)
	}

	log.Printf("Checkout.Submit: session %s placed order %s", c.sessionID, sess.OrderID)
	return &CheckoutResult{Order: order, RedirectTo: OrderHistoryPath}, nil
}

// State returns the persisted flow state without touching the backend.
func (c *Checkout) State(ctx context.Context) (models.CheckoutState, bool, error) {
	sess, err := c.repo.Find(ctx, c.sessionID)
	if err != nil || sess == nil {
		return models.CheckoutNoAddress, false, err
	}
	return sess.State, sess.ShippingConfirmed, nil
}
