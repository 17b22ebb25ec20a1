package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models/other"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingCredentials  = errors.New("email and password are required")
	ErrInvalidRegistration = errors.New("please fill in every field; passwords need at least 6 characters")
	ErrTokenExpired        = errors.New("session token has expired")
	ErrNoToken             = errors.New("backend did not return an access token")
	ErrSamePassword        = errors.New("the new password must differ from the current one")
)

type SessionEventKind int

const (
	SessionLoggedIn SessionEventKind = iota
	SessionRestored
	SessionLoggedOut
	SessionExpired
)

func (k SessionEventKind) String() string {
	switch k {
	case SessionLoggedIn:
		return "logged_in"
	case SessionRestored:
		return "restored"
	case SessionLoggedOut:
		return "logged_out"
	case SessionExpired:
		return "expired"
	}
	return "unknown"
}

// SessionEvent is emitted whenever the authenticated identity changes.
type SessionEvent struct {
	Kind SessionEventKind
	User *models.User
}

// Customer reports whether the event leaves an authenticated customer behind.
func (e SessionEvent) Customer() bool {
	return (e.Kind == SessionLoggedIn || e.Kind == SessionRestored) && e.User.HasRole(models.RoleCustomer)
}

// IdentityProvider holds the bearer token and the authenticated user of one
// shopper. It is the TokenSource of that shopper's backend session.
type IdentityProvider struct {
	client   *BackendClient
	backend  *BackendSession
	validate *validator.Validate

	mu          sync.RWMutex
	token       string
	user        *models.User
	subscribers []func(context.Context, SessionEvent)

	now func() time.Time
}

func NewIdentityProvider(client *BackendClient) *IdentityProvider {
	p := &IdentityProvider{
		client:   client,
		validate: validator.New(),
		now:      time.Now,
	}
	p.backend = client.Session(p)
	return p
}

// Subscribe registers fn for every later identity change. Handlers run
// synchronously in registration order on the goroutine that caused the change.
func (p *IdentityProvider) Subscribe(fn func(context.Context, SessionEvent)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, fn)
}

func (p *IdentityProvider) emit(ctx context.Context, ev SessionEvent) {
	p.mu.RLock()
	subs := make([]func(context.Context, SessionEvent), len(p.subscribers))
	copy(subs, p.subscribers)
	p.mu.RUnlock()

	for _, fn := range subs {
		fn(ctx, ev)
	}
}

// Backend is the shopper's backend session, authenticated with this
// provider's token.
func (p *IdentityProvider) Backend() *BackendSession {
	return p.backend
}

func (p *IdentityProvider) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

func (p *IdentityProvider) User() *models.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user
}

func (p *IdentityProvider) IsAuthenticated() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user != nil
}

func (p *IdentityProvider) HasRole(role string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user.HasRole(role)
}

// Invalidate drops the token after the backend refused it.
func (p *IdentityProvider) Invalidate() {
	p.mu.Lock()
	hadToken := p.token != ""
	p.token = ""
	p.user = nil
	p.mu.Unlock()

	if hadToken {
		p.emit(context.Background(), SessionEvent{Kind: SessionExpired})
	}
}

func (p *IdentityProvider) Login(ctx context.Context, req other.LoginRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := p.validate.Struct(req); err != nil {
		return nil, ErrMissingCredentials
	}

	resp, err := p.client.Session(nil).Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return p.adopt(ctx, resp)
}

// Register creates the account. When the backend answers without a token the
// new credentials are used to log in straight away.
func (p *IdentityProvider) Register(ctx context.Context, req other.RegisterRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := p.validate.Struct(req); err != nil {
		return nil, ErrInvalidRegistration
	}

	resp, err := p.client.Session(nil).Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	if resp.BearerToken() == "" {
		return p.Login(ctx, other.LoginRequest{Email: req.Email, Password: req.Password})
	}
	return p.adopt(ctx, resp)
}

func (p *IdentityProvider) adopt(ctx context.Context, resp *other.AuthResponse) (*models.User, error) {
	token := resp.BearerToken()
	if token == "" {
		return nil, ErrNoToken
	}

	user := resp.User
	if user == nil {
		var err error
		user, err = p.client.Session(staticToken(token)).Me(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
	}

	p.mu.Lock()
	p.token = token
	p.user = user
	p.mu.Unlock()

	log.Printf("IdentityProvider.adopt: user %s logged in with roles %v", user.ID, []string(user.Roles))
	p.emit(ctx, SessionEvent{Kind: SessionLoggedIn, User: user})
	return user, nil
}

// Restore rebuilds the identity from a token kept in the browser cookie. An
// expired JWT is dropped without asking the backend.
func (p *IdentityProvider) Restore(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	if expiredJWT(token, p.now()) {
		return nil, ErrTokenExpired
	}

	user, err := p.client.Session(staticToken(token)).Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	p.mu.Lock()
	p.token = token
	p.user = user
	p.mu.Unlock()

	p.emit(ctx, SessionEvent{Kind: SessionRestored, User: user})
	return user, nil
}

func (p *IdentityProvider) Logout(ctx context.Context) {
	p.mu.Lock()
	p.token = ""
	p.user = nil
	p.mu.Unlock()

	p.emit(ctx, SessionEvent{Kind: SessionLoggedOut})
}

// Refresh reloads the profile so eco points and names stay current. The
// identity itself does not change, so no event is emitted.
func (p *IdentityProvider) Refresh(ctx context.Context) (*models.User, error) {
	user, err := p.backend.Me(ctx)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.user == nil {
		return nil, ErrUnauthorized
	}
	p.user = user
	return user, nil
}

func (p *IdentityProvider) UpdateProfile(ctx context.Context, req other.UpdateProfileRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := p.validate.Struct(req); err != nil {
		return nil, err
	}
	if err := p.backend.UpdateProfile(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return p.Refresh(ctx)
}

func (p *IdentityProvider) ChangePassword(ctx context.Context, req other.ChangePasswordRequest) error {
	if err := p.validate.Struct(req); err != nil {
		return err
	}
	if req.CurrentPassword == req.NewPassword {
		return ErrSamePassword
	}
	if err := p.backend.ChangePassword(ctx, req); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	if user := p.User(); user != nil {
		log.Printf("IdentityProvider.ChangePassword: user %s changed password", user.ID)
	}
	return nil
}

// expiredJWT only inspects the exp claim; the backend verifies signatures.
// Tokens that are not JWTs are left for the backend to judge.
func expiredJWT(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

// staticToken is used before a token is adopted, so a 401 there must not
// clear the provider.
type staticToken string

func (t staticToken) Token() string { return string(t) }
func (t staticToken) Invalidate() {}
