package services

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/repositories"
)

// ShopperSession is the isolated state of one browser session: identity, the
// cart it drives and the checkout in progress.
type ShopperSession struct {
	ID       string
	Identity *IdentityProvider
	Backend  *BackendSession
	Cart     *CartStore
	Checkout *Checkout

	restore  sync.Once
	lastSeen atomic.Int64
}

func NewShopperSession(id string, client *BackendClient, checkouts repositories.CheckoutSessionRepository) *ShopperSession {
	identity := NewIdentityProvider(client)
	backend := identity.Backend()
	cart := NewCartStore(backend)

	s := &ShopperSession{
		ID:       id,
		Identity: identity,
		Backend:  backend,
		Cart:     cart,
		Checkout: NewCheckout(id, checkouts, backend, cart),
	}
	identity.Subscribe(cart.OnSessionEvent)
	identity.Subscribe(s.Checkout.OnSessionEvent)
	return s
}

func (s *ShopperSession) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *ShopperSession) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

// SessionRegistry owns every live ShopperSession, keyed by the id kept in the
// browser cookie.
type SessionRegistry struct {
	client    *BackendClient
	checkouts repositories.CheckoutSessionRepository

	mu       sync.Mutex
	sessions map[string]*ShopperSession
	now      func() time.Time
}

func NewSessionRegistry(client *BackendClient, checkouts repositories.CheckoutSessionRepository) *SessionRegistry {
	return &SessionRegistry{
		client:    client,
		checkouts: checkouts,
		sessions:  make(map[string]*ShopperSession),
		now:       time.Now,
	}
}

// Get returns the session for id, creating it when unknown. A new session is
// restored from token once; concurrent callers wait for that restore.
func (r *SessionRegistry) Get(ctx context.Context, id, token string) *ShopperSession {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok {
		s = NewShopperSession(id, r.client, r.checkouts)
		r.sessions[id] = s
	}
	s.touch(r.now())
	r.mu.Unlock()

	s.restore.Do(func() {
		if token == "" {
			return
		}
		if _, err := s.Identity.Restore(ctx, token); err != nil {
			log.Printf("SessionRegistry.Get: could not restore session %s: %v", id, err)
		}
	})
	return s
}

// Forget drops the session, e.g. on logout.
func (r *SessionRegistry) Forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than maxIdle along with their stored
// checkout progress, and returns how many were removed.
func (r *SessionRegistry) Sweep(ctx context.Context, maxIdle time.Duration) int {
	now := r.now()

	r.mu.Lock()
	var evicted []string
	for id, s := range r.sessions {
		if s.idleSince(now) > maxIdle {
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	r.mu.Unlock()

	if removed, err := r.checkouts.DeleteStale(ctx, now.Add(-maxIdle)); err != nil {
		log.Printf("SessionRegistry.Sweep: %v", err)
	} else if removed > 0 {
		log.Printf("SessionRegistry.Sweep: removed %d stale checkout sessions", removed)
	}
	if len(evicted) > 0 {
		log.Printf("SessionRegistry.Sweep: evicted %d idle shopper sessions", len(evicted))
	}
	return len(evicted)
}

// RunSweeper sweeps every interval until ctx is done.
func (r *SessionRegistry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx, maxIdle)
		}
	}
}
