package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CheckoutSessionRepository persists the checkout flow of a browser session
// between requests. Find returns nil, nil when nothing is stored.
type CheckoutSessionRepository interface {
	Find(ctx context.Context, id string) (*models.CheckoutSession, error)
	Save(ctx context.Context, session *models.CheckoutSession) error
	Delete(ctx context.Context, id string) error
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

type GormCheckoutSessionRepository struct {
	db *gorm.DB
}

func NewGormCheckoutSessionRepository(db *gorm.DB) *GormCheckoutSessionRepository {
	return &GormCheckoutSessionRepository{db: db}
}

func (r *GormCheckoutSessionRepository) Find(ctx context.Context, id string) (*models.CheckoutSession, error) {
	var session models.CheckoutSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("GormCheckoutSessionRepository: Failed to find checkout session %s: %v", id, err)
		return nil, fmt.Errorf("failed to find checkout session: %w", err)
	}
	return &session, nil
}

func (r *GormCheckoutSessionRepository) Save(ctx context.Context, session *models.CheckoutSession) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(session).Error
	if err != nil {
		log.Printf("GormCheckoutSessionRepository: Failed to save checkout session %s: %v", session.ID, err)
		return fmt.Errorf("failed to save checkout session: %w", err)
	}
	return nil
}

func (r *GormCheckoutSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.CheckoutSession{}, "id = ?", id).Error; err != nil {
		log.Printf("GormCheckoutSessionRepository: Failed to delete checkout session %s: %v", id, err)
		return fmt.Errorf("failed to delete checkout session: %w", err)
	}
	return nil
}

func (r *GormCheckoutSessionRepository) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("updated_at < ?", before).Delete(&models.CheckoutSession{})
	if result.Error != nil {
		log.Printf("GormCheckoutSessionRepository: Failed to delete stale checkout sessions: %v", result.Error)
		return 0, fmt.Errorf("failed to delete stale checkout sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// MemoryCheckoutSessionRepository keeps checkout sessions in process memory.
// Stored values are copies, so callers may mutate what Find returns.
type MemoryCheckoutSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]models.CheckoutSession
	now      func() time.Time
}

func NewMemoryCheckoutSessionRepository() *MemoryCheckoutSessionRepository {
	return &MemoryCheckoutSessionRepository{
		sessions: make(map[string]models.CheckoutSession),
		now:      time.Now,
	}
}

func (r *MemoryCheckoutSessionRepository) Find(_ context.Context, id string) (*models.CheckoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (r *MemoryCheckoutSessionRepository) Save(_ context.Context, session *models.CheckoutSession) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("failed to save checkout session: missing id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if existing, ok := r.sessions[session.ID]; ok {
		session.CreatedAt = existing.CreatedAt
	} else if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	r.sessions[session.ID] = *session
	return nil
}

func (r *MemoryCheckoutSessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

func (r *MemoryCheckoutSessionRepository) DeleteStale(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, session := range r.sessions {
		if session.UpdatedAt.Before(before) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}
