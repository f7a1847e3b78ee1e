package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
)

// VerificationRepo keeps pending verifications keyed by email.
type VerificationRepo struct {
	mu    sync.Mutex
	items map[string]domain.PendingVerification
}

func NewVerificationRepo() *VerificationRepo {
	return &VerificationRepo{items: make(map[string]domain.PendingVerification)}
}

// Put replaces any existing record for the same email.
func (r *VerificationRepo) Put(_ context.Context, v *domain.PendingVerification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[v.Email] = *v
	return nil
}

func (r *VerificationRepo) Get(_ context.Context, email string) (*domain.PendingVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[email]
	if !ok {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	return &v, nil
}

// Take deletes and returns the record only if it still carries deliveryToken
// and is under the attempt cap. An exhausted record yields ErrRateLimited.
func (r *VerificationRepo) Take(_ context.Context, email, deliveryToken string, maxAttempts int) (*domain.PendingVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[email]
	if !ok || v.DeliveryToken != deliveryToken {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	if v.Exhausted(maxAttempts) {
		return nil, fmt.Errorf("attempt cap reached: %w", domain.ErrRateLimited)
	}
	delete(r.items, email)
	return &v, nil
}

// IncrementAttempts bumps the attempt counter of the record carrying
// deliveryToken and returns the new count.
func (r *VerificationRepo) IncrementAttempts(_ context.Context, email, deliveryToken string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[email]
	if !ok || v.DeliveryToken != deliveryToken {
		return 0, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	v.AttemptCount++
	r.items[email] = v
	return v.AttemptCount, nil
}

func (r *VerificationRepo) Delete(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, email)
	return nil
}

func (r *VerificationRepo) evictExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, v := range r.items {
		if v.Expired(now) {
			delete(r.items, k)
			n++
		}
	}
	return n
}
