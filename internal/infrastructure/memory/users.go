package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
)

// UserRepo enforces email uniqueness under its own lock.
type UserRepo struct {
	mu      sync.RWMutex
	items   map[string]domain.User
	byEmail map[string]string
}

func NewUserRepo() *UserRepo {
	return &UserRepo{items: make(map[string]domain.User), byEmail: make(map[string]string)}
}

func (r *UserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[u.Email]; taken {
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	r.items[u.UserID] = *u
	r.byEmail[u.Email] = u.UserID
	return nil
}

func (r *UserRepo) Get(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[userID]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	u := r.items[id]
	return &u, nil
}

// Update replaces the stored user except for the usage counter and access
// period, which have their own writers. Changing the email to one owned by
// another account fails with ErrConflict and leaves both records intact.
func (r *UserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.items[u.UserID]
	if !ok {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if old.Email != u.Email {
		if owner, taken := r.byEmail[u.Email]; taken && owner != u.UserID {
			return fmt.Errorf("email already registered: %w", domain.ErrConflict)
		}
		delete(r.byEmail, old.Email)
		r.byEmail[u.Email] = u.UserID
	}
	next := *u
	next.DocumentsUsed = old.DocumentsUsed
	next.AccessFrom = old.AccessFrom
	next.AccessUntil = old.AccessUntil
	next.AccessUpdatedBy = old.AccessUpdatedBy
	next.AccessComment = old.AccessComment
	r.items[u.UserID] = next
	return nil
}

// List returns every user, newest first.
func (r *UserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.items))
	for _, u := range r.items {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepo) SetAccess(_ context.Context, userID string, g domain.AccessGrant) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[userID]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	u.AccessFrom = g.From
	u.AccessUntil = g.Until
	u.AccessUpdatedBy = g.UpdatedBy
	u.AccessComment = g.Comment
	u.UpdatedAt = time.Now().UTC()
	r.items[userID] = u
	return &u, nil
}

// IncrementDocumentUsage takes one demo slot if fewer than limit are used.
func (r *UserRepo) IncrementDocumentUsage(_ context.Context, userID string, limit int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[userID]
	if !ok {
		return 0, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if u.DocumentsUsed >= limit {
		return u.DocumentsUsed, fmt.Errorf("%d of %d used: %w", u.DocumentsUsed, limit, domain.ErrDemoLimit)
	}
	u.DocumentsUsed++
	r.items[userID] = u
	return u.DocumentsUsed, nil
}

// ReleaseDocumentUsage returns a slot taken for a document that was never stored.
func (r *UserRepo) ReleaseDocumentUsage(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[userID]
	if !ok {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if u.DocumentsUsed > 0 {
		u.DocumentsUsed--
		r.items[userID] = u
	}
	return nil
}
