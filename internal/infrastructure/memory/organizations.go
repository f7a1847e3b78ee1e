package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
)

type OrganizationRepo struct {
	mu    sync.RWMutex
	items map[string]domain.Organization
}

func NewOrganizationRepo() *OrganizationRepo {
	return &OrganizationRepo{items: make(map[string]domain.Organization)}
}

// Put creates or replaces an organization. The INN must be unique among the
// owner's organizations.
func (r *OrganizationRepo) Put(_ context.Context, o *domain.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.items {
		if other.OwnerID == o.OwnerID && other.INN == o.INN && other.OrganizationID != o.OrganizationID {
			return fmt.Errorf("organization with this INN already exists: %w", domain.ErrConflict)
		}
	}
	r.items[o.OrganizationID] = *o
	return nil
}

func (r *OrganizationRepo) Get(_ context.Context, orgID string) (*domain.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.items[orgID]
	if !ok {
		return nil, fmt.Errorf("organization not found: %w", domain.ErrNotFound)
	}
	return &o, nil
}

func (r *OrganizationRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Organization{}
	for _, o := range r.items {
		if o.OwnerID == ownerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *OrganizationRepo) GetByINN(_ context.Context, ownerID, inn string) (*domain.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.items {
		if o.OwnerID == ownerID && o.INN == inn {
			return &o, nil
		}
	}
	return nil, fmt.Errorf("organization not found: %w", domain.ErrNotFound)
}

func (r *OrganizationRepo) Delete(_ context.Context, orgID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[orgID]; !ok {
		return fmt.Errorf("organization not found: %w", domain.ErrNotFound)
	}
	delete(r.items, orgID)
	return nil
}
