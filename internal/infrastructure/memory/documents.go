package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
)

type DocumentRepo struct {
	mu    sync.RWMutex
	items map[string]domain.Document
}

func NewDocumentRepo() *DocumentRepo {
	return &DocumentRepo{items: make(map[string]domain.Document)}
}

func (r *DocumentRepo) Put(_ context.Context, d *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[d.DocumentID] = *d
	return nil
}

func (r *DocumentRepo) Get(_ context.Context, docID string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.items[docID]
	if !ok {
		return nil, fmt.Errorf("document not found: %w", domain.ErrNotFound)
	}
	return &d, nil
}

func (r *DocumentRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Document{}
	for _, d := range r.items {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *DocumentRepo) Delete(_ context.Context, docID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[docID]; !ok {
		return fmt.Errorf("document not found: %w", domain.ErrNotFound)
	}
	delete(r.items, docID)
	return nil
}
