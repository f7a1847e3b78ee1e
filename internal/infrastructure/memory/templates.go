package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
)

type TemplateRepo struct {
	mu    sync.RWMutex
	items map[string]domain.Template
}

func NewTemplateRepo() *TemplateRepo {
	return &TemplateRepo{items: make(map[string]domain.Template)}
}

func (r *TemplateRepo) Put(_ context.Context, t *domain.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[t.Code] = *t
	return nil
}

func (r *TemplateRepo) Get(_ context.Context, code string) (*domain.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[code]
	if !ok {
		return nil, fmt.Errorf("template not found: %w", domain.ErrNotFound)
	}
	return &t, nil
}

func (r *TemplateRepo) List(_ context.Context) ([]domain.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Template, 0, len(r.items))
	for _, t := range r.items {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// BodyStore keeps template bodies in memory, mirroring the S3 store.
type BodyStore struct {
	mu     sync.RWMutex
	bodies map[string]string
}

func NewBodyStore() *BodyStore {
	return &BodyStore{bodies: make(map[string]string)}
}

func (s *BodyStore) GetBody(_ context.Context, code string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bodies[code]
	if !ok {
		return "", fmt.Errorf("template body not found: %w", domain.ErrNotFound)
	}
	return b, nil
}

func (s *BodyStore) PutBody(_ context.Context, code, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[code] = body
	return nil
}
