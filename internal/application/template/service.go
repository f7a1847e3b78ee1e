package template

import (
	"context"
	"errors"
	"fmt"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/by22shh/buh-ai-assistant/internal/pkg/validate"
)

type Service interface {
	ListEnabled(ctx context.Context) ([]domain.Template, error)
	ListAll(ctx context.Context, ident *domain.Identity) ([]domain.Template, error)
	// Get returns an enabled template. Disabled templates are visible to
	// template managers only.
	Get(ctx context.Context, ident *domain.Identity, code string) (*domain.Template, error)
	Update(ctx context.Context, ident *domain.Identity, code string, req domain.UpdateTemplateRequest) (*domain.Template, error)
	GetBody(ctx context.Context, ident *domain.Identity, code string) (*domain.TemplateBody, error)
	PutBody(ctx context.Context, ident *domain.Identity, code string, req domain.PutTemplateBodyRequest) (*domain.TemplateBody, error)
	Seed(ctx context.Context) (int, error)
}

type templateStore interface {
	Put(ctx context.Context, t *domain.Template) error
	Get(ctx context.Context, code string) (*domain.Template, error)
	List(ctx context.Context) ([]domain.Template, error)
}

type bodyStore interface {
	GetBody(ctx context.Context, code string) (string, error)
	PutBody(ctx context.Context, code, body string) error
}

type service struct {
	repo   templateStore
	bodies bodyStore
}

type ServiceDeps struct {
	TemplateRepo templateStore
	BodyStore    bodyStore
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.TemplateRepo, bodies: deps.BodyStore}
}

func (s *service) ListEnabled(ctx context.Context) ([]domain.Template, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Template, 0, len(all))
	for _, t := range all {
		if t.IsEnabled {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *service) ListAll(ctx context.Context, ident *domain.Identity) ([]domain.Template, error) {
	if err := requireManager(ident); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, ident *domain.Identity, code string) (*domain.Template, error) {
	t, err := s.repo.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if !t.IsEnabled && (ident == nil || !ident.Role.CanManageTemplates()) {
		return nil, fmt.Errorf("template not found: %w", domain.ErrNotFound)
	}
	return t, nil
}

func (s *service) Update(ctx context.Context, ident *domain.Identity, code string, req domain.UpdateTemplateRequest) (*domain.Template, error) {
	if err := requireManager(ident); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	t, err := s.repo.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	req.Apply(t)
	if err := s.repo.Put(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) GetBody(ctx context.Context, ident *domain.Identity, code string) (*domain.TemplateBody, error) {
	if _, err := s.Get(ctx, ident, code); err != nil {
		return nil, err
	}
	body, err := s.bodies.GetBody(ctx, code)
	if err != nil {
		return nil, err
	}
	return &domain.TemplateBody{Code: code, Body: body}, nil
}

func (s *service) PutBody(ctx context.Context, ident *domain.Identity, code string, req domain.PutTemplateBodyRequest) (*domain.TemplateBody, error) {
	if err := requireManager(ident); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	if _, err := s.repo.Get(ctx, code); err != nil {
		return nil, err
	}
	if err := s.bodies.PutBody(ctx, code, req.Body); err != nil {
		return nil, fmt.Errorf("store template body: %w", err)
	}
	return &domain.TemplateBody{Code: code, Body: req.Body}, nil
}

// Seed inserts catalog entries that are missing from the store and leaves
// existing ones untouched. It returns the number of inserted templates.
func (s *service) Seed(ctx context.Context) (int, error) {
	n := 0
	for i := range defaultCatalog {
		t := defaultCatalog[i]
		_, err := s.repo.Get(ctx, t.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return n, err
		}
		t.Tags = append([]string(nil), t.Tags...)
		if err := s.repo.Put(ctx, &t); err != nil {
			return n, fmt.Errorf("seed template %s: %w", t.Code, err)
		}
		n++
	}
	return n, nil
}

func requireManager(ident *domain.Identity) error {
	if ident == nil || !ident.Role.CanManageTemplates() {
		return fmt.Errorf("admin access required: %w", domain.ErrForbidden)
	}
	return nil
}
