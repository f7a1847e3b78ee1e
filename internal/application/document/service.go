package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/by22shh/buh-ai-assistant/internal/pkg/id"
	"github.com/by22shh/buh-ai-assistant/internal/pkg/validate"
)

type Service interface {
	List(ctx context.Context, ident *domain.Identity) ([]domain.Document, error)
	Get(ctx context.Context, ident *domain.Identity, docID string) (*domain.Document, error)
	Create(ctx context.Context, ident *domain.Identity, req domain.CreateDocumentRequest) (*domain.Document, error)
	Update(ctx context.Context, ident *domain.Identity, docID string, req domain.UpdateDocumentRequest) (*domain.Document, error)
	Delete(ctx context.Context, ident *domain.Identity, docID string) error
}

type documentStore interface {
	Put(ctx context.Context, d *domain.Document) error
	Get(ctx context.Context, docID string) (*domain.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error)
	Delete(ctx context.Context, docID string) error
}

// usageStore holds the per-user demo counter and access period.
type usageStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	IncrementDocumentUsage(ctx context.Context, userID string, limit int) (int, error)
	ReleaseDocumentUsage(ctx context.Context, userID string) error
}

type templateStore interface {
	Get(ctx context.Context, code string) (*domain.Template, error)
}

type orgStore interface {
	Get(ctx context.Context, orgID string) (*domain.Organization, error)
}

type service struct {
	repo      documentStore
	templates templateStore
	orgs      orgStore
	users     usageStore
	limit     int
	now       func() time.Time
}

type ServiceDeps struct {
	DocumentRepo     documentStore
	TemplateRepo     templateStore
	OrganizationRepo orgStore
	UserRepo         usageStore
	// DemoLimit caps the number of documents a user without unlimited
	// access or an active access period may ever create.
	DemoLimit int
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:      deps.DocumentRepo,
		templates: deps.TemplateRepo,
		orgs:      deps.OrganizationRepo,
		users:     deps.UserRepo,
		limit:     deps.DemoLimit,
		now:       time.Now,
	}
}

func (s *service) List(ctx context.Context, ident *domain.Identity) ([]domain.Document, error) {
	return s.repo.ListByOwner(ctx, ident.UserID)
}

func (s *service) Get(ctx context.Context, ident *domain.Identity, docID string) (*domain.Document, error) {
	d, err := s.repo.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !ident.Role.CanAccess(ident.UserID, d.OwnerID) {
		return nil, fmt.Errorf("document not found: %w", domain.ErrNotFound)
	}
	return d, nil
}

func (s *service) Create(ctx context.Context, ident *domain.Identity, req domain.CreateDocumentRequest) (*domain.Document, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	tpl, err := s.templates.Get(ctx, req.TemplateCode)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && !tpl.IsEnabled) {
		return nil, fmt.Errorf("template not found or disabled: %w", domain.ErrBadRequest)
	}
	if err != nil {
		return nil, err
	}
	if req.OrganizationID != nil {
		if err := s.checkOrganization(ctx, ident, *req.OrganizationID); err != nil {
			return nil, err
		}
	}

	demo, err := s.checkAccess(ctx, ident)
	if err != nil {
		return nil, err
	}
	if demo {
		// The slot is taken before the write so parallel creates on any
		// instance cannot overshoot the quota.
		if _, err := s.users.IncrementDocumentUsage(ctx, ident.UserID, s.limit); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	d := &domain.Document{
		DocumentID:      id.NewUUID(),
		OwnerID:         ident.UserID,
		TemplateCode:    tpl.Code,
		TemplateVersion: tpl.Version,
		HasBodyChat:     tpl.HasBodyChat,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.OrganizationID != nil {
		d.OrganizationID = *req.OrganizationID
	}
	if req.Title != nil {
		d.Title = *req.Title
	}
	if req.BodyText != nil {
		d.BodyText = *req.BodyText
	}
	if err := s.repo.Put(ctx, d); err != nil {
		if demo {
			if rerr := s.users.ReleaseDocumentUsage(ctx, ident.UserID); rerr != nil {
				slog.WarnContext(ctx, "release demo slot failed", "user_id", ident.UserID, "err", rerr)
			}
		}
		return nil, err
	}
	return d, nil
}

// checkAccess decides whether a create is allowed and whether it counts
// against the demo quota. An active access period lifts the quota; a period
// that has ended or not yet started blocks creation outright.
func (s *service) checkAccess(ctx context.Context, ident *domain.Identity) (demo bool, err error) {
	if ident.Role.HasUnlimitedDocuments() {
		return false, nil
	}
	u, err := s.users.Get(ctx, ident.UserID)
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}
	switch u.AccessState(s.now()) {
	case domain.AccessActive:
		return false, nil
	case domain.AccessExpired, domain.AccessPending:
		return false, domain.ErrAccessExpired
	default:
		return true, nil
	}
}

func (s *service) Update(ctx context.Context, ident *domain.Identity, docID string, req domain.UpdateDocumentRequest) (*domain.Document, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	d, err := s.Get(ctx, ident, docID)
	if err != nil {
		return nil, err
	}
	if req.OrganizationID != nil {
		if err := s.checkOrganization(ctx, ident, *req.OrganizationID); err != nil {
			return nil, err
		}
		d.OrganizationID = *req.OrganizationID
	}
	if req.Title != nil {
		d.Title = *req.Title
	}
	if req.BodyText != nil {
		d.BodyText = *req.BodyText
	}
	d.UpdatedAt = s.now().UTC()
	if err := s.repo.Put(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Delete(ctx context.Context, ident *domain.Identity, docID string) error {
	if _, err := s.Get(ctx, ident, docID); err != nil {
		return err
	}
	// A concurrent delete that got there first surfaces as ErrNotFound.
	return s.repo.Delete(ctx, docID)
}

// checkOrganization rejects references to organizations the caller does not own.
func (s *service) checkOrganization(ctx context.Context, ident *domain.Identity, orgID string) error {
	o, err := s.orgs.Get(ctx, orgID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("organization not found: %w", domain.ErrBadRequest)
	}
	if err != nil {
		return err
	}
	if !ident.Role.CanAccess(ident.UserID, o.OwnerID) {
		return fmt.Errorf("organization belongs to another user: %w", domain.ErrForbidden)
	}
	return nil
}
