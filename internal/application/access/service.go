// Package access lets administrators grant time-limited access periods that
// lift the demo document quota.
package access

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/application/audit"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/by22shh/buh-ai-assistant/internal/pkg/validate"
)

type Service interface {
	List(ctx context.Context, ident *domain.Identity) ([]domain.AccessView, error)
	Get(ctx context.Context, ident *domain.Identity, userID string) (*domain.AccessView, error)
	Grant(ctx context.Context, ident *domain.Identity, userID string, req domain.UpdateAccessRequest) (*domain.AccessView, error)
	Revoke(ctx context.Context, ident *domain.Identity, userID string) (*domain.AccessView, error)
	// Search finds a manageable user by exact email.
	Search(ctx context.Context, ident *domain.Identity, req domain.SearchAccessRequest) (*domain.AccessView, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SetAccess(ctx context.Context, userID string, g domain.AccessGrant) (*domain.User, error)
}

type service struct {
	users     userStore
	audit     audit.Recorder
	demoLimit int
	now       func() time.Time
}

type ServiceDeps struct {
	UserRepo  userStore
	Audit     audit.Recorder
	DemoLimit int
}

func NewService(deps ServiceDeps) Service {
	rec := deps.Audit
	if rec == nil {
		rec = audit.Nop{}
	}
	return &service{
		users:     deps.UserRepo,
		audit:     rec,
		demoLimit: deps.DemoLimit,
		now:       time.Now,
	}
}

func (s *service) List(ctx context.Context, ident *domain.Identity) ([]domain.AccessView, error) {
	if err := authorize(ident); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]domain.AccessView, 0, len(users))
	for i := range users {
		if users[i].Role == domain.RoleAdmin {
			continue
		}
		out = append(out, s.view(&users[i], now))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, ident *domain.Identity, userID string) (*domain.AccessView, error) {
	u, err := s.target(ctx, ident, userID)
	if err != nil {
		return nil, err
	}
	v := s.view(u, s.now())
	return &v, nil
}

func (s *service) Grant(ctx context.Context, ident *domain.Identity, userID string, req domain.UpdateAccessRequest) (*domain.AccessView, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	now := s.now().UTC()
	from := now
	if req.StartDate != nil {
		from = req.StartDate.UTC()
	}
	until := req.EndDate.UTC()
	if !until.After(from) {
		return nil, fmt.Errorf("end date must be after start date: %w", domain.ErrBadRequest)
	}
	if _, err := s.target(ctx, ident, userID); err != nil {
		return nil, err
	}
	u, err := s.users.SetAccess(ctx, userID, domain.AccessGrant{
		From:      &from,
		Until:     &until,
		UpdatedBy: s.actor(ctx, ident),
		Comment:   strings.TrimSpace(req.Comment),
	})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, audit.Event{
		Type:   audit.AccessGranted,
		UserID: userID,
		Email:  u.Email,
		Detail: fmt.Sprintf("%s..%s by %s", from.Format(time.RFC3339), until.Format(time.RFC3339), ident.UserID),
	})
	v := s.view(u, now)
	return &v, nil
}

func (s *service) Revoke(ctx context.Context, ident *domain.Identity, userID string) (*domain.AccessView, error) {
	if _, err := s.target(ctx, ident, userID); err != nil {
		return nil, err
	}
	u, err := s.users.SetAccess(ctx, userID, domain.AccessGrant{UpdatedBy: s.actor(ctx, ident)})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, audit.Event{Type: audit.AccessRevoked, UserID: userID, Email: u.Email, Detail: "by " + ident.UserID})
	v := s.view(u, s.now())
	return &v, nil
}

func (s *service) Search(ctx context.Context, ident *domain.Identity, req domain.SearchAccessRequest) (*domain.AccessView, error) {
	if err := authorize(ident); err != nil {
		return nil, err
	}
	email, err := validate.Email(req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid email format: %w", domain.ErrBadRequest)
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u.Role == domain.RoleAdmin {
		return nil, fmt.Errorf("administrator access cannot be managed: %w", domain.ErrForbidden)
	}
	v := s.view(u, s.now())
	return &v, nil
}

// target loads a user whose access the caller may change.
func (s *service) target(ctx context.Context, ident *domain.Identity, userID string) (*domain.User, error) {
	if err := authorize(ident); err != nil {
		return nil, err
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role == domain.RoleAdmin {
		return nil, fmt.Errorf("administrator access cannot be managed: %w", domain.ErrForbidden)
	}
	return u, nil
}

// actor names the administrator in the access record, by email when known.
func (s *service) actor(ctx context.Context, ident *domain.Identity) string {
	if u, err := s.users.Get(ctx, ident.UserID); err == nil {
		return u.Email
	}
	return ident.UserID
}

func (s *service) view(u *domain.User, now time.Time) domain.AccessView {
	return domain.AccessView{
		UserID:         u.UserID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           u.Role,
		Status:         u.AccessState(now),
		StartDate:      u.AccessFrom,
		EndDate:        u.AccessUntil,
		UpdatedBy:      u.AccessUpdatedBy,
		Comment:        u.AccessComment,
		DocumentsUsed:  u.DocumentsUsed,
		DocumentsLimit: s.demoLimit,
		CreatedAt:      u.CreatedAt,
	}
}

func authorize(ident *domain.Identity) error {
	if ident == nil || !ident.Role.CanManageAccess() {
		return fmt.Errorf("access management requires admin: %w", domain.ErrForbidden)
	}
	return nil
}
