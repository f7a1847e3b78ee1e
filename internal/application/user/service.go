package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/by22shh/buh-ai-assistant/internal/pkg/id"
	"github.com/by22shh/buh-ai-assistant/internal/pkg/validate"
)

type Service interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	// ResolveByEmail returns the user owning email, creating it on first
	// successful verification.
	ResolveByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error)
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type service struct {
	repo       userStore
	adminEmail string
	now        func() time.Time
}

type ServiceDeps struct {
	UserRepo   userStore
	AdminEmail string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:       deps.UserRepo,
		adminEmail: validate.NormalizeEmail(deps.AdminEmail),
		now:        time.Now,
	}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) ResolveByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		if !u.EmailVerified {
			u.EmailVerified = true
			u.UpdatedAt = s.now().UTC()
			if err := s.repo.Update(ctx, u); err != nil {
				return nil, fmt.Errorf("mark email verified: %w", err)
			}
		}
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	now := s.now().UTC()
	u = &domain.User{
		UserID:        id.New(),
		Email:         email,
		Role:          domain.RoleUser,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if s.adminEmail != "" && email == s.adminEmail {
		u.Role = domain.RoleAdmin
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// Lost a creation race; the other writer's record wins.
		if errors.Is(err, domain.ErrConflict) {
			return s.repo.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Email != nil {
		email, err := validate.Email(*req.Email)
		if err != nil {
			return nil, fmt.Errorf("invalid email format: %w", domain.ErrBadRequest)
		}
		if email != u.Email {
			// Changing the address drops the verified flag until it is
			// confirmed through a new code.
			u.Email = email
			u.EmailVerified = false
		}
	}
	if req.FirstName != nil {
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Position != nil {
		u.Position = strings.TrimSpace(*req.Position)
	}
	if req.Company != nil {
		u.Company = strings.TrimSpace(*req.Company)
	}
	u.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
