package organization

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/by22shh/buh-ai-assistant/internal/pkg/id"
	"github.com/by22shh/buh-ai-assistant/internal/pkg/validate"
)

type Service interface {
	List(ctx context.Context, ident *domain.Identity) ([]domain.Organization, error)
	Get(ctx context.Context, ident *domain.Identity, orgID string) (*domain.Organization, error)
	Create(ctx context.Context, ident *domain.Identity, req domain.CreateOrganizationRequest) (*domain.Organization, error)
	Update(ctx context.Context, ident *domain.Identity, orgID string, req domain.UpdateOrganizationRequest) (*domain.Organization, error)
	Delete(ctx context.Context, ident *domain.Identity, orgID string) error
}

type orgStore interface {
	Put(ctx context.Context, o *domain.Organization) error
	Get(ctx context.Context, orgID string) (*domain.Organization, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Organization, error)
	Delete(ctx context.Context, orgID string) error
}

type service struct {
	repo orgStore
	now  func() time.Time
}

func NewService(repo orgStore) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) List(ctx context.Context, ident *domain.Identity) ([]domain.Organization, error) {
	return s.repo.ListByOwner(ctx, ident.UserID)
}

// Get returns the organization only if ident owns it. Foreign organizations
// are reported as missing.
func (s *service) Get(ctx context.Context, ident *domain.Identity, orgID string) (*domain.Organization, error) {
	o, err := s.repo.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !ident.Role.CanAccess(ident.UserID, o.OwnerID) {
		return nil, fmt.Errorf("organization not found: %w", domain.ErrNotFound)
	}
	return o, nil
}

func (s *service) Create(ctx context.Context, ident *domain.Identity, req domain.CreateOrganizationRequest) (*domain.Organization, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	now := s.now().UTC()
	o := &domain.Organization{
		OrganizationID:    id.NewUUID(),
		OwnerID:           ident.UserID,
		NameFull:          req.NameFull,
		NameShort:         req.NameShort,
		INN:               req.INN,
		KPP:               req.KPP,
		OGRN:              req.OGRN,
		AddressLegal:      req.AddressLegal,
		AddressPostal:     req.AddressPostal,
		Phone:             req.Phone,
		Email:             req.Email,
		BankName:          req.BankName,
		BankBIK:           req.BankBIK,
		BankCorrAccount:   req.BankCorrAccount,
		SettlementAccount: req.SettlementAccount,
		CEOName:           req.CEOName,
		CEOPosition:       req.CEOPosition,
		AccountantName:    req.AccountantName,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Put(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) Update(ctx context.Context, ident *domain.Identity, orgID string, req domain.UpdateOrganizationRequest) (*domain.Organization, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	o, err := s.Get(ctx, ident, orgID)
	if err != nil {
		return nil, err
	}
	req.Apply(o)
	o.UpdatedAt = s.now().UTC()
	if err := s.repo.Put(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) Delete(ctx context.Context, ident *domain.Identity, orgID string) error {
	if _, err := s.Get(ctx, ident, orgID); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, orgID)
	if errors.Is(err, domain.ErrNotFound) {
		// removed concurrently
		return nil
	}
	return err
}
