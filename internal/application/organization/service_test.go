package organization

import (
	"context"
	"testing"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/by22shh/buh-ai-assistant/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = &domain.Identity{UserID: "u-alice", Role: domain.RoleUser}
	bob   = &domain.Identity{UserID: "u-bob", Role: domain.RoleUser}
	admin = &domain.Identity{UserID: "u-admin", Role: domain.RoleAdmin}
)

func validRequest() domain.CreateOrganizationRequest {
	return domain.CreateOrganizationRequest{
		NameFull:     "ООО Ромашка",
		INN:          "7707083893",
		KPP:          "773601001",
		AddressLegal: "Москва, ул. Вавилова, 19",
	}
}

func TestCreate_OwnedByCaller(t *testing.T) {
	svc := NewService(memory.NewOrganizationRepo())
	o, err := svc.Create(context.Background(), alice, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "u-alice", o.OwnerID)
	assert.Len(t, o.OrganizationID, 36)

	list, err := svc.List(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(memory.NewOrganizationRepo())
	cases := map[string]func(r *domain.CreateOrganizationRequest){
		"inn 11 digits":   func(r *domain.CreateOrganizationRequest) { r.INN = "12345678901" },
		"inn letters":     func(r *domain.CreateOrganizationRequest) { r.INN = "12345abcde" },
		"kpp 8 digits":    func(r *domain.CreateOrganizationRequest) { r.KPP = "12345678" },
		"short name":      func(r *domain.CreateOrganizationRequest) { r.NameFull = "ab" },
		"bad account":     func(r *domain.CreateOrganizationRequest) { r.SettlementAccount = "123" },
		"missing address": func(r *domain.CreateOrganizationRequest) { r.AddressLegal = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(&req)
			_, err := svc.Create(context.Background(), alice, req)
			assert.ErrorIs(t, err, domain.ErrBadRequest)
		})
	}
}

func TestCreate_DuplicateINNSameOwner(t *testing.T) {
	svc := NewService(memory.NewOrganizationRepo())
	ctx := context.Background()
	_, err := svc.Create(ctx, alice, validRequest())
	require.NoError(t, err)

	_, err = svc.Create(ctx, alice, validRequest())
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.Create(ctx, bob, validRequest())
	assert.NoError(t, err, "another owner may register the same INN")
}

func TestForeignOrganizationLooksMissing(t *testing.T) {
	svc := NewService(memory.NewOrganizationRepo())
	ctx := context.Background()
	o, err := svc.Create(ctx, alice, validRequest())
	require.NoError(t, err)

	for _, who := range []*domain.Identity{bob, admin} {
		_, err = svc.Get(ctx, who, o.OrganizationID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		name := "Захват"
		_, err = svc.Update(ctx, who, o.OrganizationID, domain.UpdateOrganizationRequest{NameFull: &name})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, who, o.OrganizationID), domain.ErrNotFound)
	}

	got, err := svc.Get(ctx, alice, o.OrganizationID)
	require.NoError(t, err)
	assert.Equal(t, "ООО Ромашка", got.NameFull)
}

func TestUpdate_PartialAndValidated(t *testing.T) {
	svc := NewService(memory.NewOrganizationRepo())
	ctx := context.Background()
	o, err := svc.Create(ctx, alice, validRequest())
	require.NoError(t, err)

	bad := "99"
	_, err = svc.Update(ctx, alice, o.OrganizationID, domain.UpdateOrganizationRequest{KPP: &bad})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	phone := "+7 495 000-00-00"
	got, err := svc.Update(ctx, alice, o.OrganizationID, domain.UpdateOrganizationRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, got.Phone)
	assert.Equal(t, "773601001", got.KPP)
}

func TestDelete(t *testing.T) {
	svc := NewService(memory.NewOrganizationRepo())
	ctx := context.Background()
	o, err := svc.Create(ctx, alice, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, alice, o.OrganizationID))
	_, err = svc.Get(ctx, alice, o.OrganizationID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
