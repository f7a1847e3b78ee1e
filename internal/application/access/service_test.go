package access

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/application/audit"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/by22shh/buh-ai-assistant/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminIdent = &domain.Identity{UserID: "u-admin", Role: domain.RoleAdmin}
	userIdent  = &domain.Identity{UserID: "u-alice", Role: domain.RoleUser}
)

type captureRecorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *captureRecorder) Record(_ context.Context, e audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

type fixture struct {
	svc   *service
	users *memory.UserRepo
	rec   *captureRecorder
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	users := memory.NewUserRepo()
	require.NoError(t, users.Create(ctx, &domain.User{UserID: "u-admin", Email: "admin@x.com", Role: domain.RoleAdmin}))
	require.NoError(t, users.Create(ctx, &domain.User{UserID: "u-alice", Email: "alice@x.com", Role: domain.RoleUser, DocumentsUsed: 2}))
	require.NoError(t, users.Create(ctx, &domain.User{UserID: "u-bob", Email: "bob@x.com", Role: domain.RoleUser}))

	f := &fixture{users: users, rec: &captureRecorder{}, now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	f.svc = NewService(ServiceDeps{UserRepo: users, Audit: f.rec, DemoLimit: 5}).(*service)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func TestGrant_SetsPeriodAndActor(t *testing.T) {
	f := newFixture(t)
	end := f.now.Add(30 * 24 * time.Hour)

	v, err := f.svc.Grant(context.Background(), adminIdent, "u-alice", domain.UpdateAccessRequest{EndDate: &end, Comment: " invoice 42 "})
	require.NoError(t, err)
	assert.Equal(t, domain.AccessActive, v.Status)
	assert.Equal(t, "admin@x.com", v.UpdatedBy)
	assert.Equal(t, "invoice 42", v.Comment)
	assert.True(t, v.StartDate.Equal(f.now), "start defaults to now")
	assert.Equal(t, 2, v.DocumentsUsed)
	assert.Equal(t, 5, v.DocumentsLimit)

	require.Len(t, f.rec.events, 1)
	assert.Equal(t, audit.AccessGranted, f.rec.events[0].Type)
}

func TestGrant_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	past := f.now.Add(-time.Hour)
	start := f.now.Add(48 * time.Hour)
	end := f.now.Add(24 * time.Hour)

	_, err := f.svc.Grant(ctx, adminIdent, "u-alice", domain.UpdateAccessRequest{})
	assert.ErrorIs(t, err, domain.ErrBadRequest, "end date required")
	_, err = f.svc.Grant(ctx, adminIdent, "u-alice", domain.UpdateAccessRequest{EndDate: &past})
	assert.ErrorIs(t, err, domain.ErrBadRequest, "end before implicit start")
	_, err = f.svc.Grant(ctx, adminIdent, "u-alice", domain.UpdateAccessRequest{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, domain.ErrBadRequest, "end before start")

	later := f.now.Add(time.Hour)
	_, err = f.svc.Grant(ctx, adminIdent, "ghost", domain.UpdateAccessRequest{EndDate: &later})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.Grant(ctx, adminIdent, "u-admin", domain.UpdateAccessRequest{EndDate: &later})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRevoke_ClearsPeriod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	end := f.now.Add(time.Hour)
	_, err := f.svc.Grant(ctx, adminIdent, "u-bob", domain.UpdateAccessRequest{EndDate: &end})
	require.NoError(t, err)

	v, err := f.svc.Revoke(ctx, adminIdent, "u-bob")
	require.NoError(t, err)
	assert.Equal(t, domain.AccessNone, v.Status)
	assert.Nil(t, v.EndDate)
	assert.Equal(t, audit.AccessRevoked, f.rec.events[len(f.rec.events)-1].Type)
}

func TestListAndSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.svc.List(ctx, adminIdent)
	require.NoError(t, err)
	assert.Len(t, list, 2, "administrators are not listed")

	v, err := f.svc.Search(ctx, adminIdent, domain.SearchAccessRequest{Email: " Alice@X.com "})
	require.NoError(t, err)
	assert.Equal(t, "u-alice", v.UserID)

	_, err = f.svc.Search(ctx, adminIdent, domain.SearchAccessRequest{Email: "nobody@x.com"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.Search(ctx, adminIdent, domain.SearchAccessRequest{Email: "admin@x.com"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.Search(ctx, adminIdent, domain.SearchAccessRequest{Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestNonAdminIsForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	end := f.now.Add(time.Hour)

	_, err := f.svc.List(ctx, userIdent)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.Get(ctx, userIdent, "u-bob")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.Grant(ctx, userIdent, "u-alice", domain.UpdateAccessRequest{EndDate: &end})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
