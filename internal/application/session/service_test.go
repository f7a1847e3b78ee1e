package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
	jwtinfra "github.com/by22shh/buh-ai-assistant/internal/infrastructure/jwt"
	"github.com/by22shh/buh-ai-assistant/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Put(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) Take(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) Delete(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}
func (m *mockSessionStore) DeleteByUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// --- helpers ---

type fixture struct {
	svc      Service
	sessions *memory.SessionRepo
	users    *memory.UserRepo
	user     *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p, err := jwtinfra.NewEphemeralProvider()
	require.NoError(t, err)
	sessions := memory.NewSessionRepo()
	users := memory.NewUserRepo()
	u := &domain.User{UserID: "u1", Email: "a@x.com", Role: domain.RoleUser}
	require.NoError(t, users.Create(context.Background(), u))
	svc := NewService(ServiceDeps{
		SessionRepo: sessions,
		UserRepo:    users,
		JWTProvider: p,
		SessionTTL:  time.Hour,
		RefreshTTL:  24 * time.Hour,
	})
	return &fixture{svc: svc, sessions: sessions, users: users, user: u}
}

// --- tests ---

func TestIssue_ValidateRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	issued, err := f.svc.Issue(ctx, f.user)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.True(t, strings.HasPrefix(issued.RefreshToken, issued.Session.SessionID+"."))
	assert.NotEqual(t, issued.RefreshToken, issued.Session.RefreshHash)

	ident, err := f.svc.Validate(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", ident.UserID)
	assert.Equal(t, "a@x.com", ident.Email)
	assert.Equal(t, domain.RoleUser, ident.Role)
	assert.Equal(t, issued.Session.SessionID, ident.SessionID)
}

func TestValidate_GarbageToken(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Validate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidate_AfterRevoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issued, err := f.svc.Issue(ctx, f.user)
	require.NoError(t, err)

	require.NoError(t, f.svc.Revoke(ctx, issued.Session.SessionID))
	_, err = f.svc.Validate(ctx, issued.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRevokeAll_KillsEverySession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.Issue(ctx, f.user)
	require.NoError(t, err)
	b, err := f.svc.Issue(ctx, f.user)
	require.NoError(t, err)

	require.NoError(t, f.svc.RevokeAll(ctx, "u1"))
	_, err = f.svc.Validate(ctx, a.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.svc.Validate(ctx, b.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidate_UsesCurrentRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issued, err := f.svc.Issue(ctx, f.user)
	require.NoError(t, err)

	promoted := *f.user
	promoted.Role = domain.RoleAdmin
	require.NoError(t, f.users.Update(ctx, &promoted))

	ident, err := f.svc.Validate(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, ident.Role)
}

func TestRefresh_RotatesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.svc.Issue(ctx, f.user)
	require.NoError(t, err)

	second, u, err := f.svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)
	assert.NotEqual(t, first.Session.SessionID, second.Session.SessionID)

	// old session is gone, the new one works
	_, err = f.svc.Validate(ctx, first.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.svc.Validate(ctx, second.Token)
	assert.NoError(t, err)

	// replay fails
	_, _, err = f.svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefresh_WrongSecretBurnsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issued, err := f.svc.Issue(ctx, f.user)
	require.NoError(t, err)

	forged := issued.Session.SessionID + "." + strings.Repeat("0", 64)
	_, _, err = f.svc.Refresh(ctx, forged)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.svc.Validate(ctx, issued.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefresh_Malformed(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidate_StoreFailureIsNotUnauthorized(t *testing.T) {
	p, err := jwtinfra.NewEphemeralProvider()
	require.NoError(t, err)
	ss := new(mockSessionStore)
	ss.On("Get", mock.Anything, "s1").Return(nil, errors.New("dynamo timeout"))
	svc := NewService(ServiceDeps{SessionRepo: ss, UserRepo: memory.NewUserRepo(), JWTProvider: p, SessionTTL: time.Hour})

	signed, err := p.Sign("u1", "user", "s1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = svc.Validate(context.Background(), signed)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
	ss.AssertExpectations(t)
}

func TestIssue_StoreFailure(t *testing.T) {
	p, err := jwtinfra.NewEphemeralProvider()
	require.NoError(t, err)
	ss := new(mockSessionStore)
	ss.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(errors.New("boom"))
	svc := NewService(ServiceDeps{SessionRepo: ss, JWTProvider: p, SessionTTL: time.Hour})

	_, err = svc.Issue(context.Background(), &domain.User{UserID: "u1", Role: domain.RoleUser})
	assert.ErrorContains(t, err, "store session")
}
