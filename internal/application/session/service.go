package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
	jwtinfra "github.com/by22shh/buh-ai-assistant/internal/infrastructure/jwt"
	"github.com/by22shh/buh-ai-assistant/internal/pkg/id"
	pkgtoken "github.com/by22shh/buh-ai-assistant/internal/pkg/token"
)

// Issued is a freshly minted session with the credentials that go into
// cookies. Neither token is ever written into a response body.
type Issued struct {
	Session      *domain.Session
	Token        string
	RefreshToken string
}

type Service interface {
	Issue(ctx context.Context, u *domain.User) (*Issued, error)
	Validate(ctx context.Context, token string) (*domain.Identity, error)
	Refresh(ctx context.Context, refreshToken string) (*Issued, *domain.User, error)
	Revoke(ctx context.Context, sessionID string) error
	RevokeAll(ctx context.Context, userID string) error
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Take(ctx context.Context, sessionID string) (*domain.Session, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type tokenProvider interface {
	Sign(userID, role, sessionID string, expiresAt time.Time) (string, error)
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}

type service struct {
	sessions   sessionStore
	users      userStore
	tokens     tokenProvider
	sessionTTL time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type ServiceDeps struct {
	SessionRepo sessionStore
	UserRepo    userStore
	JWTProvider tokenProvider
	SessionTTL  time.Duration
	RefreshTTL  time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		sessions:   deps.SessionRepo,
		users:      deps.UserRepo,
		tokens:     deps.JWTProvider,
		sessionTTL: deps.SessionTTL,
		refreshTTL: deps.RefreshTTL,
		now:        time.Now,
	}
}

func (s *service) Issue(ctx context.Context, u *domain.User) (*Issued, error) {
	now := s.now().UTC()
	sess := &domain.Session{
		SessionID:        id.New(),
		UserID:           u.UserID,
		IssuedAt:         now,
		ExpiresAt:        now.Add(s.sessionTTL),
		RefreshExpiresAt: now.Add(s.refreshTTL),
	}
	sess.TTL = sess.RefreshExpiresAt.Unix()

	refresh, refreshHash, err := pkgtoken.NewRefreshToken(sess.SessionID)
	if err != nil {
		return nil, err
	}
	sess.RefreshHash = refreshHash

	signed, err := s.tokens.Sign(u.UserID, string(u.Role), sess.SessionID, sess.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &Issued{Session: sess, Token: signed, RefreshToken: refresh}, nil
}

// Validate resolves a session token to an identity. The session record must
// still exist, so logout takes effect before the token's own expiry.
func (s *service) Validate(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired session: %w", domain.ErrUnauthorized)
	}
	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("session revoked: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.UserID != claims.UserID || sess.Expired(s.now()) {
		return nil, fmt.Errorf("invalid or expired session: %w", domain.ErrUnauthorized)
	}
	u, err := s.users.Get(ctx, sess.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("session user gone: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &domain.Identity{UserID: u.UserID, Email: u.Email, Role: u.Role, SessionID: sess.SessionID}, nil
}

// Refresh rotates a session: the old record is taken out of the store first,
// so a refresh token can be redeemed at most once.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*Issued, *domain.User, error) {
	sid, ok := pkgtoken.SplitRefreshToken(refreshToken)
	if !ok {
		return nil, nil, fmt.Errorf("malformed refresh token: %w", domain.ErrUnauthorized)
	}
	old, err := s.sessions.Take(ctx, sid)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, fmt.Errorf("invalid or expired refresh token: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(pkgtoken.Hash(refreshToken)), []byte(old.RefreshHash)) != 1 {
		return nil, nil, fmt.Errorf("invalid or expired refresh token: %w", domain.ErrUnauthorized)
	}
	if !s.now().Before(old.RefreshExpiresAt) {
		return nil, nil, fmt.Errorf("refresh token expired: %w", domain.ErrUnauthorized)
	}
	u, err := s.users.Get(ctx, old.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, fmt.Errorf("session user gone: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	issued, err := s.Issue(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return issued, u, nil
}

func (s *service) Revoke(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

func (s *service) RevokeAll(ctx context.Context, userID string) error {
	return s.sessions.DeleteByUser(ctx, userID)
}
