package http

import (
	"context"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
	jwtinfra "github.com/by22shh/buh-ai-assistant/internal/infrastructure/jwt"
	"github.com/by22shh/buh-ai-assistant/internal/infrastructure/mail"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
	SetAccess(ctx context.Context, userID string, g domain.AccessGrant) (*domain.User, error)
	IncrementDocumentUsage(ctx context.Context, userID string, limit int) (int, error)
	ReleaseDocumentUsage(ctx context.Context, userID string) error
}

// SessionRepository is the minimal interface the router requires from a session store.
type SessionRepository interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	// Take removes and returns the session; only one caller wins.
	Take(ctx context.Context, sessionID string) (*domain.Session, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// VerificationRepository is the minimal interface the router requires from a
// pending-verification store.
type VerificationRepository interface {
	Put(ctx context.Context, v *domain.PendingVerification) error
	Get(ctx context.Context, email string) (*domain.PendingVerification, error)
	Take(ctx context.Context, email, deliveryToken string, maxAttempts int) (*domain.PendingVerification, error)
	IncrementAttempts(ctx context.Context, email, deliveryToken string) (int, error)
	Delete(ctx context.Context, email string) error
}

// BucketStore is the minimal interface the router requires from a rate-limit counter store.
type BucketStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (int, error)
	Reset(ctx context.Context, key string) error
}

// OrganizationRepository is the minimal interface the router requires from an organization store.
type OrganizationRepository interface {
	Put(ctx context.Context, o *domain.Organization) error
	Get(ctx context.Context, orgID string) (*domain.Organization, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Organization, error)
	Delete(ctx context.Context, orgID string) error
}

// DocumentRepository is the minimal interface the router requires from a document store.
type DocumentRepository interface {
	Put(ctx context.Context, d *domain.Document) error
	Get(ctx context.Context, docID string) (*domain.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error)
	Delete(ctx context.Context, docID string) error
}

// TemplateRepository is the minimal interface the router requires from a template catalog store.
type TemplateRepository interface {
	Put(ctx context.Context, t *domain.Template) error
	Get(ctx context.Context, code string) (*domain.Template, error)
	List(ctx context.Context) ([]domain.Template, error)
}

// TemplateBodyStore is the minimal interface the router requires from the template body storage backend.
type TemplateBodyStore interface {
	GetBody(ctx context.Context, code string) (string, error)
	PutBody(ctx context.Context, code, body string) error
}

// TokenProvider signs and verifies session tokens.
type TokenProvider interface {
	Sign(userID, role, sessionID string, expiresAt time.Time) (string, error)
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}

// MailQueue accepts outbound mail without blocking.
type MailQueue interface {
	Enqueue(msg mail.Message) bool
}
