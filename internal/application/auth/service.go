package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/application/audit"
	"github.com/by22shh/buh-ai-assistant/internal/application/session"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/by22shh/buh-ai-assistant/internal/infrastructure/mail"
	"github.com/by22shh/buh-ai-assistant/internal/pkg/keylock"
	"github.com/by22shh/buh-ai-assistant/internal/pkg/otp"
	pkgtoken "github.com/by22shh/buh-ai-assistant/internal/pkg/token"
	"github.com/by22shh/buh-ai-assistant/internal/pkg/validate"
)

type SendCodeRequest struct {
	Email string `json:"email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// SendResult carries the correlation token returned to the client. The code
// itself only travels by email.
type SendResult struct {
	Token string
}

type VerifyResult struct {
	User   *domain.User
	Issued *session.Issued
}

type Service interface {
	SendCode(ctx context.Context, email, addr string) (*SendResult, error)
	VerifyCode(ctx context.Context, email, code, addr string) (*VerifyResult, error)
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.PendingVerification) error
	Get(ctx context.Context, email string) (*domain.PendingVerification, error)
	Take(ctx context.Context, email, deliveryToken string, maxAttempts int) (*domain.PendingVerification, error)
	IncrementAttempts(ctx context.Context, email, deliveryToken string) (int, error)
	Delete(ctx context.Context, email string) error
}

type rateLimiter interface {
	Allow(ctx context.Context, action domain.RateLimitAction, email, addr string) error
	Reset(ctx context.Context, action domain.RateLimitAction, email string) error
}

type userResolver interface {
	ResolveByEmail(ctx context.Context, email string) (*domain.User, error)
}

type sessionIssuer interface {
	Issue(ctx context.Context, u *domain.User) (*session.Issued, error)
}

type mailQueue interface {
	Enqueue(msg mail.Message) bool
}

type service struct {
	verifications verificationStore
	limiter       rateLimiter
	users         userResolver
	sessions      sessionIssuer
	mail          mailQueue
	hasher        otp.Hasher
	locks         *keylock.Map
	audit         audit.Recorder
	codeTTL       time.Duration
	maxAttempts   int
	now           func() time.Time
	newCode       func() (string, error)
}

type ServiceDeps struct {
	VerificationRepo verificationStore
	RateLimiter      rateLimiter
	Users            userResolver
	Sessions         sessionIssuer
	Mail             mailQueue
	Hasher           otp.Hasher
	Locks            *keylock.Map
	Audit            audit.Recorder
	CodeTTL          time.Duration
	MaxAttempts      int
}

func NewService(deps ServiceDeps) Service {
	locks := deps.Locks
	if locks == nil {
		locks = keylock.New()
	}
	rec := deps.Audit
	if rec == nil {
		rec = audit.Nop{}
	}
	return &service{
		verifications: deps.VerificationRepo,
		limiter:       deps.RateLimiter,
		users:         deps.Users,
		sessions:      deps.Sessions,
		mail:          deps.Mail,
		hasher:        deps.Hasher,
		locks:         locks,
		audit:         rec,
		codeTTL:       deps.CodeTTL,
		maxAttempts:   deps.MaxAttempts,
		now:           time.Now,
		newCode:       otp.NewCode,
	}
}

// SendCode issues a fresh code for email, replacing any pending one.
func (s *service) SendCode(ctx context.Context, rawEmail, addr string) (*SendResult, error) {
	key := validate.NormalizeEmail(rawEmail)
	if err := s.limiter.Allow(ctx, domain.ActionSendCode, key, addr); err != nil {
		s.recordLimit(ctx, err, key, addr, "send-code")
		return nil, err
	}
	email, err := validate.Email(rawEmail)
	if err != nil {
		return nil, fmt.Errorf("invalid email format: %w", domain.ErrBadRequest)
	}

	code, err := s.newCode()
	if err != nil {
		return nil, err
	}
	codeHash, err := s.hasher.Hash(code)
	if err != nil {
		return nil, err
	}
	deliveryToken, err := pkgtoken.New(32)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	pv := &domain.PendingVerification{
		Email:         email,
		CodeHash:      codeHash,
		DeliveryToken: deliveryToken,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.codeTTL),
		ExpiresAtUnix: now.Add(s.codeTTL).Unix(),
	}

	unlock := s.locks.Lock(email)
	err = s.verifications.Put(ctx, pv)
	unlock()
	if err != nil {
		return nil, fmt.Errorf("store verification: %w", err)
	}

	// A new code starts a new verify budget for this email.
	if err := s.limiter.Reset(ctx, domain.ActionVerifyCode, email); err != nil {
		slog.WarnContext(ctx, "reset verify limit failed", "err", err)
	}
	s.mail.Enqueue(mail.LoginCodeMessage(email, code, s.codeTTL))
	s.audit.Record(ctx, audit.Event{Type: audit.LoginCodeSent, Email: email, IP: addr})
	return &SendResult{Token: deliveryToken}, nil
}

// VerifyCode checks code against the pending record for email. Every path
// through the lock performs one hash comparison and one store write, so the
// response time does not reveal whether a record exists or how close the
// guess was.
func (s *service) VerifyCode(ctx context.Context, rawEmail, code, addr string) (*VerifyResult, error) {
	key := validate.NormalizeEmail(rawEmail)
	if err := s.limiter.Allow(ctx, domain.ActionVerifyCode, key, addr); err != nil {
		s.recordLimit(ctx, err, key, addr, "verify-code")
		return nil, err
	}
	email, err := validate.Email(rawEmail)
	if err != nil {
		return nil, fmt.Errorf("invalid email format: %w", domain.ErrBadRequest)
	}
	if err := validate.OTPCode(code); err != nil {
		return nil, fmt.Errorf("code must be 6 digits: %w", domain.ErrBadRequest)
	}

	unlock := s.locks.Lock(email)
	defer unlock()

	rec, err := s.verifications.Get(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load verification: %w", err)
	}
	hash := s.hasher.DummyHash()
	if rec != nil {
		hash = rec.CodeHash
	}
	match := s.hasher.Compare(hash, code)

	switch {
	case rec == nil || rec.Expired(s.now()):
		if err := s.verifications.Delete(ctx, email); err != nil {
			return nil, fmt.Errorf("delete verification: %w", err)
		}
		return nil, s.fail(ctx, email, addr, "no pending code")

	case match && !rec.Exhausted(s.maxAttempts):
		// The store re-checks the cap: other instances may have counted
		// attempts since the read above.
		if _, err := s.verifications.Take(ctx, email, rec.DeliveryToken, s.maxAttempts); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, s.fail(ctx, email, addr, "code superseded")
			}
			if errors.Is(err, domain.ErrRateLimited) {
				s.audit.Record(ctx, audit.Event{Type: audit.RateLimitExceeded, Email: email, IP: addr, Detail: "attempt cap reached"})
				return nil, fmt.Errorf("too many attempts, request a new code: %w", domain.ErrRateLimited)
			}
			return nil, fmt.Errorf("consume verification: %w", err)
		}

	default:
		n, err := s.verifications.IncrementAttempts(ctx, email, rec.DeliveryToken)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, s.fail(ctx, email, addr, "code superseded")
		}
		if err != nil {
			return nil, fmt.Errorf("count attempt: %w", err)
		}
		if n >= s.maxAttempts {
			s.audit.Record(ctx, audit.Event{Type: audit.RateLimitExceeded, Email: email, IP: addr, Detail: "attempt cap reached"})
			return nil, fmt.Errorf("too many attempts, request a new code: %w", domain.ErrRateLimited)
		}
		return nil, s.fail(ctx, email, addr, "wrong code")
	}

	u, err := s.users.ResolveByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	issued, err := s.sessions.Issue(ctx, u)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, audit.Event{Type: audit.LoginSuccess, UserID: u.UserID, Email: email, IP: addr})
	return &VerifyResult{User: u, Issued: issued}, nil
}

func (s *service) fail(ctx context.Context, email, addr, detail string) error {
	s.audit.Record(ctx, audit.Event{Type: audit.LoginFailed, Email: email, IP: addr, Detail: detail})
	return domain.ErrInvalidCode
}

func (s *service) recordLimit(ctx context.Context, err error, email, addr, detail string) {
	if errors.Is(err, domain.ErrRateLimited) {
		s.audit.Record(ctx, audit.Event{Type: audit.RateLimitExceeded, Email: email, IP: addr, Detail: detail})
	}
}
