package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/config"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
)

// Policy is a fixed-window threshold.
type Policy struct {
	Limit  int
	Window time.Duration
}

// ActionPolicy pairs the per-email and per-address thresholds of one action.
type ActionPolicy struct {
	PerEmail Policy
	PerAddr  Policy
}

type Service interface {
	// Allow counts one attempt of action against both the email and the
	// source address and fails with ErrRateLimited if either is over.
	Allow(ctx context.Context, action domain.RateLimitAction, email, addr string) error
	// Reset clears the per-email counter of action.
	Reset(ctx context.Context, action domain.RateLimitAction, email string) error
}

type bucketStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (int, error)
	Reset(ctx context.Context, key string) error
}

type service struct {
	store    bucketStore
	policies map[domain.RateLimitAction]ActionPolicy
}

type ServiceDeps struct {
	Store    bucketStore
	Policies map[domain.RateLimitAction]ActionPolicy
}

// PoliciesFromConfig builds the send and verify policies from configuration.
func PoliciesFromConfig(c config.RateLimit) map[domain.RateLimitAction]ActionPolicy {
	return map[domain.RateLimitAction]ActionPolicy{
		domain.ActionSendCode: {
			PerEmail: Policy{Limit: c.SendPerEmail, Window: c.SendPerEmailWindow},
			PerAddr:  Policy{Limit: c.SendPerAddr, Window: c.SendPerAddrWindow},
		},
		domain.ActionVerifyCode: {
			PerEmail: Policy{Limit: c.VerifyPerEmail, Window: c.VerifyPerEmailWindow},
			PerAddr:  Policy{Limit: c.VerifyPerAddr, Window: c.VerifyPerAddrWindow},
		},
	}
}

func NewService(deps ServiceDeps) Service {
	return &service{store: deps.Store, policies: deps.Policies}
}

func (s *service) Allow(ctx context.Context, action domain.RateLimitAction, email, addr string) error {
	p, ok := s.policies[action]
	if !ok {
		return fmt.Errorf("no rate limit policy for %q", action)
	}
	// Both counters are always hit so the cost does not depend on which one trips.
	emailCount, emailErr := s.store.Hit(ctx, key(action, "email", email), p.PerEmail.Window)
	addrCount, addrErr := s.store.Hit(ctx, key(action, "addr", addr), p.PerAddr.Window)
	if err := errors.Join(emailErr, addrErr); err != nil {
		return fmt.Errorf("rate limit store: %w", err)
	}
	if emailCount > p.PerEmail.Limit || addrCount > p.PerAddr.Limit {
		return fmt.Errorf("too many requests, try again later: %w", domain.ErrRateLimited)
	}
	return nil
}

func (s *service) Reset(ctx context.Context, action domain.RateLimitAction, email string) error {
	return s.store.Reset(ctx, key(action, "email", email))
}

// key hashes the subject so raw emails and addresses never reach the store.
func key(action domain.RateLimitAction, kind, subject string) string {
	sum := sha256.Sum256([]byte(subject))
	return "rl:" + string(action) + ":" + kind + ":" + hex.EncodeToString(sum[:16])
}
