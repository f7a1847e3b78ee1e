package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrRateLimited  = errors.New("rate limited")

	// ErrInvalidCode covers wrong, expired and unknown codes alike.
	ErrInvalidCode = errors.New("invalid or expired code")

	// Quota refusals are forbidden errors with their own client message.
	ErrDemoLimit     = fmt.Errorf("demo limit exceeded: %w", ErrForbidden)
	ErrAccessExpired = fmt.Errorf("access expired: %w", ErrForbidden)
)
