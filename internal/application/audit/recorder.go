// Package audit records security-relevant events.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// EventType names a security event.
type EventType string

const (
	LoginCodeSent      EventType = "login_code_sent"
	LoginSuccess       EventType = "login_success"
	LoginFailed        EventType = "login_failed"
	RateLimitExceeded  EventType = "rate_limit_exceeded"
	Logout             EventType = "logout"
	LogoutAll          EventType = "logout_all"
	TokenRefresh       EventType = "token_refresh"
	TokenRefreshFailed EventType = "token_refresh_failed"
	AccessDenied       EventType = "access_denied"
	AccessGranted      EventType = "access_granted"
	AccessRevoked      EventType = "access_revoked"
)

type Event struct {
	Type      EventType `json:"type"`
	UserID    string    `json:"user_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	IP        string    `json:"ip,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Recorder interface {
	Record(ctx context.Context, e Event)
}

type publisher interface {
	Publish(ctx context.Context, eventType, message string) error
}

type recorder struct {
	log     *slog.Logger
	pub     publisher
	timeout time.Duration
}

// NewRecorder logs every event and, when pub is non-nil, forwards it in the
// background. Publishing failures are logged and never reach the caller.
func NewRecorder(log *slog.Logger, pub publisher) Recorder {
	return &recorder{log: log, pub: pub, timeout: 5 * time.Second}
}

func (r *recorder) Record(ctx context.Context, e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	level := slog.LevelInfo
	switch e.Type {
	case LoginFailed, RateLimitExceeded, TokenRefreshFailed, AccessDenied:
		level = slog.LevelWarn
	}
	r.log.LogAttrs(ctx, level, "security event",
		slog.String("event", string(e.Type)),
		slog.String("user_id", e.UserID),
		slog.String("email", e.Email),
		slog.String("ip", e.IP),
		slog.String("detail", e.Detail),
	)
	if r.pub == nil {
		return
	}
	body, err := json.Marshal(e)
	if err != nil {
		r.log.Error("marshal security event", "err", err)
		return
	}
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.pub.Publish(pctx, string(e.Type), string(body)); err != nil {
			r.log.Warn("publish security event failed", "event", e.Type, "err", err)
		}
	}()
}

// Nop discards events.
type Nop struct{}

func (Nop) Record(context.Context, Event) {}
