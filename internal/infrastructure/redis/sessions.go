package redisinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

// sessionRecord is the stored form of a session. domain.Session hides the
// refresh hash from JSON, so it cannot be marshalled directly.
type sessionRecord struct {
	SessionID        string    `json:"session_id"`
	UserID           string    `json:"user_id"`
	RefreshHash      string    `json:"refresh_hash"`
	IssuedAt         time.Time `json:"issued_at"`
	ExpiresAt        time.Time `json:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

func (r sessionRecord) toDomain() *domain.Session {
	return &domain.Session{
		SessionID:        r.SessionID,
		UserID:           r.UserID,
		RefreshHash:      r.RefreshHash,
		IssuedAt:         r.IssuedAt,
		ExpiresAt:        r.ExpiresAt,
		RefreshExpiresAt: r.RefreshExpiresAt,
		TTL:              r.RefreshExpiresAt.Unix(),
	}
}

// SessionRepo stores sessions as JSON strings that expire with their refresh
// token. A per-user set indexes session ids for logout-all.
type SessionRepo struct {
	rdb *redis.Client
}

func NewSessionRepo(rdb *redis.Client) *SessionRepo {
	return &SessionRepo{rdb: rdb}
}

func sessionKey(id string) string     { return sessionKeyPrefix + id }
func userSessionKey(id string) string { return userSessionKeyPrefix + id }

func (r *SessionRepo) Put(ctx context.Context, s *domain.Session) error {
	ttl := time.Until(s.RefreshExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session: refresh_expires_at must be in the future")
	}
	payload, err := json.Marshal(sessionRecord{
		SessionID:        s.SessionID,
		UserID:           s.UserID,
		RefreshHash:      s.RefreshHash,
		IssuedAt:         s.IssuedAt,
		ExpiresAt:        s.ExpiresAt,
		RefreshExpiresAt: s.RefreshExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, sessionKey(s.SessionID), payload, ttl)
		p.SAdd(ctx, userSessionKey(s.UserID), s.SessionID)
		p.Expire(ctx, userSessionKey(s.UserID), ttl)
		return nil
	})
	return err
}

func (r *SessionRepo) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	data, err := r.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	return r.decode(data, err)
}

// Take atomically removes the session with GETDEL; only one caller receives it.
func (r *SessionRepo) Take(ctx context.Context, sessionID string) (*domain.Session, error) {
	data, err := r.rdb.GetDel(ctx, sessionKey(sessionID)).Bytes()
	s, err := r.decode(data, err)
	if err != nil {
		return nil, err
	}
	// The session itself is gone; a stale index entry only costs a no-op
	// delete during logout-all.
	if err := r.rdb.SRem(ctx, userSessionKey(s.UserID), sessionID).Err(); err != nil {
		slog.WarnContext(ctx, "session index cleanup failed", "session_id", sessionID, "err", err)
	}
	return s, nil
}

func (r *SessionRepo) Delete(ctx context.Context, sessionID string) error {
	_, err := r.Take(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func (r *SessionRepo) DeleteByUser(ctx context.Context, userID string) error {
	ids, err := r.rdb.SMembers(ctx, userSessionKey(userID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userSessionKey(userID))
	return r.rdb.Del(ctx, keys...).Err()
}

func (r *SessionRepo) decode(data []byte, err error) (*domain.Session, error) {
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("session: unmarshal: %w", err)
	}
	return rec.toDomain(), nil
}
