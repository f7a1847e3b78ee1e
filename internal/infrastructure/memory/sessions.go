package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
)

// SessionRepo keeps sessions keyed by ID with a secondary index by user.
type SessionRepo struct {
	mu     sync.RWMutex
	items  map[string]domain.Session
	byUser map[string]map[string]struct{}
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{
		items:  make(map[string]domain.Session),
		byUser: make(map[string]map[string]struct{}),
	}
}

func (r *SessionRepo) Put(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.SessionID] = *s
	ids, ok := r.byUser[s.UserID]
	if !ok {
		ids = make(map[string]struct{})
		r.byUser[s.UserID] = ids
	}
	ids[s.SessionID] = struct{}{}
	return nil
}

func (r *SessionRepo) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[sessionID]
	if !ok {
		return nil, fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	return &s, nil
}

// Take atomically removes and returns a session.
func (r *SessionRepo) Take(_ context.Context, sessionID string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[sessionID]
	if !ok {
		return nil, fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	r.removeLocked(s)
	return &s, nil
}

func (r *SessionRepo) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.items[sessionID]; ok {
		r.removeLocked(s)
	}
	return nil
}

func (r *SessionRepo) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for sid := range r.byUser[userID] {
		delete(r.items, sid)
	}
	delete(r.byUser, userID)
	return nil
}

func (r *SessionRepo) removeLocked(s domain.Session) {
	delete(r.items, s.SessionID)
	if ids, ok := r.byUser[s.UserID]; ok {
		delete(ids, s.SessionID)
		if len(ids) == 0 {
			delete(r.byUser, s.UserID)
		}
	}
}

// evictExpired drops sessions whose refresh window has also lapsed.
func (r *SessionRepo) evictExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.items {
		if !now.Before(s.RefreshExpiresAt) {
			r.removeLocked(s)
			n++
		}
	}
	return n
}
