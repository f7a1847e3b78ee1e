package domain

import "time"

// Session is the server-side record behind a session cookie. It is never
// mutated after creation; refresh replaces it with a new one.
type Session struct {
	SessionID        string    `json:"id" dynamodbav:"session_id"`
	UserID           string    `json:"user_id" dynamodbav:"user_id"`
	RefreshHash      string    `json:"-" dynamodbav:"refresh_hash"`
	IssuedAt         time.Time `json:"issued_at" dynamodbav:"issued_at"`
	ExpiresAt        time.Time `json:"expires_at" dynamodbav:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at" dynamodbav:"refresh_expires_at"`
	TTL              int64     `json:"-" dynamodbav:"ttl"` // DynamoDB TTL (Unix seconds)
}

// Expired reports whether the access part of the session has lapsed.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Identity is the authenticated caller resolved from a session cookie.
type Identity struct {
	UserID    string
	Email     string
	Role      Role
	SessionID string
}
