package domain

import "time"

// PendingVerification is the single outstanding one-time code for an email.
// PK: email. ExpiresAtUnix doubles as the DynamoDB TTL attribute.
type PendingVerification struct {
	Email         string    `dynamodbav:"email"`
	CodeHash      string    `dynamodbav:"code_hash"`
	DeliveryToken string    `dynamodbav:"delivery_token"`
	CreatedAt     time.Time `dynamodbav:"created_at"`
	ExpiresAt     time.Time `dynamodbav:"expires_at"`
	ExpiresAtUnix int64     `dynamodbav:"ttl"`
	AttemptCount  int       `dynamodbav:"attempt_count"`
}

// Expired reports whether the code can no longer be used.
func (p *PendingVerification) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Exhausted reports whether the attempt cap was reached. An exhausted record
// never verifies again; only a fresh send-code replaces it.
func (p *PendingVerification) Exhausted(maxAttempts int) bool {
	return p.AttemptCount >= maxAttempts
}
