package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// New generates a cryptographically random hex token of n random bytes.
func New(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewRefreshToken returns a refresh token bound to sessionID in the form
// "<sessionID>.<secret>" together with the hash to persist.
func NewRefreshToken(sessionID string) (tok, hash string, err error) {
	secret, err := New(32)
	if err != nil {
		return "", "", err
	}
	tok = sessionID + "." + secret
	return tok, Hash(tok), nil
}

// SplitRefreshToken returns the session ID embedded in a refresh token.
func SplitRefreshToken(tok string) (sessionID string, ok bool) {
	sid, secret, found := strings.Cut(tok, ".")
	if !found || sid == "" || len(secret) != 64 {
		return "", false
	}
	return sid, true
}

// Hash returns the hex SHA-256 of tok. Refresh tokens carry 256 bits of
// entropy so a fast hash is enough.
func Hash(tok string) string {
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:])
}
