package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// CodeLength is the number of digits in a one-time code.
const CodeLength = 6

var codeSpace = big.NewInt(1_000_000)

// NewCode returns a uniformly random zero-padded numeric code.
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}

// Hasher hashes codes and compares candidates against stored hashes.
type Hasher interface {
	Hash(code string) (string, error)
	// Compare reports whether code matches hash. It must cost the same
	// whether or not the code matches.
	Compare(hash, code string) bool
	// DummyHash is compared against when no record exists.
	DummyHash() string
}

// BcryptHasher is the production Hasher.
type BcryptHasher struct {
	cost  int
	dummy string
}

// NewBcryptHasher precomputes the dummy hash with the same cost as real ones
// so that a lookup miss still pays a full comparison.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range", cost)
	}
	filler, err := NewCode()
	if err != nil {
		return nil, err
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(filler), cost)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	return &BcryptHasher{cost: cost, dummy: string(dummy)}, nil
}

func (h *BcryptHasher) Hash(code string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(code), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Compare(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}

func (h *BcryptHasher) DummyHash() string { return h.dummy }
