package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generator produces one-time validation codes. It is an interface so service
// tests can substitute a fixed-output stub.
type Generator interface {
	Next() (string, error)
}

// Numeric generates uniformly random 6-digit numeric codes, zero-padded so the
// result is always exactly 6 characters.
type Numeric struct{}

func (Numeric) Next() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate validation code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
