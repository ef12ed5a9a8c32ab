package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Shuffle performs a cryptographically secure shuffle of the slice.
func Shuffle[T any](slice []T) error {
	n := len(slice)
	for i := n - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("failed to generate random number: %w", err)
		}
		j := int(jBig.Int64())
		slice[i], slice[j] = slice[j], slice[i]
	}
	return nil
}

// Pick returns a uniformly random element of the slice.
func Pick[T any](slice []T) (T, error) {
	var zero T
	if len(slice) == 0 {
		return zero, fmt.Errorf("empty slice")
	}
	jBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return zero, fmt.Errorf("failed to generate random number: %w", err)
	}
	return slice[jBig.Int64()], nil
}

// Token returns an uppercase hex token of the given byte length, suitable
// for collision-negligible short identifiers.
func Token(bytes int) (string, error) {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return fmt.Sprintf("%X", buf), nil
}
