package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// UpperAlphanumeric is the alphabet used for order numbers and transaction ids.
const UpperAlphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomString draws length characters uniformly from charset using crypto/rand.
func RandomString(charset string, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	if len(charset) == 0 {
		return "", fmt.Errorf("charset must not be empty")
	}

	max := big.NewInt(int64(len(charset)))
	out := make([]byte, length)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("random index: %w", err)
		}
		out[i] = charset[idx.Int64()]
	}
	return string(out), nil
}

// PrefixedToken returns prefix + "-" + n random uppercase alphanumerics, e.g. ORD-7K2QX9PA.
func PrefixedToken(prefix string, n int) (string, error) {
	token, err := RandomString(UpperAlphanumeric, n)
	if err != nil {
		return "", err
	}
	if prefix == "" {
		return token, nil
	}
	return prefix + "-" + token, nil
}
