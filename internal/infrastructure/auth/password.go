package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// passwordAlphabet deliberately omits look-alike characters (0/O, 1/l)
// since reset passwords are read back to users over email.
const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GeneratePassword returns a random password of the given length drawn
// from a cryptographically secure source.
func GeneratePassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}
