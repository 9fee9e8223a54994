package utils

import (
	"crypto/rand"
	"fmt"
)

// companyCodeAlphabet omits characters that are easy to misread (0/O, 1/I/L).
const companyCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateCompanyCode generates a random join code of the given length,
// drawn from an unambiguous uppercase alphabet.
func GenerateCompanyCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i := range b {
		b[i] = companyCodeAlphabet[int(b[i])%len(companyCodeAlphabet)]
	}
	return string(b), nil
}
