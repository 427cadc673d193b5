// Package engine - hash commitment verification.
package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashlockLength is the required hashlock length: a hex-encoded SHA-256
// digest.
const HashlockLength = 64

// ValidHashlock reports whether hashlock is exactly 64 hex characters.
func ValidHashlock(hashlock string) bool {
	if len(hashlock) != HashlockLength {
		return false
	}
	for _, c := range hashlock {
		if !isHexDigit(c) {
			return false
		}
	}
	return true
}

// SecretHash returns the lowercase hex SHA-256 digest of the secret.
func SecretHash(secret string) string {
	digest := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(digest[:])
}

// VerifySecret reports whether the secret is the preimage of the hashlock.
// The comparison is case-insensitive on the hashlock side. Pure function.
func VerifySecret(hashlock, secret string) bool {
	return SecretHash(secret) == strings.ToLower(hashlock)
}

func isHexDigit(c rune) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	}
	return false
}
