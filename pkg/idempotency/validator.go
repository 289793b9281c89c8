package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateKey checks the key against the default maximum length.
func ValidateKey(key string) error {
	return ValidateKeyWithMaxLength(key, DefaultMaxKeyLength)
}

// ValidateKeyWithMaxLength checks that the key is non-empty, within the
// length limit, and uses only URL-safe characters.
func ValidateKeyWithMaxLength(key string, maxLength int) error {
	if key == "" {
		return ErrKeyRequired
	}
	if len(key) > maxLength {
		return ErrKeyTooLong
	}
	if !keyPattern.MatchString(key) {
		return ErrKeyInvalid
	}
	return nil
}

// ComputeFingerprint returns the hex SHA-256 digest of the request body.
// Retries with the same key must carry the same fingerprint.
func ComputeFingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// NormalizeKey trims surrounding whitespace from a client-provided key.
func NormalizeKey(key string) string {
	return strings.TrimSpace(key)
}
