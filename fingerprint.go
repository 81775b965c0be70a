package beanatlas

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint returns a 64-character lowercase hexadecimal digest of the
// normalized text content. Whitespace is collapsed before hashing so that
// insignificant rendering differences don't register as changes.
func Fingerprint(content string) string {
	normalized := strings.Join(strings.Fields(content), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// FingerprintChanged reports whether content changed between two crawls.
// Both fingerprints absent means nothing to compare, so no change. Exactly
// one absent counts as changed.
func FingerprintChanged(newHash, oldHash string) bool {
	if newHash == "" && oldHash == "" {
		return false
	}
	if newHash == "" || oldHash == "" {
		return true
	}
	return newHash != oldHash
}
