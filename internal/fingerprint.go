package internal

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// Fingerprint returns a compact digest of a stored password hash. It is
// embedded in reset tokens so they stop verifying once the password changes.
func Fingerprint(hashedPassword string) string {
	sum := sha256.Sum256([]byte(hashedPassword))
	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// FingerprintMatches compares fingerprint against hashedPassword in constant time.
func FingerprintMatches(hashedPassword, fingerprint string) bool {
	want := Fingerprint(hashedPassword)
	return subtle.ConstantTimeCompare([]byte(want), []byte(fingerprint)) == 1
}
