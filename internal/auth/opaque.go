package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// GenerateOpaqueToken returns a URL-safe random secret suitable for a
// refresh token or a password-reset token. The raw value is handed to the
// client exactly once and never stored; only HashOpaqueToken's output is
// persisted.
func GenerateOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: failed to generate opaque token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashOpaqueToken derives the value stored alongside a RefreshToken or
// PasswordResetToken row. A keyed SHA-256 digest is enough here: the input
// is already a 256-bit random secret, not a low-entropy password, so bcrypt's
// deliberate slowness would only cost latency without adding security.
func HashOpaqueToken(raw, pepper string) string {
	sum := sha256.Sum256([]byte(raw + pepper))
	return hex.EncodeToString(sum[:])
}

// ConstantTimeEqual compares two hash strings without leaking timing
// information about where they first differ.
func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
