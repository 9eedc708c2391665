package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// DefaultPasswordHash is the SHA-256 hex digest of "admin".
const DefaultPasswordHash = "8c6976e5b5410415bde908bd4dee15dfb167a9c873fc4bb8a81f6f2ab448a918"

// Authenticator verifies the admin credential against a stored one-way hash.
// A single boolean gate per attempt: no lockout, no rate limiting, no tokens.
type Authenticator struct {
	storedHash string
}

// New creates an authenticator for the given SHA-256 hex digest
func New(storedHash string) *Authenticator {
	if storedHash == "" {
		storedHash = DefaultPasswordHash
	}
	return &Authenticator{storedHash: storedHash}
}

// HashPassword returns the SHA-256 hex digest of a password
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether the supplied password matches the stored hash.
// The comparison is constant-time.
func (a *Authenticator) Verify(password string) bool {
	digest := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(a.storedHash)) == 1
}
