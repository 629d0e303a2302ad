package service

import (
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters. Changing any of them invalidates every stored digest.
const (
	hashTime    = 2
	hashMemory  = 19 * 1024
	hashThreads = 1
	hashKeyLen  = 32
)

const defaultPepper = "storefront-gateway"

// PasswordHasher turns secrets into comparable digests. The same secret and
// pepper always give the same digest, so Verify re-hashes and compares.
type PasswordHasher struct {
	pepper []byte
}

// NewPasswordHasher returns a hasher keyed with pepper. An empty pepper falls
// back to a fixed built-in value.
func NewPasswordHasher(pepper string) *PasswordHasher {
	if pepper == "" {
		pepper = defaultPepper
	}
	return &PasswordHasher{pepper: []byte(pepper)}
}

// Hash returns the hex digest of secret.
func (h *PasswordHasher) Hash(secret string) string {
	sum := argon2.IDKey([]byte(secret), h.pepper, hashTime, hashMemory, hashThreads, hashKeyLen)
	return hex.EncodeToString(sum)
}

// Verify reports whether secret hashes to digest.
func (h *PasswordHasher) Verify(secret, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(h.Hash(secret)), []byte(digest)) == 1
}
