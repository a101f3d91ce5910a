// Package seed derives reproducible random sources from a configured salt.
// With BATTLESHIP_SEED set, the same salt and session key always produce
// the same bot fleet and the same targeting order.
package seed

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
)

// Derive returns a deterministic seed using HMAC(salt, key).
func Derive(salt, key string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(key))
	sum := h.Sum(nil)
	// take first 8 bytes as the seed
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// NewRand returns a math/rand source seeded with Derive(salt, key).
func NewRand(salt, key string) *rand.Rand {
	return rand.New(rand.NewSource(Derive(salt, key)))
}
