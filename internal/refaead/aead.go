// Package refaead wraps a conventional nonce-based AEAD (ChaCha20-Poly1305)
// for use as a reference point against the ets package's nonce-free,
// one-time mode: the benchmarks in this module use it to show what
// encrypt-to-self gives up (a reusable key) and what it gains (no nonce
// management) relative to the construction most libraries reach for.
package refaead

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// AEAD wraps a cipher.AEAD built from ChaCha20-Poly1305.
type AEAD struct {
	aead cipher.AEAD
}

// New constructs a ChaCha20-Poly1305 AEAD from the given 32-byte key. Unlike
// an ets.Suite, the same key may be used for many Seal calls provided each
// uses a distinct nonce.
func New(key []byte) (AEAD, error) {
	if len(key) != chacha20poly1305.KeySize {
		return AEAD{}, fmt.Errorf("refaead: invalid key length %d", len(key))
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return AEAD{}, fmt.Errorf("refaead: create aead: %w", err)
	}
	return AEAD{aead: aead}, nil
}

// NonceSize reports the nonce length required by Seal and Open.
func (a AEAD) NonceSize() int {
	return a.aead.NonceSize()
}

// Overhead reports the tag size appended to sealed ciphertexts.
func (a AEAD) Overhead() int {
	return a.aead.Overhead()
}

// Seal encrypts and authenticates plaintext under nonce and additionalData,
// appending the result to dst.
func (a AEAD) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	return a.aead.Seal(dst, nonce, plaintext, additionalData)
}

// Open verifies and decrypts ciphertext produced by Seal.
func (a AEAD) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	plaintext, err := a.aead.Open(dst, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, fmt.Errorf("refaead: aead open: %w", err)
	}
	return plaintext, nil
}
