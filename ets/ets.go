// Package ets implements encrypt-to-self: a one-time, nonce-free
// authenticated-encryption mode built directly over a raw hash
// compression function via an Even–Mansour-style cascade. Because the
// mode derives its entire security from the compression function's
// keyed permutation behavior rather than from a nonce, every key must be
// used for at most one Seal.
package ets

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cryptobertram/etsgo/internal/compress"
)

var (
	// ErrInvalidKeyLen is returned when a key's length falls outside a
	// suite's admissible range, or is not a multiple of 8 bytes.
	ErrInvalidKeyLen = errors.New("ets: invalid key length")
	// ErrInvalidTagLen is returned when the requested tag length falls
	// outside a suite's admissible range.
	ErrInvalidTagLen = errors.New("ets: invalid tag length")
	// ErrCiphertextTooShort is returned when a sealed message is shorter
	// than the requested tag length, so it cannot contain a tag.
	ErrCiphertextTooShort = errors.New("ets: ciphertext shorter than tag")
	// ErrAuthenticationFailed is returned by Open when the recovered tag
	// does not match the one accompanying the ciphertext.
	ErrAuthenticationFailed = errors.New("ets: authentication failed")
)

// Suite binds the encrypt-to-self mode to one compression-function family.
// The three package-level instances, SHA256, SHA512, and BLAKE2b, cover
// every family the mode is specified over; Suite itself holds no
// family-specific logic, it only parameterizes engine.go's crypt with the
// family's block and state sizes.
type Suite struct {
	name      string
	newDriver func() compress.Driver
	blockSize int
	stateSize int
}

func newSuite(name string, newDriver func() compress.Driver) *Suite {
	d := newDriver()
	return &Suite{
		name:      name,
		newDriver: newDriver,
		blockSize: d.BlockSize(),
		stateSize: d.StateSize(),
	}
}

var (
	// SHA256 is encrypt-to-self over the raw SHA-256 compression function
	// (64-byte block, 32-byte state).
	SHA256 = newSuite("SHA-256", func() compress.Driver { return compress.NewSHA256() })
	// SHA512 is encrypt-to-self over the raw SHA-512 compression function
	// (128-byte block, 64-byte state).
	SHA512 = newSuite("SHA-512", func() compress.Driver { return compress.NewSHA512() })
	// BLAKE2b is encrypt-to-self over the raw BLAKE2b compression function
	// (128-byte block, 64-byte state).
	BLAKE2b = newSuite("BLAKE2b", func() compress.Driver { return compress.NewBLAKE2b() })
)

// String returns the suite's compression-function family name.
func (s *Suite) String() string { return s.name }

// MinKeyLen is the shortest admissible key, 16 bytes (128 bits), for every
// suite.
func (s *Suite) MinKeyLen() int { return 16 }

// MaxKeyLen is the longest admissible key: the block size minus the state
// size, capped at 64 bytes (the largest key any compression function
// here accepts).
func (s *Suite) MaxKeyLen() int {
	n := s.blockSize - s.stateSize
	if n > 64 {
		n = 64
	}
	return n
}

// MinTagLen is the shortest admissible tag, 10 bytes (80 bits), for every
// suite.
func (s *Suite) MinTagLen() int { return 10 }

// MaxTagLen is the longest admissible tag: the compression function's
// full state size.
func (s *Suite) MaxTagLen() int { return s.stateSize }

func (s *Suite) checkParams(keyLen, tagLen int) error {
	if keyLen < s.MinKeyLen() || keyLen > s.MaxKeyLen() || keyLen%8 != 0 {
		return fmt.Errorf("%s: %w: %d bytes (want %d..%d in steps of 8)", s.name, ErrInvalidKeyLen, keyLen, s.MinKeyLen(), s.MaxKeyLen())
	}
	if tagLen < s.MinTagLen() || tagLen > s.MaxTagLen() {
		return fmt.Errorf("%s: %w: %d bytes (want %d..%d)", s.name, ErrInvalidTagLen, tagLen, s.MinTagLen(), s.MaxTagLen())
	}
	return nil
}

// Seal encrypts plaintext under key, authenticating associatedData
// alongside it, and returns the ciphertext with a tagLen-byte tag
// appended — the same convention cipher.AEAD.Seal uses, minus the nonce
// argument encrypt-to-self has no use for. key must be used for at most
// one Seal call: this is a one-time primitive, not a session cipher.
func (s *Suite) Seal(key, associatedData, plaintext []byte, tagLen int) ([]byte, error) {
	if err := s.checkParams(len(key), tagLen); err != nil {
		return nil, err
	}

	sealed := make([]byte, len(plaintext)+tagLen)
	ciphertext := sealed[:len(plaintext)]

	tag := crypt(s.newDriver(), key, associatedData, plaintext, ciphertext, true, tagLen)
	copy(sealed[len(plaintext):], tag)

	return sealed, nil
}

// Open verifies and decrypts a message produced by Seal, returning
// ErrAuthenticationFailed if the trailing tagLen-byte tag does not match.
// The returned plaintext is zeroed before being discarded on
// authentication failure.
func (s *Suite) Open(key, associatedData, sealed []byte, tagLen int) ([]byte, error) {
	plaintext, valid, err := s.openUnchecked(key, associatedData, sealed, tagLen)
	if err != nil {
		return nil, err
	}
	if !valid {
		for i := range plaintext {
			plaintext[i] = 0
		}
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

// OpenUnchecked decrypts a message produced by Seal and reports tag
// validity as a bool instead of an error, mirroring the reference
// implementation's is_valid_out reporting mode: callers that need the
// recovered plaintext regardless of tag validity (e.g. to log a tampered
// message) can use this instead of Open, which discards it.
func (s *Suite) OpenUnchecked(key, associatedData, sealed []byte, tagLen int) (plaintext []byte, valid bool, err error) {
	return s.openUnchecked(key, associatedData, sealed, tagLen)
}

func (s *Suite) openUnchecked(key, associatedData, sealed []byte, tagLen int) ([]byte, bool, error) {
	if err := s.checkParams(len(key), tagLen); err != nil {
		return nil, false, err
	}
	if len(sealed) < tagLen {
		return nil, false, ErrCiphertextTooShort
	}

	ciphertext := sealed[:len(sealed)-tagLen]
	wantTag := sealed[len(sealed)-tagLen:]

	plaintext := make([]byte, len(ciphertext))
	gotTag := crypt(s.newDriver(), key, associatedData, ciphertext, plaintext, false, tagLen)

	// Tag comparison does not need to run in constant time: an
	// authentication failure reveals nothing beyond "this ciphertext was
	// not produced by this key", which an attacker already controls.
	valid := bytes.Equal(gotTag, wantTag)

	return plaintext, valid, nil
}
