package ets

import (
	"bytes"
	"testing"

	"github.com/go-quicktest/qt"
)

func seq(n int, start byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = start + byte(i)
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	suites := []*Suite{SHA256, SHA512, BLAKE2b}

	for _, s := range suites {
		t.Run(s.String(), func(t *testing.T) {
			key := seq(s.MinKeyLen(), 0)
			ad := seq(37, 0x20)
			plaintext := seq(130, 0x61)
			tagLen := s.MinTagLen()

			sealed, err := s.Seal(key, ad, plaintext, tagLen)
			qt.Assert(t, qt.IsNil(err))
			qt.Assert(t, qt.Equals(len(sealed), len(plaintext)+tagLen))

			got, err := s.Open(key, ad, sealed, tagLen)
			qt.Assert(t, qt.IsNil(err))
			qt.Assert(t, qt.DeepEquals(got, plaintext))
		})
	}
}

func TestRoundTripEmptyMessageAndAD(t *testing.T) {
	for _, s := range []*Suite{SHA256, SHA512, BLAKE2b} {
		t.Run(s.String(), func(t *testing.T) {
			key := seq(s.MinKeyLen(), 1)

			sealed, err := s.Seal(key, nil, nil, s.MinTagLen())
			qt.Assert(t, qt.IsNil(err))
			qt.Assert(t, qt.Equals(len(sealed), s.MinTagLen()))

			got, err := s.Open(key, nil, sealed, s.MinTagLen())
			qt.Assert(t, qt.IsNil(err))
			qt.Assert(t, qt.Equals(len(got), 0))
		})
	}
}

func TestTagBitSensitivity(t *testing.T) {
	for _, s := range []*Suite{SHA256, SHA512, BLAKE2b} {
		t.Run(s.String(), func(t *testing.T) {
			key := seq(s.MinKeyLen(), 2)
			ad := seq(9, 3)
			plaintext := seq(70, 4)
			tagLen := s.MinTagLen()

			sealed, err := s.Seal(key, ad, plaintext, tagLen)
			qt.Assert(t, qt.IsNil(err))

			t.Run("flip tag bit", func(t *testing.T) {
				tampered := append([]byte(nil), sealed...)
				tampered[len(tampered)-1] ^= 0x01
				_, err := s.Open(key, ad, tampered, tagLen)
				qt.Assert(t, qt.ErrorIs(err, ErrAuthenticationFailed))
			})

			t.Run("flip ciphertext bit", func(t *testing.T) {
				tampered := append([]byte(nil), sealed...)
				tampered[0] ^= 0x01
				_, err := s.Open(key, ad, tampered, tagLen)
				qt.Assert(t, qt.ErrorIs(err, ErrAuthenticationFailed))
			})

			t.Run("flip AD bit", func(t *testing.T) {
				tamperedAD := append([]byte(nil), ad...)
				tamperedAD[0] ^= 0x01
				_, err := s.Open(key, tamperedAD, sealed, tagLen)
				qt.Assert(t, qt.ErrorIs(err, ErrAuthenticationFailed))
			})
		})
	}
}

func TestOpenUncheckedReportsValidity(t *testing.T) {
	s := SHA256
	key := seq(s.MinKeyLen(), 5)
	ad := seq(4, 6)
	plaintext := seq(20, 7)
	tagLen := s.MinTagLen()

	sealed, err := s.Seal(key, ad, plaintext, tagLen)
	qt.Assert(t, qt.IsNil(err))

	got, valid, err := s.OpenUnchecked(key, ad, sealed, tagLen)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(valid))
	qt.Assert(t, qt.DeepEquals(got, plaintext))

	tampered := append([]byte(nil), sealed...)
	tampered[0] ^= 0xff
	got, valid, err = s.OpenUnchecked(key, ad, tampered, tagLen)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsFalse(valid))
	qt.Assert(t, qt.Equals(len(got), len(plaintext)))
}

func TestParameterRejection(t *testing.T) {
	s := SHA256 // MaxKeyLen 32, MaxTagLen 32

	tests := []struct {
		name    string
		keyLen  int
		tagLen  int
		wantErr error
	}{
		{"key too short", 8, 16, ErrInvalidKeyLen},
		{"key too long", 40, 16, ErrInvalidKeyLen},
		{"key not multiple of 8", 17, 16, ErrInvalidKeyLen},
		{"tag too short", 16, 9, ErrInvalidTagLen},
		{"tag too long", 16, 33, ErrInvalidTagLen},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			key := seq(tc.keyLen, 0)
			_, err := s.Seal(key, nil, []byte("x"), tc.tagLen)
			qt.Assert(t, qt.ErrorIs(err, tc.wantErr))

			_, _, err = s.OpenUnchecked(key, nil, []byte("xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"), tc.tagLen)
			qt.Assert(t, qt.ErrorIs(err, tc.wantErr))
		})
	}
}

func TestCiphertextTooShortForTag(t *testing.T) {
	s := SHA256
	key := seq(16, 0)
	_, err := s.Open(key, nil, []byte{1, 2, 3}, 16)
	qt.Assert(t, qt.ErrorIs(err, ErrCiphertextTooShort))
}

func sumBytes(parts ...[]byte) int {
	total := 0
	for _, p := range parts {
		for _, b := range p {
			total += int(b)
		}
	}
	return total
}

// TestKATByteSums reproduces the concrete end-to-end scenario the mode's
// known-answer tests are seeded from: key = 0..15, ad = 40..44, m =
// 80..92, taglen = 11, summing the 24 output bytes (13-byte ciphertext +
// 11-byte tag) as unsigned integers. All three sums are cross-checked
// against the reference ets_selftest.c kat() values.
func TestKATByteSums(t *testing.T) {
	key := seq(16, 0)
	ad := seq(5, 40)
	m := seq(13, 80)
	const tagLen = 11

	tests := []struct {
		suite   *Suite
		wantSum int
	}{
		{SHA256, 3184},
		{SHA512, 3388},
		{BLAKE2b, 2707},
	}

	for _, tc := range tests {
		t.Run(tc.suite.String(), func(t *testing.T) {
			sealed, err := tc.suite.Seal(key, ad, m, tagLen)
			qt.Assert(t, qt.IsNil(err))
			qt.Assert(t, qt.Equals(len(sealed), 13+tagLen))

			gotSum := sumBytes(sealed)
			qt.Assert(t, qt.Equals(gotSum, tc.wantSum))

			got, err := tc.suite.Open(key, ad, sealed, tagLen)
			qt.Assert(t, qt.IsNil(err))
			qt.Assert(t, qt.DeepEquals(got, m))
		})
	}
}

// TestExactMultipleOfStateSize covers the spec's final-flag-placement open
// question: adlen = 0, mlen = k*C for k in {1,2,3}, where the AD-tail
// branch is skipped entirely because all (zero-length) AD fit in the
// first block.
func TestExactMultipleOfStateSize(t *testing.T) {
	for _, s := range []*Suite{SHA256, SHA512, BLAKE2b} {
		t.Run(s.String(), func(t *testing.T) {
			key := seq(s.MinKeyLen(), 9)
			tagLen := s.MinTagLen()

			for k := 1; k <= 3; k++ {
				plaintext := seq(k*s.stateSize, byte(k))

				sealed, err := s.Seal(key, nil, plaintext, tagLen)
				qt.Assert(t, qt.IsNil(err))

				got, err := s.Open(key, nil, sealed, tagLen)
				qt.Assert(t, qt.IsNil(err))
				qt.Assert(t, qt.DeepEquals(got, plaintext))
			}
		})
	}
}

// TestADExactMultipleOfBlockSize round-trips associated data of exactly D
// and 2D bytes alongside a 17-byte message. With that message the AD
// finalizer lands in the partial message block's context region (D) or
// after a non-empty AD remainder in the AD tail (2D); the empty-message
// case is not exercised here.
func TestADExactMultipleOfBlockSize(t *testing.T) {
	for _, s := range []*Suite{SHA256, SHA512, BLAKE2b} {
		t.Run(s.String(), func(t *testing.T) {
			key := seq(s.MinKeyLen(), 11)
			tagLen := s.MinTagLen()

			for k := 1; k <= 2; k++ {
				ad := seq(k*s.blockSize, byte(k+1))
				plaintext := seq(17, byte(k+50))

				sealed, err := s.Seal(key, ad, plaintext, tagLen)
				qt.Assert(t, qt.IsNil(err))

				got, err := s.Open(key, ad, sealed, tagLen)
				qt.Assert(t, qt.IsNil(err))
				qt.Assert(t, qt.DeepEquals(got, plaintext))
			}
		})
	}
}

// TestCrossProductADAndMessageLengths sweeps adlen over [0, 3D) in steps
// of 7 against mlen over [0, 3C) in steps of 5, verifying round-trip
// correctness and tag-flip rejection for every sampled combination.
func TestCrossProductADAndMessageLengths(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping exhaustive sweep in short mode")
	}

	for _, s := range []*Suite{SHA256, SHA512, BLAKE2b} {
		t.Run(s.String(), func(t *testing.T) {
			key := seq(s.MinKeyLen(), 13)
			tagLen := s.MinTagLen()

			for adlen := 0; adlen < 3*s.blockSize; adlen += 7 {
				for mlen := 0; mlen < 3*s.stateSize; mlen += 5 {
					ad := seq(adlen, 1)
					plaintext := seq(mlen, 2)

					sealed, err := s.Seal(key, ad, plaintext, tagLen)
					qt.Assert(t, qt.IsNil(err))

					got, err := s.Open(key, ad, sealed, tagLen)
					qt.Assert(t, qt.IsNil(err))
					qt.Assert(t, qt.DeepEquals(got, plaintext))

					if len(sealed) > 0 {
						tampered := append([]byte(nil), sealed...)
						tampered[len(tampered)-1] ^= 0x01
						_, err := s.Open(key, ad, tampered, tagLen)
						qt.Assert(t, qt.ErrorIs(err, ErrAuthenticationFailed))
					}
				}
			}
		})
	}
}

func TestImbalancedADAndMessageLengths(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping imbalanced sweep in short mode")
	}

	s := SHA256
	key := seq(s.MinKeyLen(), 17)
	tagLen := s.MinTagLen()

	// large AD, small message
	for adlen := 10 * s.blockSize; adlen < 11*s.blockSize; adlen += s.blockSize / 3 {
		ad := seq(adlen, 3)
		plaintext := seq(5, 4)

		sealed, err := s.Seal(key, ad, plaintext, tagLen)
		qt.Assert(t, qt.IsNil(err))
		got, err := s.Open(key, ad, sealed, tagLen)
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.DeepEquals(got, plaintext))
	}

	// small AD, large message
	for mlen := 10 * s.stateSize; mlen < 11*s.stateSize; mlen += s.stateSize / 3 {
		ad := seq(3, 5)
		plaintext := seq(mlen, 6)

		sealed, err := s.Seal(key, ad, plaintext, tagLen)
		qt.Assert(t, qt.IsNil(err))
		got, err := s.Open(key, ad, sealed, tagLen)
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.DeepEquals(got, plaintext))
	}
}

func TestLengthFidelity(t *testing.T) {
	s := BLAKE2b
	key := seq(s.MinKeyLen(), 19)
	tagLen := 24

	for _, mlen := range []int{0, 1, s.stateSize - 1, s.stateSize, s.stateSize + 1, 3 * s.blockSize} {
		plaintext := seq(mlen, 8)
		sealed, err := s.Seal(key, nil, plaintext, tagLen)
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.Equals(len(sealed), mlen+tagLen))

		got, err := s.Open(key, nil, sealed, tagLen)
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.Equals(len(got), mlen))
	}
}

func TestSealDoesNotAliasInput(t *testing.T) {
	s := SHA512
	key := seq(s.MinKeyLen(), 21)
	plaintext := seq(100, 9)
	original := append([]byte(nil), plaintext...)

	_, err := s.Seal(key, nil, plaintext, 20)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(plaintext, original))
}

func TestOpenReturnsNoPlaintextOnFailure(t *testing.T) {
	s := SHA256
	key := seq(s.MinKeyLen(), 23)
	plaintext := seq(40, 10)

	sealed, err := s.Seal(key, nil, plaintext, 16)
	qt.Assert(t, qt.IsNil(err))
	sealed[0] ^= 0xff

	got, err := s.Open(key, nil, sealed, 16)
	qt.Assert(t, qt.ErrorIs(err, ErrAuthenticationFailed))
	qt.Assert(t, qt.IsNil(got))
}

func TestDifferentSuitesProduceDifferentCiphertexts(t *testing.T) {
	key := seq(16, 0)
	plaintext := seq(50, 0)

	sha256Sealed, err := SHA256.Seal(key, nil, plaintext, 16)
	qt.Assert(t, qt.IsNil(err))
	sha512Sealed, err := SHA512.Seal(key, nil, plaintext, 16)
	qt.Assert(t, qt.IsNil(err))

	qt.Assert(t, qt.IsFalse(bytes.Equal(sha256Sealed, sha512Sealed)))
}
