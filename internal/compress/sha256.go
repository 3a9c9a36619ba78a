package compress

import (
	"encoding/binary"
	"math/bits"
)

// SHA256BlockSize and SHA256StateSize are the FIPS 180-4 SHA-256 block and
// chaining-state sizes in bytes.
const (
	SHA256BlockSize = 64
	SHA256StateSize = 32
)

var sha256K = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5,
	0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3,
	0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc,
	0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7,
	0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13,
	0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3,
	0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5,
	0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208,
	0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

var sha256IV = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// SHA256 is a raw, unpadded SHA-256 compression driver.
type SHA256 struct {
	st [8]uint32
}

func NewSHA256() *SHA256 { return &SHA256{} }

func (d *SHA256) BlockSize() int { return SHA256BlockSize }
func (d *SHA256) StateSize() int { return SHA256StateSize }

// Init resets the chaining state to the SHA-256 IV. keyLen and tagLen are
// ignored: SHA-256 has no keying mechanism of its own, those parameters
// only affect the ETS mode that drives this compression.
func (d *SHA256) Init(keyLen, tagLen int) {
	d.st = sha256IV
}

func (d *SHA256) Clear() {
	d.st = [8]uint32{}
}

func (d *SHA256) Export(out []byte) {
	if len(out) != SHA256StateSize {
		panic("compress: SHA256.Export: bad output length")
	}
	for i, word := range d.st {
		binary.BigEndian.PutUint32(out[i*4:], word)
	}
}

// Flip XORs every state word with a repeating 0xA5 pattern, mirroring
// src/sha256cf.c's sha256cf_flip. SHA-256 has no native block counter or
// finalization input the way BLAKE2b's v[12]/v[14] does, so Update calls
// Flip on the chaining state immediately before compressing a final block:
// that reproduces, for SHA-256, the same domain-separation role BLAKE2b's
// final flag plays inside its own compression.
func (d *SHA256) Flip() {
	for i := range d.st {
		d.st[i] ^= 0xa5a5a5a5
	}
}

// Update absorbs exactly one 64-byte block. counter is ignored: the raw
// SHA-256 compression has no block counter. When final is true, Flip runs
// on the chaining state before the block is compressed.
func (d *SHA256) Update(block []byte, counter uint64, final bool) {
	if len(block) != SHA256BlockSize {
		panic("compress: SHA256.Update: bad block length")
	}
	if final {
		d.Flip()
	}

	var w [64]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(block[i*4:])
	}
	for i := 16; i < 64; i++ {
		s0 := bits.RotateLeft32(w[i-15], -7) ^ bits.RotateLeft32(w[i-15], -18) ^ (w[i-15] >> 3)
		s1 := bits.RotateLeft32(w[i-2], -17) ^ bits.RotateLeft32(w[i-2], -19) ^ (w[i-2] >> 10)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, c, dd, e, f, g, h := d.st[0], d.st[1], d.st[2], d.st[3], d.st[4], d.st[5], d.st[6], d.st[7]

	for i := 0; i < 64; i++ {
		sigma1 := bits.RotateLeft32(e, -6) ^ bits.RotateLeft32(e, -11) ^ bits.RotateLeft32(e, -25)
		ch := (e & f) ^ (^e & g)
		temp1 := h + sigma1 + ch + sha256K[i] + w[i]
		sigma0 := bits.RotateLeft32(a, -2) ^ bits.RotateLeft32(a, -13) ^ bits.RotateLeft32(a, -22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		temp2 := sigma0 + maj

		h, g, f, e = g, f, e, dd+temp1
		dd, c, b, a = c, b, a, temp1+temp2
	}

	d.st[0] += a
	d.st[1] += b
	d.st[2] += c
	d.st[3] += dd
	d.st[4] += e
	d.st[5] += f
	d.st[6] += g
	d.st[7] += h
}
