package ets

import (
	"github.com/cryptobertram/etsgo/internal/compress"
	"github.com/cryptobertram/etsgo/internal/xorutil"
)

// adFinalizer marks the byte immediately following the last associated-data
// byte absorbed into a block, once associated data runs out mid-block.
const adFinalizer = 0x80

// mav is the memory-alignment value the reference cascade rounds partial
// block lengths up to, so the compression function always sees
// conveniently-aligned chunk boundaries.
const mav = 16

func rupMAV(x int) int {
	return (x + mav - 1) &^ (mav - 1)
}

// crypt runs the encrypt-to-self cascade over a single message, producing
// the complementary text (ciphertext from plaintext, or vice versa) in dst
// and returning the tagLen-byte tag (with the 0xA5 tweak already applied
// when associated data was padded). dst and src must be equal length.
//
// The cascade keeps a D-byte sliding block split into a "context" region
// (D-C bytes, holding associated data XORed with the key, or the key alone
// once AD is exhausted) and a "data" region (the trailing C bytes, holding
// plaintext feedback from the previous round). Every round the block is
// absorbed by the compression function, the exported state is used as a
// one-time pad for the next C-byte chunk, and the block is refreshed for
// the next round. This file is a direct, family-agnostic translation of
// that cascade: it is driven entirely through the compress.Driver
// interface, so the same code produces SHA-256, SHA-512, and BLAKE2b
// instances of the mode.
func crypt(drv compress.Driver, key, associatedData, src, dst []byte, encrypting bool, tagLen int) []byte {
	d := drv.BlockSize()
	c := drv.StateSize()
	keyLen := len(key)

	block := make([]byte, d)
	buf := make([]byte, c)

	ad := associatedData
	adPadded := false
	defaultADBlock := false
	var t uint64

	loadAD := func(n int) {
		if len(ad) >= n {
			copy(block[:n], ad[:n])
			ad = ad[n:]
			return
		}
		copy(block[:len(ad)], ad)
		block[len(ad)] = adFinalizer
		for i := len(ad) + 1; i < n; i++ {
			block[i] = 0
		}
		ad = nil
		adPadded = true
	}

	mlen := len(src)
	mPadded := mlen == 0

	// First block: the whole D bytes start out as associated-data context,
	// then the key is folded in over its first keyLen bytes.
	loadAD(d)
	xorutil.Xor2(block[:keyLen], key)

	drv.Init(keyLen, tagLen)

	off := 0
	for mlen >= c {
		drv.Update(block, t, false)
		t++

		if !adPadded {
			loadAD(d - c)
			xorutil.Xor2(block[:keyLen], key)
		} else if !defaultADBlock {
			copy(block[:keyLen], key)
			for i := keyLen; i < d-c; i++ {
				block[i] = 0
			}
			defaultADBlock = true
		}

		drv.Export(buf)

		chunkSrc := src[off : off+c]
		chunkDst := dst[off : off+c]
		xorutil.Xor3(chunkDst, chunkSrc, buf)

		plain := chunkSrc
		if !encrypting {
			plain = chunkDst
		}
		copy(block[d-c:], plain)

		off += c
		mlen -= c
	}

	if mlen > 0 {
		drv.Update(block, t, false)
		t++

		mlenRup := rupMAV(mlen + 1)

		switch {
		case !adPadded:
			loadAD(d - mlenRup)
			xorutil.Xor2(block[:keyLen], key)
		case defaultADBlock:
			for i := d - c; i < d-mlenRup; i++ {
				block[i] = 0
			}
		default:
			copy(block[:keyLen], key)
			for i := keyLen; i < d-mlenRup; i++ {
				block[i] = 0
			}
		}

		drv.Export(buf)

		chunkSrc := src[off : off+mlen]
		chunkDst := dst[off : off+mlen]
		xorutil.Xor3(chunkDst, chunkSrc, buf[:mlen])

		plain := chunkSrc
		if !encrypting {
			plain = chunkDst
		}
		copy(block[d-mlenRup:], plain)
		for i := d - mlenRup + mlen; i < d-1; i++ {
			block[i] = 0
		}
		block[d-1] = byte(mlen)
		mPadded = true
	}

	if !adPadded && len(ad) > 0 {
		drv.Update(block, t, true)
		t++

		for len(ad) > d {
			drv.Update(ad[:d], t, false)
			t++
			ad = ad[d:]
		}
		loadAD(d)
	}

	if mPadded {
		drv.Update(block, t, true)
	} else {
		drv.Update(block, t, false)
	}

	drv.Export(buf)
	drv.Clear()

	if adPadded {
		for i := 0; i < tagLen; i++ {
			buf[i] ^= 0xa5
		}
	}

	tag := make([]byte, tagLen)
	copy(tag, buf[:tagLen])
	for i := range block {
		block[i] = 0
	}
	for i := range buf {
		buf[i] = 0
	}
	return tag
}
