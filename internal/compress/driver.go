// Package compress implements the raw block-compression functions the ETS
// mode is built over: BLAKE2b, SHA-256, and SHA-512. These are exposed
// without the Merkle–Damgård padding and length encoding a streaming hash
// API would add — callers feed exactly one full block per Update, and own
// all framing (padding, length suffixes, domain separation) themselves.
package compress

// Driver is the capability set the ETS mode is generic over: a
// fixed-input-length compression primitive with an explicit block
// counter and finalization flag. SHA-256 and SHA-512 ignore counter (their
// compression has no notion of one) and honour final by running Flip on
// the chaining state first; BLAKE2b folds counter into v[12] and final
// into v[14], per RFC 7693.
type Driver interface {
	// BlockSize reports the number of bytes Update consumes per call.
	BlockSize() int
	// StateSize reports the number of bytes Export writes.
	StateSize() int
	// Init resets the chaining state to the family's IV. keyLen and
	// tagLen are folded into the IV perturbation for BLAKE2b and ignored
	// by the SHA drivers, which only use them at the mode layer.
	Init(keyLen, tagLen int)
	// Update absorbs exactly one BlockSize()-byte block. BLAKE2b folds
	// counter into v[12] and final into v[14] as part of the compression
	// itself, per RFC 7693. SHA-256 and SHA-512 ignore counter (they have
	// no such input) but, when final is true, XOR a repeating 0xA5
	// pattern into the chaining state (their Flip method) before
	// compressing the block, standing in for the finalization input they
	// lack natively.
	Update(block []byte, counter uint64, final bool)
	// Export serializes the chaining state into out, which must be
	// StateSize() bytes long.
	Export(out []byte)
	// Clear zeroes the chaining state.
	Clear()
}
