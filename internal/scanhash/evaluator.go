package scanhash

import "github.com/sjurajpuchky/cgminer/internal/sha256core"

// Status is the NL_* classification an evaluator call returns.
type Status int

const (
	StatusInProgress Status = iota
	StatusSuccess
	StatusRestart
	StatusComplete
)

// evaluate runs the two SHA-256 transforms for one candidate nonce,
// applies the cheap trailing-word semi-result filter, and classifies
// the outcome, per spec.md §4.F. data must already carry the
// candidate nonce at bytes 76..79 (offset 12..15 of the 64-byte tail).
func evaluate(midstate *[8]uint32, data *[64]byte, nonce uint32, target *[32]byte, maxNonce uint32, restart RestartSignal, ctx *Context) Status {
	hash := computeDigest(midstate, data)
	return classify(hash, nonce, target, maxNonce, restart, ctx)
}

// computeDigest runs the two SHA-256 transforms spec.md §4.F steps 1-3
// describe: midstate over data produces hash1, then the IV over
// hash1's packed state produces the final digest.
func computeDigest(midstate *[8]uint32, data *[64]byte) [8]uint32 {
	hash1 := *midstate
	sha256core.Transform(&hash1, data)

	hash := sha256core.IV
	var hash1Bytes [64]byte
	packState(&hash1Bytes, &hash1)
	sha256core.Transform(&hash, &hash1Bytes)
	return hash
}

// classify applies spec.md §4.F steps 4-7 to an already-computed
// digest: the trailing-word semi-result filter, then restart/complete
// classification.
func classify(hash [8]uint32, nonce uint32, target *[32]byte, maxNonce uint32, restart RestartSignal, ctx *Context) Status {
	if hash[7] == 0 {
		var hashBytes [32]byte
		packHash(&hashBytes, &hash)
		ctx.Buffer.Push(nonce, hashBytes, *target, func() { ctx.flush() })
		return StatusSuccess
	}

	if restart.Requested() {
		ctx.Lock.ClearAll(maxNonce)
		ctx.Total = 0
		return StatusRestart
	}

	if ctx.Total >= maxNonce {
		ctx.Lock.ClearAll(maxNonce)
		ctx.Total = 0
		return StatusComplete
	}

	return StatusInProgress
}

// packState serializes an 8-word state vector into a 64-byte block
// (big-endian per word) so it can feed the second transform as its
// 64-byte input, matching the original source's reuse of hash1's
// output bytes as the second transform's input block.
func packState(dst *[64]byte, state *[8]uint32) {
	for i, w := range state {
		o := i * 4
		dst[o] = byte(w >> 24)
		dst[o+1] = byte(w >> 16)
		dst[o+2] = byte(w >> 8)
		dst[o+3] = byte(w)
	}
}

// packHash serializes an 8-word digest into its 32-byte big-endian
// representation.
func packHash(dst *[32]byte, state *[8]uint32) {
	for i, w := range state {
		o := i * 4
		dst[o] = byte(w >> 24)
		dst[o+1] = byte(w >> 16)
		dst[o+2] = byte(w >> 8)
		dst[o+3] = byte(w)
	}
}

// Digest256 runs the same two-transform digest the scan loop uses on
// every candidate, exported so a submitted share's nonce can be
// re-verified outside of an active Scan call (pool share validation,
// offline audits).
func Digest256(midstate *[8]uint32, data *[64]byte) [32]byte {
	hash := computeDigest(midstate, data)
	var out [32]byte
	packHash(&out, &hash)
	return out
}
