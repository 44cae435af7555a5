package scanhash

import "github.com/sjurajpuchky/cgminer/internal/strategy"

// Scan runs one scanhash pass: it round-robins the six ascending and
// six descending strategy generators over data's nonce field until a
// restart is requested or the candidate budget is exhausted, per
// spec.md §4.G. It returns true iff at least one semi-result was
// accumulated and flushed before the scan ended; lastNonce is updated
// to the most recently evaluated nonce after every candidate, so a
// caller can always sample scan progress even when nothing is found.
func Scan(restart RestartSignal, midstate *[8]uint32, data *[64]byte, target *[32]byte, maxNonce uint32, lastNonce *uint32, n uint32, ctx *Context) bool {
	ctx.reset(*lastNonce, maxNonce, n)

	for {
		for s := 0; s < 6; s++ {
			if done, success := ctx.step(restart, midstate, data, target, maxNonce, lastNonce, strategy.Up[s], &ctx.nonceUp[s]); done {
				return success
			}
			if done, success := ctx.step(restart, midstate, data, target, maxNonce, lastNonce, strategy.Down[s], &ctx.nonceDown[s]); done {
				return success
			}
		}
	}
}

// step advances one strategy slot by one nonce, issues it through the
// lock bitmap and evaluator, and reports whether the scan should
// terminate now (done) and, if so, whether it terminates as a
// successful flush (success).
func (c *Context) step(restart RestartSignal, midstate *[8]uint32, data *[64]byte, target *[32]byte, maxNonce uint32, lastNonce *uint32, id strategy.ID, slot *uint32) (done, success bool) {
	*slot = strategy.Next(id, *slot, maxNonce, &c.Total)
	nonce := *slot

	if c.Lock.IsLocked(nonce) {
		return false, false
	}

	writeNonce(data, nonce)
	status := evaluate(midstate, data, nonce, target, maxNonce, restart, c)

	switch status {
	case StatusSuccess:
		*lastNonce = nonce
		return false, false
	case StatusRestart, StatusComplete:
		if c.Buffer.Len() > 0 {
			c.flush()
			return true, true
		}
		return true, false
	default: // StatusInProgress
		*lastNonce = nonce
		return false, false
	}
}

// writeNonce stores nonce into data's 4-byte nonce field at offset
// 76-64=12 of the 64-byte tail, in native (little-endian) byte order,
// per spec.md §3's data-tail definition.
func writeNonce(data *[64]byte, nonce uint32) {
	data[12] = byte(nonce)
	data[13] = byte(nonce >> 8)
	data[14] = byte(nonce >> 16)
	data[15] = byte(nonce >> 24)
}
