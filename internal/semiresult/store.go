// Package semiresult implements the bounded semi-result buffer the
// scanhash driver fills while sweeping the nonce space. A semi-result
// is a candidate whose cheap trailing-word check passed; the full
// target comparison happens later, outside this package, when the
// buffer is drained.
package semiresult

// Status classifies a Result's standing in the buffer.
type Status int

const (
	StatusNone Status = iota
	StatusSuccess
	StatusFail
	StatusFound
)

// Capacity is the fixed size of a Buffer, matching spec.md §3.
const Capacity = 4096

// Result is one semi-result entry: a candidate nonce together with
// the digest and target that were in play when it was recorded.
type Result struct {
	Nonce  uint32
	Status Status
	Hash   [32]byte
	Target [32]byte
}

// Buffer is the append-only, fixed-capacity semi-result store. It is
// owned by a single scan worker; there is no internal locking.
type Buffer struct {
	entries      [Capacity]Result
	foundResults int
}

// Clear resets the buffer to empty, as done on scan start and on
// restart/complete.
func (b *Buffer) Clear() {
	b.foundResults = 0
}

// Len reports the number of live entries.
func (b *Buffer) Len() int {
	return b.foundResults
}

// Push records a semi-result. If the buffer is already at capacity,
// overflowHook is invoked first; the hook is expected to drain the
// buffer (typically via Flush) so the subsequent write has a slot.
// A hook that does not drain causes the new entry to overwrite the
// last slot rather than grow past Capacity.
func (b *Buffer) Push(nonce uint32, hash, tgt [32]byte, overflowHook func()) {
	if b.foundResults == Capacity {
		if overflowHook != nil {
			overflowHook()
		}
	}
	slot := b.foundResults
	if slot >= Capacity {
		slot = Capacity - 1
	}
	b.entries[slot] = Result{Nonce: nonce, Status: StatusFound, Hash: hash, Target: tgt}
	if b.foundResults < Capacity {
		b.foundResults++
	}
}

// RemoveAt removes the entry at index r by swapping it with the last
// live entry and shrinking the buffer; order is not preserved.
func (b *Buffer) RemoveAt(r int) {
	if r < 0 || r >= b.foundResults {
		return
	}
	last := b.foundResults - 1
	b.entries[r] = b.entries[last]
	b.foundResults = last
}

// Flush hands all live entries to the caller and drains the buffer to
// empty.
func (b *Buffer) Flush() []Result {
	out := make([]Result, b.foundResults)
	copy(out, b.entries[:b.foundResults])
	b.foundResults = 0
	return out
}
