package sha256core

import "testing"

func TestTransformKnownAnswerAllZeroBlock(t *testing.T) {
	// Known-answer vector: one-block compression of 64 zero bytes
	// starting from the SHA-256 IV, per spec.md §8 scenario 1.
	var state [8]uint32 = IV
	var block [64]byte

	Transform(&state, &block)

	want := [8]uint32{
		0xda5698be, 0x17b9b469, 0x62335799, 0x779fbeca,
		0x8ce5d491, 0xc0d26243, 0xbafef9ea, 0x1837a9d8,
	}
	if state != want {
		t.Errorf("Transform(IV, zero block) = %#x, want %#x", state, want)
	}
}

func TestTransformDeterministic(t *testing.T) {
	var s1, s2 [8]uint32 = IV, IV
	var block [64]byte
	for i := range block {
		block[i] = byte(i)
	}
	Transform(&s1, &block)
	Transform(&s2, &block)
	if s1 != s2 {
		t.Error("Transform is not deterministic for identical inputs")
	}
}

func TestTransformChangesState(t *testing.T) {
	var state [8]uint32 = IV
	before := state
	var block [64]byte
	block[0] = 0x61

	Transform(&state, &block)

	if state == before {
		t.Error("Transform left state unchanged for a non-trivial block")
	}
}
