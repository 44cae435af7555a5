package strategy

import "testing"

func TestIncrementWrapsAndIsPermutation(t *testing.T) {
	const maxNonce = 16
	var total uint32
	seen := make(map[uint32]bool)

	n := uint32(0)
	for i := 0; i < maxNonce; i++ {
		seen[n] = true
		n = Next(Increment, n, maxNonce, &total)
	}
	if len(seen) != maxNonce {
		t.Fatalf("INCREMENT visited %d distinct nonces, want %d", len(seen), maxNonce)
	}
	for i := uint32(0); i < maxNonce; i++ {
		if !seen[i] {
			t.Errorf("INCREMENT never visited nonce %d", i)
		}
	}
	if total != maxNonce {
		t.Errorf("total = %d, want %d", total, maxNonce)
	}
}

func TestIncrementWrapsToZeroAtMax(t *testing.T) {
	var total uint32
	got := Next(Increment, 15, 16, &total)
	if got != 0 {
		t.Errorf("Next(Increment, 15, 16) = %d, want 0", got)
	}
}

func TestSinePhaseCosineAreIdentity(t *testing.T) {
	var total uint32
	for _, id := range []ID{Sine, Phase, Cosine} {
		if got := Next(id, 42, 1000, &total); got != 42 {
			t.Errorf("Next(%v, 42, 1000) = %d, want 42 (reserved identity)", id, got)
		}
	}
}

func TestDecrementWrapsToMaxAtZero(t *testing.T) {
	var total uint32
	got := Next(Decrement, 0, 16, &total)
	if got != 16 {
		t.Errorf("Next(Decrement, 0, 16) = %d, want 16", got)
	}
}

func TestRPhaseIsAlwaysMaxNonce(t *testing.T) {
	var total uint32
	if got := Next(RPhase, 5, 999, &total); got != 999 {
		t.Errorf("Next(RPhase, 5, 999) = %d, want 999", got)
	}
}

func TestBlockAdvancesByFifteenAndWraps(t *testing.T) {
	var total uint32
	got := Next(Block, 0, 15, &total)
	if got != 0 {
		t.Errorf("Next(Block, 0, 15) = %d, want 0 (15 >= maxNonce wraps)", got)
	}
	got2 := Next(Block, 0, 100, &total)
	if got2 != 15 {
		t.Errorf("Next(Block, 0, 100) = %d, want 15", got2)
	}
}

func TestTotalIncrementsOncePerCall(t *testing.T) {
	var total uint32
	Next(Increment, 0, 100, &total)
	Next(Decrement, 50, 100, &total)
	if total != 2 {
		t.Errorf("total = %d, want 2 after two Next calls", total)
	}
}

func TestUpAndDownBanksHaveSixSlotsEach(t *testing.T) {
	if len(Up) != 6 {
		t.Errorf("len(Up) = %d, want 6", len(Up))
	}
	if len(Down) != 6 {
		t.Errorf("len(Down) = %d, want 6", len(Down))
	}
}

func TestIRandomOffsetStaysBelow255(t *testing.T) {
	var total uint32
	for i := 0; i < 2000; i++ {
		got := Next(IRandom, 0, 1<<20, &total)
		if got >= 255 {
			t.Fatalf("Next(IRandom) offset = %d, want < 255", got)
		}
	}
}

func TestRandomStaysBelowMaxNonce(t *testing.T) {
	const maxNonce = 1000
	var total uint32
	for i := 0; i < 2000; i++ {
		got := Next(Random, 0, maxNonce, &total)
		if got >= maxNonce {
			t.Fatalf("Next(Random) = %d, want < %d", got, maxNonce)
		}
	}
}

func TestNRandomStaysAboveZeroAndUpToMaxNonce(t *testing.T) {
	const maxNonce = 1000
	var total uint32
	for i := 0; i < 2000; i++ {
		got := Next(NRandom, 0, maxNonce, &total)
		if got > maxNonce || got == 0 {
			t.Fatalf("Next(NRandom) = %d, want in (0, %d]", got, maxNonce)
		}
	}
}
