package scanhash

import (
	"testing"

	"github.com/sjurajpuchky/cgminer/internal/bitfield"
)

type fakeRestart struct{ requested bool }

func (f *fakeRestart) Requested() bool { return f.requested }

func TestClassifySuccessPushesSemiResultAndClearsNothing(t *testing.T) {
	ctx := &Context{Lock: bitfield.NewLockMap(1024)}
	var target [32]byte
	hash := [8]uint32{1, 2, 3, 4, 5, 6, 7, 0}

	status := classify(hash, 42, &target, 1024, &fakeRestart{}, ctx)

	if status != StatusSuccess {
		t.Fatalf("classify() = %v, want StatusSuccess", status)
	}
	if ctx.Buffer.Len() != 1 {
		t.Fatalf("Buffer.Len() = %d, want 1", ctx.Buffer.Len())
	}
}

func TestClassifyRestartClearsLockAndTotal(t *testing.T) {
	ctx := &Context{Lock: bitfield.NewLockMap(1024), Total: 5}
	ctx.Lock.Lock(3)
	var target [32]byte
	hash := [8]uint32{1, 2, 3, 4, 5, 6, 7, 99}

	status := classify(hash, 42, &target, 1024, &fakeRestart{requested: true}, ctx)

	if status != StatusRestart {
		t.Fatalf("classify() = %v, want StatusRestart", status)
	}
	if ctx.Total != 0 {
		t.Errorf("Total = %d, want 0 after restart", ctx.Total)
	}
	if ctx.Lock.IsLocked(3) {
		t.Error("lock bitmap not cleared after restart")
	}
}

func TestClassifyCompleteWhenTotalReachesMax(t *testing.T) {
	ctx := &Context{Lock: bitfield.NewLockMap(1024), Total: 1024}
	var target [32]byte
	hash := [8]uint32{1, 2, 3, 4, 5, 6, 7, 99}

	status := classify(hash, 42, &target, 1024, &fakeRestart{}, ctx)

	if status != StatusComplete {
		t.Fatalf("classify() = %v, want StatusComplete", status)
	}
	if ctx.Total != 0 {
		t.Errorf("Total = %d, want 0 after complete", ctx.Total)
	}
}

func TestClassifyInProgressWhenNoTerminalCondition(t *testing.T) {
	ctx := &Context{Lock: bitfield.NewLockMap(1024), Total: 10}
	var target [32]byte
	hash := [8]uint32{1, 2, 3, 4, 5, 6, 7, 99}

	status := classify(hash, 42, &target, 1024, &fakeRestart{}, ctx)

	if status != StatusInProgress {
		t.Fatalf("classify() = %v, want StatusInProgress", status)
	}
}

func TestComputeDigestDeterministic(t *testing.T) {
	var midstate [8]uint32 = [8]uint32{1, 2, 3, 4, 5, 6, 7, 8}
	var data [64]byte
	for i := range data {
		data[i] = byte(i)
	}

	h1 := computeDigest(&midstate, &data)
	h2 := computeDigest(&midstate, &data)
	if h1 != h2 {
		t.Error("computeDigest is not deterministic for identical inputs")
	}
}
