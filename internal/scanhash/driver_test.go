package scanhash

import (
	"testing"

	"github.com/sjurajpuchky/cgminer/internal/sha256core"
	"github.com/sjurajpuchky/cgminer/internal/strategy"
)

func TestScanRestartWinsImmediately(t *testing.T) {
	var midstate [8]uint32 = sha256core.IV
	var data [64]byte
	var target [32]byte
	for i := range target {
		target[i] = 0xFF
	}

	restart := &fakeRestart{requested: true}
	ctx := NewContext(1024)
	lastNonce := uint32(0)

	got := Scan(restart, &midstate, &data, &target, 1024, &lastNonce, 0, ctx)

	if got {
		t.Error("Scan() = true, want false when restart is signaled before any hit")
	}
	if ctx.Buffer.Len() != 0 {
		t.Errorf("Buffer.Len() = %d, want 0 after a restart-driven return", ctx.Buffer.Len())
	}
	if ctx.Total != 0 {
		t.Errorf("Total = %d, want 0 after restart", ctx.Total)
	}
}

func TestScanCompletesWithNoHitsAtMaxNonce(t *testing.T) {
	var midstate [8]uint32 = sha256core.IV
	var data [64]byte
	var target [32]byte // all-zero target, unsatisfiable for any nonzero hash

	restart := &fakeRestart{}
	ctx := NewContext(1024)
	lastNonce := uint32(0)

	got := Scan(restart, &midstate, &data, &target, 1024, &lastNonce, 0, ctx)

	if got {
		t.Error("Scan() = true, want false when no semi-results were produced")
	}
	if ctx.Total != 0 {
		t.Errorf("Total = %d, want 0 after completion", ctx.Total)
	}
	for n := uint32(0); n < 1024; n++ {
		if ctx.Lock.IsLocked(n) {
			t.Fatalf("nonce %d still locked after completion", n)
		}
	}
}

func TestStepAdvancesLastNonceOnInProgress(t *testing.T) {
	var midstate [8]uint32 = sha256core.IV
	var data [64]byte
	var target [32]byte // all-zero target, unsatisfiable for any nonzero hash

	restart := &fakeRestart{}
	ctx := NewContext(1 << 20)
	ctx.reset(0, 1<<20, 0)
	lastNonce := uint32(0)
	var slot uint32

	done, success := ctx.step(restart, &midstate, &data, &target, 1<<20, &lastNonce, strategy.Increment, &slot)

	if done {
		t.Fatalf("step() done = true, want false for an in-progress candidate")
	}
	if success {
		t.Error("step() success = true, want false")
	}
	if lastNonce != slot {
		t.Errorf("lastNonce = %d, want %d (the nonce just issued by an in-progress step)", lastNonce, slot)
	}
	if lastNonce == 0 {
		t.Error("lastNonce still 0 after an in-progress step, want it advanced")
	}
}

func TestWriteNonceIsLittleEndianAtOffset12(t *testing.T) {
	var data [64]byte
	writeNonce(&data, 0x01020304)
	want := [4]byte{0x04, 0x03, 0x02, 0x01}
	got := [4]byte{data[12], data[13], data[14], data[15]}
	if got != want {
		t.Errorf("writeNonce wrote %#v, want %#v", got, want)
	}
}
