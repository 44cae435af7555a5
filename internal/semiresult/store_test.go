package semiresult

import "testing"

func TestPushAndLen(t *testing.T) {
	var b Buffer
	var h, tg [32]byte
	b.Push(1, h, tg, nil)
	b.Push(2, h, tg, nil)
	if got := b.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestClearResetsLen(t *testing.T) {
	var b Buffer
	var h, tg [32]byte
	b.Push(1, h, tg, nil)
	b.Clear()
	if got := b.Len(); got != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", got)
	}
}

func TestRemoveAtSwapsWithLast(t *testing.T) {
	var b Buffer
	var h, tg [32]byte
	b.Push(10, h, tg, nil)
	b.Push(20, h, tg, nil)
	b.Push(30, h, tg, nil)

	b.RemoveAt(0)
	if got := b.Len(); got != 2 {
		t.Fatalf("Len() after RemoveAt = %d, want 2", got)
	}
	if b.entries[0].Nonce != 30 {
		t.Errorf("entries[0].Nonce = %d, want 30 (swapped from last slot)", b.entries[0].Nonce)
	}
}

func TestFlushDrainsToZero(t *testing.T) {
	var b Buffer
	var h, tg [32]byte
	b.Push(1, h, tg, nil)
	b.Push(2, h, tg, nil)

	out := b.Flush()
	if len(out) != 2 {
		t.Fatalf("Flush() returned %d entries, want 2", len(out))
	}
	if b.Len() != 0 {
		t.Errorf("Len() after Flush() = %d, want 0", b.Len())
	}
}

func TestOverflowHookInvokedExactlyOnceAt4097thPush(t *testing.T) {
	var b Buffer
	var h, tg [32]byte
	calls := 0
	hook := func() {
		calls++
		b.Flush()
	}

	for i := 0; i < Capacity; i++ {
		b.Push(uint32(i), h, tg, hook)
	}
	if calls != 0 {
		t.Fatalf("overflow hook called %d times before reaching capacity, want 0", calls)
	}
	if b.Len() != Capacity {
		t.Fatalf("Len() = %d, want %d after filling to capacity", b.Len(), Capacity)
	}

	b.Push(uint32(Capacity), h, tg, hook)
	if calls != 1 {
		t.Errorf("overflow hook called %d times at the 4097th push, want 1", calls)
	}
}
