package chain

import "testing"

func TestNewHeaderIsGenesisWhenNoParent(t *testing.T) {
	h := NewHeader("", 0)
	if !h.IsGenesis() {
		t.Error("header with height 0 and no parent should be genesis")
	}
}

func TestValidateRejectsMissingParentAtHeight(t *testing.T) {
	h := NewHeader("", 5)
	if err := h.Validate(); err != ErrInvalidHeight {
		t.Errorf("Validate() = %v, want ErrInvalidHeight", err)
	}
}

func TestMeetsTargetDelegatesToComparator(t *testing.T) {
	h := NewHeader("parent", 1)

	var digest [32]byte
	if !h.MeetsTarget(digest) {
		t.Error("zero digest should meet a zero target (equal)")
	}

	digest[31] = 0x01
	if h.MeetsTarget(digest) {
		t.Error("digest with a nonzero trailing word should not meet an all-zero target")
	}
}
