package crypto

import "testing"

func TestDeriveAddressRoundTripsThroughValidate(t *testing.T) {
	kp, err := NewKeyPair()
	if err != nil {
		t.Fatalf("NewKeyPair() error = %v", err)
	}

	addr := kp.Address()
	if err := ValidateAddress(addr); err != nil {
		t.Errorf("ValidateAddress(%q) = %v, want nil", addr, err)
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	kp, err := NewKeyPair()
	if err != nil {
		t.Fatalf("NewKeyPair() error = %v", err)
	}

	msg := []byte("block header bytes")
	sig, err := kp.Sign(msg)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if !kp.Verify(msg, sig) {
		t.Error("Verify() = false for a valid signature")
	}
}

func TestDoubleHash256MatchesTwoSingleHashes(t *testing.T) {
	data := []byte("supradrive")
	first := Hash256(data)
	second := Hash256(first)
	if string(DoubleHash256(data)) != string(second) {
		t.Error("DoubleHash256 does not match two chained Hash256 calls")
	}
}
