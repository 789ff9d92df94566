package offers

import (
	"bytes"
	"testing"
)

func validOffer() *Offer {
	return &Offer{
		Amount: 1,
		Output: []byte{0x51},
	}
}

func TestSanitizeOfferReturnsCopy(t *testing.T) {
	original := validOffer()
	original.Output = []byte{0x76, 0xa9, 0x14}

	sanitized, err := SanitizeOffer(original)
	if err != nil {
		t.Fatalf("SanitizeOffer: %v", err)
	}
	sanitized.Output[0] = 0x00
	if original.Output[0] != 0x76 {
		t.Fatal("sanitize must not alias the caller's output slice")
	}
}

func TestSanitizeOfferRejects(t *testing.T) {
	if _, err := SanitizeOffer(nil); err == nil {
		t.Fatal("nil offer should be rejected")
	}

	zero := validOffer()
	zero.Amount = 0
	if _, err := SanitizeOffer(zero); err == nil {
		t.Fatal("zero amount should be rejected")
	}

	empty := validOffer()
	empty.Output = nil
	if _, err := SanitizeOffer(empty); err == nil {
		t.Fatal("empty output should be rejected")
	}

	long := validOffer()
	long.Output = bytes.Repeat([]byte{0x01}, MaxOutputLength+1)
	if _, err := SanitizeOffer(long); err == nil {
		t.Fatal("oversized output should be rejected")
	}
}

func TestCloneDeepCopies(t *testing.T) {
	if (*Offer)(nil).Clone() != nil {
		t.Fatal("nil clone should stay nil")
	}
	offer := validOffer()
	clone := offer.Clone()
	clone.Output[0] = 0xFF
	if offer.Output[0] == 0xFF {
		t.Fatal("clone must not share the output slice")
	}
}
