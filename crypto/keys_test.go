package crypto

import (
	"bytes"
	"strings"
	"testing"
)

func TestAddressRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte{0x5A}, AddressLength)
	addr, err := NewAddress(OrdPrefix, payload)
	if err != nil {
		t.Fatalf("NewAddress: %v", err)
	}

	encoded := addr.String()
	if !strings.HasPrefix(encoded, string(OrdPrefix)+"1") {
		t.Fatalf("unexpected bech32 prefix: %s", encoded)
	}

	decoded, err := DecodeAddress(encoded)
	if err != nil {
		t.Fatalf("DecodeAddress: %v", err)
	}
	if !decoded.Equal(addr) {
		t.Fatalf("round trip mismatch: %s != %s", decoded, addr)
	}
	if decoded.Prefix() != OrdPrefix {
		t.Fatalf("unexpected prefix: %s", decoded.Prefix())
	}
}

func TestAddressRejectsBadLength(t *testing.T) {
	if _, err := NewAddress(OrdPrefix, []byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for short payload")
	}
}

func TestAddressEqualityIgnoresPrefix(t *testing.T) {
	payload := bytes.Repeat([]byte{0x01}, AddressLength)
	a := MustNewAddress(OrdPrefix, payload)
	b := MustNewAddress(AddressPrefix("other"), payload)
	if !a.Equal(b) {
		t.Fatal("principals with equal payloads must compare equal")
	}
}

func TestGeneratedKeysProduceDistinctAddresses(t *testing.T) {
	k1, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	k2, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	if k1.PubKey().Address().Equal(k2.PubKey().Address()) {
		t.Fatal("two fresh keys produced the same address")
	}

	restored, err := PrivateKeyFromBytes(k1.Bytes())
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes: %v", err)
	}
	if !restored.PubKey().Address().Equal(k1.PubKey().Address()) {
		t.Fatal("restored key address mismatch")
	}
}
