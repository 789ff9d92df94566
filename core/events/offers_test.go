package events

import (
	"bytes"
	"testing"

	"github.com/dmystical-coder/ordyswap/crypto"
)

func testAddr(fill byte) [20]byte {
	var addr [20]byte
	copy(addr[:], bytes.Repeat([]byte{fill}, len(addr)))
	return addr
}

func bech32Of(addr [20]byte) string {
	return crypto.MustNewAddress(crypto.OrdPrefix, addr[:]).String()
}

func TestNewOfferEventAttributes(t *testing.T) {
	var txid [32]byte
	txid[31] = 0x01
	evt := NewOffer{
		ID:        7,
		Sender:    testAddr(0x01),
		Recipient: testAddr(0x02),
		Amount:    3_000_000,
		Txid:      txid,
		Index:     2,
		Output:    []byte{0x76, 0xa9},
	}
	if evt.EventType() != TypeNewOffer {
		t.Fatalf("unexpected event type: %s", evt.EventType())
	}
	payload := evt.Event()
	if payload.Type != TypeNewOffer {
		t.Fatalf("unexpected payload type: %s", payload.Type)
	}
	attrs := payload.Attributes
	if attrs["id"] != "7" || attrs["amount"] != "3000000" || attrs["index"] != "2" {
		t.Fatalf("unexpected numeric attributes: %v", attrs)
	}
	if attrs["txid"] != "0000000000000000000000000000000000000000000000000000000000000001" {
		t.Fatalf("unexpected txid attribute: %s", attrs["txid"])
	}
	if attrs["output"] != "76a9" {
		t.Fatalf("unexpected output attribute: %s", attrs["output"])
	}
	if attrs["sender"] != bech32Of(testAddr(0x01)) || attrs["recipient"] != bech32Of(testAddr(0x02)) {
		t.Fatalf("unexpected principal attributes: %v", attrs)
	}
}

func TestOfferLifecycleEventAttributes(t *testing.T) {
	cancelled := OfferCancelled{ID: 3, CancelHeight: 150}
	if got := cancelled.Event().Attributes["cancelHeight"]; got != "150" {
		t.Fatalf("unexpected cancelHeight: %s", got)
	}

	refunded := OfferRefunded{ID: 3, Amount: 5_000_000, Recipient: testAddr(0x0A)}
	attrs := refunded.Event().Attributes
	if attrs["amount"] != "5000000" || attrs["recipient"] != bech32Of(testAddr(0x0A)) {
		t.Fatalf("unexpected refund attributes: %v", attrs)
	}

	var btcTxid [32]byte
	btcTxid[31] = 0x02
	accepted := OfferAccepted{ID: 3, BtcTxid: btcTxid, Amount: 1_000_000, Fee: 10_000}
	attrs = accepted.Event().Attributes
	if attrs["fee"] != "10000" {
		t.Fatalf("unexpected fee attribute: %s", attrs["fee"])
	}
	if attrs["btcTxid"] != "0000000000000000000000000000000000000000000000000000000000000002" {
		t.Fatalf("unexpected btcTxid attribute: %s", attrs["btcTxid"])
	}
}

func TestRecorderPreservesOrder(t *testing.T) {
	rec := NewRecorder()
	rec.Emit(NewOffer{ID: 0})
	rec.Emit(OfferCancelled{ID: 0, CancelHeight: 51})
	rec.Emit(OfferRefunded{ID: 0, Amount: 1})

	got := rec.Events()
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	want := []string{TypeNewOffer, TypeOfferCancelled, TypeOfferRefunded}
	for i, evt := range got {
		if evt.EventType() != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], evt.EventType())
		}
	}
}
