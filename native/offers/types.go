package offers

import "fmt"

// TxidLength is the size of an external-chain transaction reference.
const TxidLength = 32

// Output script length bounds enforced on every stored offer.
const (
	MinOutputLength = 1
	MaxOutputLength = 128
)

// Offer is a buyer's commitment to pay a fixed amount of native coin for the
// delivery of an ordinal to a specific external-chain output script. Content
// fields are written once at insertion and never mutated; lifecycle progress
// lives in the side records below.
type Offer struct {
	ID        uint64
	Txid      [TxidLength]byte
	Index     uint32
	Amount    uint64
	Output    []byte
	Sender    [20]byte
	Recipient [20]byte
	CreatedAt uint64
	ExpiresAt uint64
}

// Clone returns a deep copy so callers can safely hold the result across
// subsequent state mutations.
func (o *Offer) Clone() *Offer {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Output = make([]byte, len(o.Output))
	copy(clone.Output, o.Output)
	return &clone
}

// AcceptanceRecord proves external-chain delivery: the confirmation txid and
// the block height at which the proof was recorded.
type AcceptanceRecord struct {
	BtcTxid [TxidLength]byte
	Height  uint64
}

// CancellationRecord marks a voluntary cancel. The refund only unlocks once
// the chain passes CancelHeight.
type CancellationRecord struct {
	CancelHeight uint64
}

// RefundRecord is the terminal sentinel set when escrowed coin has been
// returned to the sender.
type RefundRecord struct {
	Refunded bool
}

// SanitizeOffer validates the offer's content fields and returns a defensive
// copy. It does not consult any lifecycle state.
func SanitizeOffer(o *Offer) (*Offer, error) {
	if o == nil {
		return nil, fmt.Errorf("nil offer")
	}
	if o.Amount < 1 {
		return nil, fmt.Errorf("offer amount must be at least 1 micro-unit")
	}
	if len(o.Output) < MinOutputLength || len(o.Output) > MaxOutputLength {
		return nil, fmt.Errorf("offer output script must be %d-%d bytes, got %d", MinOutputLength, MaxOutputLength, len(o.Output))
	}
	return o.Clone(), nil
}
