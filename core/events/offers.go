package events

import (
	"encoding/hex"
	"strconv"

	"github.com/dmystical-coder/ordyswap/core/types"
	"github.com/dmystical-coder/ordyswap/crypto"
)

const (
	TypeNewOffer       = "new-offer"
	TypeOfferCancelled = "offer-cancelled"
	TypeOfferRefunded  = "offer-refunded"
	TypeOfferAccepted  = "offer-accepted"
)

// NewOffer is emitted when a buyer escrows native coin against an ordinal.
type NewOffer struct {
	ID        uint64
	Sender    [20]byte
	Recipient [20]byte
	Amount    uint64
	Txid      [32]byte
	Index     uint32
	Output    []byte
}

func (NewOffer) EventType() string { return TypeNewOffer }

func (e NewOffer) Event() *types.Event {
	return &types.Event{
		Type: TypeNewOffer,
		Attributes: map[string]string{
			"id":        strconv.FormatUint(e.ID, 10),
			"sender":    addrString(e.Sender),
			"recipient": addrString(e.Recipient),
			"amount":    strconv.FormatUint(e.Amount, 10),
			"txid":      hex.EncodeToString(e.Txid[:]),
			"index":     strconv.FormatUint(uint64(e.Index), 10),
			"output":    hex.EncodeToString(e.Output),
		},
	}
}

// OfferCancelled is emitted when the buyer voluntarily cancels; the refund
// only unlocks once the recorded cancel height has passed.
type OfferCancelled struct {
	ID           uint64
	CancelHeight uint64
}

func (OfferCancelled) EventType() string { return TypeOfferCancelled }

func (e OfferCancelled) Event() *types.Event {
	return &types.Event{
		Type: TypeOfferCancelled,
		Attributes: map[string]string{
			"id":           strconv.FormatUint(e.ID, 10),
			"cancelHeight": strconv.FormatUint(e.CancelHeight, 10),
		},
	}
}

// OfferRefunded is emitted when escrowed coin returns to the buyer after the
// grace period.
type OfferRefunded struct {
	ID        uint64
	Amount    uint64
	Recipient [20]byte
}

func (OfferRefunded) EventType() string { return TypeOfferRefunded }

func (e OfferRefunded) Event() *types.Event {
	return &types.Event{
		Type: TypeOfferRefunded,
		Attributes: map[string]string{
			"id":        strconv.FormatUint(e.ID, 10),
			"amount":    strconv.FormatUint(e.Amount, 10),
			"recipient": addrString(e.Recipient),
		},
	}
}

// OfferAccepted is emitted when external-chain delivery is proven and the
// escrow settles in favour of the seller.
type OfferAccepted struct {
	ID      uint64
	BtcTxid [32]byte
	Amount  uint64
	Fee     uint64
}

func (OfferAccepted) EventType() string { return TypeOfferAccepted }

func (e OfferAccepted) Event() *types.Event {
	return &types.Event{
		Type: TypeOfferAccepted,
		Attributes: map[string]string{
			"id":      strconv.FormatUint(e.ID, 10),
			"btcTxid": hex.EncodeToString(e.BtcTxid[:]),
			"amount":  strconv.FormatUint(e.Amount, 10),
			"fee":     strconv.FormatUint(e.Fee, 10),
		},
	}
}

func addrString(b [20]byte) string {
	return crypto.MustNewAddress(crypto.OrdPrefix, b[:]).String()
}
