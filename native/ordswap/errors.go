package ordswap

import "github.com/dmystical-coder/ordyswap/native/common"

var (
	// ErrTransferFailed surfaces a rejected native-coin movement, most
	// commonly an underfunded buyer at offer creation.
	ErrTransferFailed = common.NewError(1, "ordswap: native coin transfer failed")
	// ErrInvalidOffer covers missing offers, wrong callers and lifecycle
	// states that forbid the requested transition.
	ErrInvalidOffer = common.NewError(102, "ordswap: invalid offer")
	// ErrPaused rejects mutations while governance has halted the
	// protocol. Read accessors stay available.
	ErrPaused = common.NewError(105, "ordswap: protocol paused")
	// ErrOfferRefunded marks an offer whose escrow has already been
	// returned to the sender.
	ErrOfferRefunded = common.NewError(106, "ordswap: offer already refunded")
)
