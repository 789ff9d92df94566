package offers

import "github.com/dmystical-coder/ordyswap/native/common"

// ErrInvalidOffer covers every storage-layer integrity violation: duplicate
// ids, missing offers, and status writes that contradict the recorded
// lifecycle.
var ErrInvalidOffer = common.NewError(120, "offer-storage: invalid offer")
