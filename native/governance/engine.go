package governance

import (
	"errors"
	"fmt"

	"github.com/dmystical-coder/ordyswap/native/common"
)

var (
	errNilState = errors.New("governance: state not configured")

	// ErrNotOwner is returned for every mutation attempted by a principal
	// other than the current owner.
	ErrNotOwner = common.NewError(141, "governance: caller is not the owner")
	// ErrFeeTooHigh rejects protocol fees above MaxFeeBps.
	ErrFeeTooHigh = common.NewError(160, "governance: fee exceeds maximum")
)

type engineState interface {
	GovernanceGet() (*State, error)
	GovernancePut(*State) error
}

// Engine is the process-wide authority layer: who administers the protocol,
// whether it is paused, and what fee rate applies. There is no per-offer
// state and no state machine; every call is independent.
type Engine struct {
	state engineState
}

// NewEngine creates a governance engine over the provided state backend.
func NewEngine(state engineState) *Engine {
	return &Engine{state: state}
}

// Init writes the initial governance cell with the deploying principal as
// owner. It is a no-op when a cell already exists, so replaying genesis is
// safe.
func (e *Engine) Init(owner [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	existing, err := e.state.GovernanceGet()
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return e.state.GovernancePut(&State{Owner: owner})
}

func (e *Engine) load() (*State, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	st, err := e.state.GovernanceGet()
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("governance: not initialised")
	}
	return st, nil
}

// Owner returns the current administrative principal.
func (e *Engine) Owner() ([20]byte, error) {
	st, err := e.load()
	if err != nil {
		return [20]byte{}, err
	}
	return st.Owner, nil
}

// IsProtocolPaused reports the pause flag.
func (e *Engine) IsProtocolPaused() (bool, error) {
	st, err := e.load()
	if err != nil {
		return false, err
	}
	return st.Paused, nil
}

// IsPaused implements common.PauseView. Backend read failures report as
// paused: an unreadable governance cell must fail closed.
func (e *Engine) IsPaused(string) bool {
	paused, err := e.IsProtocolPaused()
	if err != nil {
		return true
	}
	return paused
}

// ProtocolFee returns the configured fee rate in basis points.
func (e *Engine) ProtocolFee() (uint16, error) {
	st, err := e.load()
	if err != nil {
		return 0, err
	}
	return st.FeeBps, nil
}

// CalculateFee returns amount x feeBps / 10_000 with integer truncation;
// zero when no fee is configured. The product cannot overflow: FeeBps is
// capped at 500 and amount is 64-bit, so the intermediate fits in 128 bits
// worth of headroom handled via the high/low split below.
func (e *Engine) CalculateFee(amount uint64) (uint64, error) {
	st, err := e.load()
	if err != nil {
		return 0, err
	}
	if st.FeeBps == 0 {
		return 0, nil
	}
	bps := uint64(st.FeeBps)
	// (amount / 10_000) * bps + (amount % 10_000) * bps / 10_000 avoids
	// overflowing the 64-bit product for large escrow amounts.
	return (amount/FeeDenominator)*bps + (amount%FeeDenominator)*bps/FeeDenominator, nil
}

// SetPaused flips the pause flag. Owner only.
func (e *Engine) SetPaused(caller [20]byte, paused bool) error {
	st, err := e.load()
	if err != nil {
		return err
	}
	if st.Owner != caller {
		return ErrNotOwner
	}
	st.Paused = paused
	return e.state.GovernancePut(st)
}

// EmergencyPause is a convenience equivalent of SetPaused(true).
func (e *Engine) EmergencyPause(caller [20]byte) error {
	return e.SetPaused(caller, true)
}

// TransferOwnership hands administration to a new principal. Owner only.
func (e *Engine) TransferOwnership(caller, newOwner [20]byte) error {
	st, err := e.load()
	if err != nil {
		return err
	}
	if st.Owner != caller {
		return ErrNotOwner
	}
	st.Owner = newOwner
	return e.state.GovernancePut(st)
}

// SetProtocolFee updates the fee rate. Owner only; bps above MaxFeeBps
// reject without touching state.
func (e *Engine) SetProtocolFee(caller [20]byte, bps uint16) error {
	st, err := e.load()
	if err != nil {
		return err
	}
	if st.Owner != caller {
		return ErrNotOwner
	}
	if bps > MaxFeeBps {
		return fmt.Errorf("%w: %d bps > %d", ErrFeeTooHigh, bps, MaxFeeBps)
	}
	st.FeeBps = bps
	return e.state.GovernancePut(st)
}
