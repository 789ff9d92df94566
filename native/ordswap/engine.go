package ordswap

import (
	"errors"
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/dmystical-coder/ordyswap/core/events"
	"github.com/dmystical-coder/ordyswap/core/types"
	"github.com/dmystical-coder/ordyswap/native/common"
	"github.com/dmystical-coder/ordyswap/native/offers"
)

// ModuleName identifies the orchestrator to the governance pause view.
const ModuleName = "ordswap"

// GracePeriodBlocks is the mandatory delay between a voluntary cancel and
// the refund becoming claimable. The window preserves the seller's
// priority: an acceptance proof landing after the cancel still wins until
// the window closes.
const GracePeriodBlocks uint64 = 50

var errNilState = errors.New("ordswap engine: state not configured")

type ledgerState interface {
	GetAccount(addr []byte) (*types.Account, error)
	PutAccount(addr []byte, account *types.Account) error
}

type governanceView interface {
	common.PauseView
	CalculateFee(amount uint64) (uint64, error)
	Owner() ([20]byte, error)
}

// Engine is the public surface of the swap protocol. It routes native-coin
// custody through the ledger, advances offer lifecycle through the storage
// layer, consults governance for pause and fee decisions, and emits
// structured events for off-chain indexers. The host serializes calls, so
// every operation is atomic with respect to all state.
type Engine struct {
	state   ledgerState
	store   *offers.Store
	gov     governanceView
	emitter events.Emitter
	vault   [20]byte
}

// NewEngine creates an orchestrator with a no-op emitter and the default
// vault address. Callers wire state, storage and governance before use.
// Block time is owned by the offer store's height source; the engine itself
// never reads the clock.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		vault:   defaultVaultAddress(),
	}
}

// defaultVaultAddress derives the custody principal for escrowed coin. No
// key exists for it; funds only move through engine transitions.
func defaultVaultAddress() [20]byte {
	var addr [20]byte
	hash := ethcrypto.Keccak256([]byte("ordswap/escrow-vault"))
	copy(addr[:], hash[12:])
	return addr
}

// SetState configures the ledger backend used for coin custody.
func (e *Engine) SetState(state ledgerState) { e.state = state }

// SetStore configures the offer storage layer.
func (e *Engine) SetStore(store *offers.Store) { e.store = store }

// SetGovernance configures the authority consulted for pause and fees.
func (e *Engine) SetGovernance(gov governanceView) { e.gov = gov }

// SetEmitter configures the event sink. Passing nil resets to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// VaultAddress exposes the custody principal, primarily for audits and
// conservation checks.
func (e *Engine) VaultAddress() [20]byte { return e.vault }

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil || e.store == nil {
		return errNilState
	}
	return nil
}

func (e *Engine) guardPaused() error {
	return common.Guard(e.gov, ModuleName, ErrPaused)
}

// transferCoin moves native coin between ledger accounts. Underfunded
// sources reject with the stable transfer error and no state change.
func (e *Engine) transferCoin(from, to [20]byte, amount uint64) error {
	if amount == 0 {
		return nil
	}
	amt := new(big.Int).SetUint64(amount)
	fromAcc, err := e.state.GetAccount(from[:])
	if err != nil {
		return err
	}
	toAcc, err := e.state.GetAccount(to[:])
	if err != nil {
		return err
	}
	if fromAcc.Balance.Cmp(amt) < 0 {
		return fmt.Errorf("%w: insufficient balance", ErrTransferFailed)
	}
	fromAcc.Balance = new(big.Int).Sub(fromAcc.Balance, amt)
	toAcc.Balance = new(big.Int).Add(toAcc.Balance, amt)
	if err := e.state.PutAccount(from[:], fromAcc); err != nil {
		return err
	}
	return e.state.PutAccount(to[:], toAcc)
}

func invalidOffer(err error) error {
	return fmt.Errorf("%w: %s", ErrInvalidOffer, err)
}

// CreateOffer escrows amount micro-units from the caller against the
// ordinal at (txid, index), to be released when the ordinal reaches the
// given output script. Returns the assigned offer id. The ledger transfer
// happens before id allocation so a failed escrow never consumes an id.
func (e *Engine) CreateOffer(caller [20]byte, txid []byte, index uint32, amount uint64, output []byte, recipient [20]byte) (uint64, error) {
	if err := e.ready(); err != nil {
		return 0, err
	}
	if err := e.guardPaused(); err != nil {
		return 0, err
	}
	if len(txid) != offers.TxidLength {
		return 0, fmt.Errorf("%w: txid must be %d bytes, got %d", ErrInvalidOffer, offers.TxidLength, len(txid))
	}
	offer := &offers.Offer{
		Index:     index,
		Amount:    amount,
		Output:    output,
		Sender:    caller,
		Recipient: recipient,
	}
	copy(offer.Txid[:], txid)
	sanitized, err := offers.SanitizeOffer(offer)
	if err != nil {
		return 0, invalidOffer(err)
	}
	if err := e.transferCoin(caller, e.vault, sanitized.Amount); err != nil {
		return 0, err
	}
	id, err := e.store.GenerateNextID()
	if err != nil {
		return 0, err
	}
	sanitized.ID = id
	if err := e.store.InsertOffer(sanitized); err != nil {
		return 0, err
	}
	e.emit(events.NewOffer{
		ID:        id,
		Sender:    sanitized.Sender,
		Recipient: sanitized.Recipient,
		Amount:    sanitized.Amount,
		Txid:      sanitized.Txid,
		Index:     sanitized.Index,
		Output:    sanitized.Output,
	})
	return id, nil
}

// CancelOffer records a voluntary cancel by the buyer. The escrow stays
// locked for GracePeriodBlocks so a late acceptance proof can still settle
// the swap.
func (e *Engine) CancelOffer(caller [20]byte, id uint64) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.guardPaused(); err != nil {
		return err
	}
	offer, ok, err := e.store.GetOffer(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: offer %d not found", ErrInvalidOffer, id)
	}
	if offer.Sender != caller {
		return fmt.Errorf("%w: only the sender may cancel", ErrInvalidOffer)
	}
	if err := e.store.SetOfferCancelled(id, GracePeriodBlocks); err != nil {
		if errors.Is(err, offers.ErrInvalidOffer) {
			return invalidOffer(err)
		}
		return err
	}
	rec, _, err := e.store.GetCancellation(id)
	if err != nil {
		return err
	}
	e.emit(events.OfferCancelled{ID: id, CancelHeight: rec.CancelHeight})
	return nil
}

// RefundCancelledOffer returns the escrowed coin to the sender once the
// grace period has elapsed. The call is permissionless: whoever triggers
// it, funds only ever flow to the offer's sender. The refund record is
// written before the outbound transfer so downstream reads observe the
// terminal state.
func (e *Engine) RefundCancelledOffer(id uint64) (uint64, error) {
	if err := e.ready(); err != nil {
		return 0, err
	}
	if err := e.guardPaused(); err != nil {
		return 0, err
	}
	offer, ok, err := e.store.GetOffer(id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: offer %d not found", ErrInvalidOffer, id)
	}
	refunded, err := e.store.IsOfferRefunded(id)
	if err != nil {
		return 0, err
	}
	if refunded {
		return 0, fmt.Errorf("%w: offer %d", ErrOfferRefunded, id)
	}
	if err := e.store.SetOfferRefunded(id); err != nil {
		if errors.Is(err, offers.ErrInvalidOffer) {
			return 0, invalidOffer(err)
		}
		return 0, err
	}
	if err := e.transferCoin(e.vault, offer.Sender, offer.Amount); err != nil {
		return 0, err
	}
	e.emit(events.OfferRefunded{ID: id, Amount: offer.Amount, Recipient: offer.Sender})
	return id, nil
}

// SubmitAcceptedTx records a verified external-chain delivery proof and
// settles the escrow in favour of the recipient, net of the protocol fee.
// Acceptance supersedes a cancel that is still within its grace window; a
// refunded offer is closed for good.
func (e *Engine) SubmitAcceptedTx(caller [20]byte, id uint64, btcTxid []byte) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.guardPaused(); err != nil {
		return err
	}
	if len(btcTxid) != offers.TxidLength {
		return fmt.Errorf("%w: confirmation txid must be %d bytes, got %d", ErrInvalidOffer, offers.TxidLength, len(btcTxid))
	}
	offer, ok, err := e.store.GetOffer(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: offer %d not found", ErrInvalidOffer, id)
	}
	if offer.Recipient != caller {
		return fmt.Errorf("%w: only the recipient may submit acceptance", ErrInvalidOffer)
	}
	refunded, err := e.store.IsOfferRefunded(id)
	if err != nil {
		return err
	}
	if refunded {
		return fmt.Errorf("%w: offer %d", ErrOfferRefunded, id)
	}
	var proof [offers.TxidLength]byte
	copy(proof[:], btcTxid)
	if err := e.store.SetOfferAccepted(id, proof); err != nil {
		if errors.Is(err, offers.ErrInvalidOffer) {
			return invalidOffer(err)
		}
		return err
	}
	var fee uint64
	if e.gov != nil {
		fee, err = e.gov.CalculateFee(offer.Amount)
		if err != nil {
			return err
		}
	}
	if err := e.transferCoin(e.vault, offer.Recipient, offer.Amount-fee); err != nil {
		return err
	}
	if fee > 0 {
		sink, err := e.gov.Owner()
		if err != nil {
			return err
		}
		if err := e.transferCoin(e.vault, sink, fee); err != nil {
			return err
		}
	}
	e.emit(events.OfferAccepted{ID: id, BtcTxid: proof, Amount: offer.Amount, Fee: fee})
	return nil
}

// --- Read accessors (available while paused, never error on absence) ---

// GetOffer returns the offer stored at id, if any.
func (e *Engine) GetOffer(id uint64) (*offers.Offer, bool, error) {
	if err := e.ready(); err != nil {
		return nil, false, err
	}
	return e.store.GetOffer(id)
}

// GetOfferAccepted returns the external-chain confirmation txid when the
// offer has been accepted.
func (e *Engine) GetOfferAccepted(id uint64) ([offers.TxidLength]byte, bool, error) {
	if err := e.ready(); err != nil {
		return [offers.TxidLength]byte{}, false, err
	}
	rec, ok, err := e.store.GetAcceptance(id)
	if err != nil || !ok {
		return [offers.TxidLength]byte{}, false, err
	}
	return rec.BtcTxid, true, nil
}

// GetOfferCancelled returns the recorded cancel height when the offer has
// been cancelled.
func (e *Engine) GetOfferCancelled(id uint64) (uint64, bool, error) {
	if err := e.ready(); err != nil {
		return 0, false, err
	}
	rec, ok, err := e.store.GetCancellation(id)
	if err != nil || !ok {
		return 0, false, err
	}
	return rec.CancelHeight, true, nil
}

// GetOfferRefunded reports whether the escrow has been returned.
func (e *Engine) GetOfferRefunded(id uint64) (bool, error) {
	if err := e.ready(); err != nil {
		return false, err
	}
	return e.store.IsOfferRefunded(id)
}

// LastID returns the next offer id to be assigned.
func (e *Engine) LastID() (uint64, error) {
	if err := e.ready(); err != nil {
		return 0, err
	}
	return e.store.LastID()
}
