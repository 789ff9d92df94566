package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/dmystical-coder/ordyswap/core/types"
	"github.com/dmystical-coder/ordyswap/native/governance"
	"github.com/dmystical-coder/ordyswap/native/offers"
	"github.com/dmystical-coder/ordyswap/storage"
)

// Manager reads and writes protocol state as RLP payloads under hashed,
// prefixed keys. The host execution model serializes all operations, so the
// manager performs no locking of its own.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

var (
	accountPrefix      = []byte("account:")
	offerPrefix        = []byte("offer:")
	acceptancePrefix   = []byte("offer-accepted:")
	cancellationPrefix = []byte("offer-cancelled:")
	refundPrefix       = []byte("offer-refunded:")
	lastOfferIDKey     = ethcrypto.Keccak256([]byte("offers/last-id"))
	governanceKey      = ethcrypto.Keccak256([]byte("governance/state"))
)

func accountKey(addr []byte) []byte {
	buf := make([]byte, len(accountPrefix)+len(addr))
	copy(buf, accountPrefix)
	copy(buf[len(accountPrefix):], addr)
	return ethcrypto.Keccak256(buf)
}

func idKey(prefix []byte, id uint64) []byte {
	buf := make([]byte, len(prefix)+8)
	copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[len(prefix):], id)
	return ethcrypto.Keccak256(buf)
}

func (m *Manager) get(key []byte, out interface{}) (bool, error) {
	data, err := m.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, fmt.Errorf("state: decode %T: %w", out, err)
	}
	return true, nil
}

func (m *Manager) put(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("state: encode %T: %w", value, err)
	}
	return m.db.Put(key, encoded)
}

// --- Accounts ---

// GetAccount loads the ledger record for a principal, returning a zero
// account for addresses that have never been touched.
func (m *Manager) GetAccount(addr []byte) (*types.Account, error) {
	acc := new(types.Account)
	ok, err := m.get(accountKey(addr), acc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.Account{Balance: big.NewInt(0)}, nil
	}
	return types.EnsureAccount(acc), nil
}

// PutAccount persists the ledger record for a principal.
func (m *Manager) PutAccount(addr []byte, account *types.Account) error {
	return m.put(accountKey(addr), types.EnsureAccount(account))
}

// --- Offers ---

// OfferPut persists an offer record keyed by its id.
func (m *Manager) OfferPut(offer *offers.Offer) error {
	if offer == nil {
		return fmt.Errorf("state: nil offer")
	}
	return m.put(idKey(offerPrefix, offer.ID), offer)
}

// OfferGet loads the offer stored at id.
func (m *Manager) OfferGet(id uint64) (*offers.Offer, bool, error) {
	offer := new(offers.Offer)
	ok, err := m.get(idKey(offerPrefix, id), offer)
	if err != nil || !ok {
		return nil, false, err
	}
	return offer, true, nil
}

// OfferLastID returns the next offer id to assign; 0 before any allocation.
func (m *Manager) OfferLastID() (uint64, error) {
	var id uint64
	ok, err := m.get(lastOfferIDKey, &id)
	if err != nil || !ok {
		return 0, err
	}
	return id, nil
}

// SetOfferLastID persists the id counter.
func (m *Manager) SetOfferLastID(id uint64) error {
	return m.put(lastOfferIDKey, id)
}

// OfferAcceptancePut records the acceptance side record for an offer.
func (m *Manager) OfferAcceptancePut(id uint64, rec *offers.AcceptanceRecord) error {
	if rec == nil {
		return fmt.Errorf("state: nil acceptance record")
	}
	return m.put(idKey(acceptancePrefix, id), rec)
}

// OfferAcceptanceGet loads the acceptance side record, if present.
func (m *Manager) OfferAcceptanceGet(id uint64) (*offers.AcceptanceRecord, bool, error) {
	rec := new(offers.AcceptanceRecord)
	ok, err := m.get(idKey(acceptancePrefix, id), rec)
	if err != nil || !ok {
		return nil, false, err
	}
	return rec, true, nil
}

// OfferCancellationPut records the cancellation side record for an offer.
func (m *Manager) OfferCancellationPut(id uint64, rec *offers.CancellationRecord) error {
	if rec == nil {
		return fmt.Errorf("state: nil cancellation record")
	}
	return m.put(idKey(cancellationPrefix, id), rec)
}

// OfferCancellationGet loads the cancellation side record, if present.
func (m *Manager) OfferCancellationGet(id uint64) (*offers.CancellationRecord, bool, error) {
	rec := new(offers.CancellationRecord)
	ok, err := m.get(idKey(cancellationPrefix, id), rec)
	if err != nil || !ok {
		return nil, false, err
	}
	return rec, true, nil
}

// OfferRefundPut records the refund sentinel for an offer.
func (m *Manager) OfferRefundPut(id uint64, rec *offers.RefundRecord) error {
	if rec == nil {
		return fmt.Errorf("state: nil refund record")
	}
	return m.put(idKey(refundPrefix, id), rec)
}

// OfferRefundGet loads the refund sentinel, if present.
func (m *Manager) OfferRefundGet(id uint64) (*offers.RefundRecord, bool, error) {
	rec := new(offers.RefundRecord)
	ok, err := m.get(idKey(refundPrefix, id), rec)
	if err != nil || !ok {
		return nil, false, err
	}
	return rec, true, nil
}

// --- Governance ---

// GovernanceGet loads the governance cell; nil without error when the
// protocol has not been initialised yet.
func (m *Manager) GovernanceGet() (*governance.State, error) {
	st := new(governance.State)
	ok, err := m.get(governanceKey, st)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return st, nil
}

// GovernancePut persists the governance cell.
func (m *Manager) GovernancePut(st *governance.State) error {
	if st == nil {
		return fmt.Errorf("state: nil governance state")
	}
	return m.put(governanceKey, st)
}
