package offers

import (
	"errors"
	"fmt"
)

var errNilState = errors.New("offer storage: state not configured")

// Backend is the persistence surface the store operates on. The state
// manager implements it; tests may substitute an in-memory fake.
type Backend interface {
	OfferPut(offer *Offer) error
	OfferGet(id uint64) (*Offer, bool, error)
	OfferLastID() (uint64, error)
	SetOfferLastID(id uint64) error
	OfferAcceptancePut(id uint64, rec *AcceptanceRecord) error
	OfferAcceptanceGet(id uint64) (*AcceptanceRecord, bool, error)
	OfferCancellationPut(id uint64, rec *CancellationRecord) error
	OfferCancellationGet(id uint64) (*CancellationRecord, bool, error)
	OfferRefundPut(id uint64, rec *RefundRecord) error
	OfferRefundGet(id uint64) (*RefundRecord, bool, error)
}

// Store is the offer storage layer. It owns id allocation, the offer table
// and the lifecycle side records, and enforces their integrity. Callers are
// trusted: authorization happens in the orchestrator before a write reaches
// the store.
type Store struct {
	state    Backend
	heightFn func() uint64
}

// NewStore wires a store to its persistence backend.
func NewStore(state Backend) *Store {
	return &Store{state: state, heightFn: func() uint64 { return 0 }}
}

// SetHeightSource overrides the block-height source. Hosts install the chain
// tip; tests install a controllable counter.
func (s *Store) SetHeightSource(height func() uint64) {
	if height == nil {
		s.heightFn = func() uint64 { return 0 }
		return
	}
	s.heightFn = height
}

func (s *Store) height() uint64 {
	if s == nil || s.heightFn == nil {
		return 0
	}
	return s.heightFn()
}

// LastID returns the next offer id to be assigned; 0 before any allocation.
func (s *Store) LastID() (uint64, error) {
	if s == nil || s.state == nil {
		return 0, errNilState
	}
	return s.state.OfferLastID()
}

// GenerateNextID returns the current last-id and post-increments the
// counter. Ids are dense: no gaps, no reuse.
func (s *Store) GenerateNextID() (uint64, error) {
	if s == nil || s.state == nil {
		return 0, errNilState
	}
	id, err := s.state.OfferLastID()
	if err != nil {
		return 0, err
	}
	if err := s.state.SetOfferLastID(id + 1); err != nil {
		return 0, err
	}
	return id, nil
}

// InsertOffer persists a new offer record, stamping created-at with the
// current block height. A record already present at offer.ID is rejected
// even though GenerateNextID normally prevents collisions; this guards
// direct misuse of the store.
func (s *Store) InsertOffer(offer *Offer) error {
	if s == nil || s.state == nil {
		return errNilState
	}
	sanitized, err := SanitizeOffer(offer)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidOffer, err)
	}
	_, exists, err := s.state.OfferGet(sanitized.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: id %d already exists", ErrInvalidOffer, sanitized.ID)
	}
	sanitized.CreatedAt = s.height()
	return s.state.OfferPut(sanitized)
}

// GetOffer returns the stored offer, if any.
func (s *Store) GetOffer(id uint64) (*Offer, bool, error) {
	if s == nil || s.state == nil {
		return nil, false, errNilState
	}
	return s.state.OfferGet(id)
}

// OfferExists reports whether an offer record is present at id.
func (s *Store) OfferExists(id uint64) (bool, error) {
	if s == nil || s.state == nil {
		return false, errNilState
	}
	_, ok, err := s.state.OfferGet(id)
	return ok, err
}

// SetOfferAccepted records external-chain delivery proof. Acceptance is
// legal for an open offer, or for a cancelled offer whose grace period has
// not yet elapsed; it is never legal after a refund or a second time.
func (s *Store) SetOfferAccepted(id uint64, btcTxid [TxidLength]byte) error {
	if s == nil || s.state == nil {
		return errNilState
	}
	if err := s.requireOffer(id); err != nil {
		return err
	}
	accepted, err := s.IsOfferAccepted(id)
	if err != nil {
		return err
	}
	if accepted {
		return fmt.Errorf("%w: offer %d already accepted", ErrInvalidOffer, id)
	}
	refunded, err := s.IsOfferRefunded(id)
	if err != nil {
		return err
	}
	if refunded {
		return fmt.Errorf("%w: offer %d already refunded", ErrInvalidOffer, id)
	}
	over, err := s.IsGracePeriodOver(id)
	if err != nil {
		return err
	}
	if over {
		return fmt.Errorf("%w: offer %d cancelled and past grace", ErrInvalidOffer, id)
	}
	return s.state.OfferAcceptancePut(id, &AcceptanceRecord{BtcTxid: btcTxid, Height: s.height()})
}

// IsOfferAccepted reports whether an acceptance record exists.
func (s *Store) IsOfferAccepted(id uint64) (bool, error) {
	if s == nil || s.state == nil {
		return false, errNilState
	}
	_, ok, err := s.state.OfferAcceptanceGet(id)
	return ok, err
}

// GetAcceptance returns the acceptance record, if any.
func (s *Store) GetAcceptance(id uint64) (*AcceptanceRecord, bool, error) {
	if s == nil || s.state == nil {
		return nil, false, errNilState
	}
	return s.state.OfferAcceptanceGet(id)
}

// SetOfferCancelled records a voluntary cancel with cancel-height = current
// height + graceBlocks. Accepted or already-cancelled offers reject.
func (s *Store) SetOfferCancelled(id uint64, graceBlocks uint64) error {
	if s == nil || s.state == nil {
		return errNilState
	}
	if err := s.requireOffer(id); err != nil {
		return err
	}
	accepted, err := s.IsOfferAccepted(id)
	if err != nil {
		return err
	}
	if accepted {
		return fmt.Errorf("%w: offer %d already accepted", ErrInvalidOffer, id)
	}
	cancelled, err := s.IsOfferCancelled(id)
	if err != nil {
		return err
	}
	if cancelled {
		return fmt.Errorf("%w: offer %d already cancelled", ErrInvalidOffer, id)
	}
	return s.state.OfferCancellationPut(id, &CancellationRecord{CancelHeight: s.height() + graceBlocks})
}

// IsOfferCancelled reports whether a cancellation record exists.
func (s *Store) IsOfferCancelled(id uint64) (bool, error) {
	if s == nil || s.state == nil {
		return false, errNilState
	}
	_, ok, err := s.state.OfferCancellationGet(id)
	return ok, err
}

// GetCancellation returns the cancellation record, if any.
func (s *Store) GetCancellation(id uint64) (*CancellationRecord, bool, error) {
	if s == nil || s.state == nil {
		return nil, false, errNilState
	}
	return s.state.OfferCancellationGet(id)
}

// IsWithinGracePeriod reports whether the offer is cancelled and the current
// height has not yet passed the recorded cancel height.
func (s *Store) IsWithinGracePeriod(id uint64) (bool, error) {
	rec, ok, err := s.GetCancellation(id)
	if err != nil || !ok {
		return false, err
	}
	return s.height() <= rec.CancelHeight, nil
}

// IsGracePeriodOver reports whether the offer is cancelled and the current
// height is strictly past the recorded cancel height.
func (s *Store) IsGracePeriodOver(id uint64) (bool, error) {
	rec, ok, err := s.GetCancellation(id)
	if err != nil || !ok {
		return false, err
	}
	return s.height() > rec.CancelHeight, nil
}

// SetOfferRefunded marks the escrowed coin as returned. Only a cancelled,
// unaccepted offer whose grace period has elapsed may be refunded, and only
// once.
func (s *Store) SetOfferRefunded(id uint64) error {
	if s == nil || s.state == nil {
		return errNilState
	}
	if err := s.requireOffer(id); err != nil {
		return err
	}
	accepted, err := s.IsOfferAccepted(id)
	if err != nil {
		return err
	}
	if accepted {
		return fmt.Errorf("%w: offer %d accepted", ErrInvalidOffer, id)
	}
	over, err := s.IsGracePeriodOver(id)
	if err != nil {
		return err
	}
	if !over {
		return fmt.Errorf("%w: offer %d not past its grace period", ErrInvalidOffer, id)
	}
	refunded, err := s.IsOfferRefunded(id)
	if err != nil {
		return err
	}
	if refunded {
		return fmt.Errorf("%w: offer %d already refunded", ErrInvalidOffer, id)
	}
	return s.state.OfferRefundPut(id, &RefundRecord{Refunded: true})
}

// IsOfferRefunded reports whether a refund record exists.
func (s *Store) IsOfferRefunded(id uint64) (bool, error) {
	if s == nil || s.state == nil {
		return false, errNilState
	}
	rec, ok, err := s.state.OfferRefundGet(id)
	if err != nil || !ok {
		return false, err
	}
	return rec.Refunded, nil
}

// GetRefund returns the refund record, if any.
func (s *Store) GetRefund(id uint64) (*RefundRecord, bool, error) {
	if s == nil || s.state == nil {
		return nil, false, errNilState
	}
	return s.state.OfferRefundGet(id)
}

func (s *Store) requireOffer(id uint64) error {
	_, ok, err := s.state.OfferGet(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: offer %d not found", ErrInvalidOffer, id)
	}
	return nil
}
