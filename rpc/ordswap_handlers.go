package rpc

import (
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/dmystical-coder/ordyswap/crypto"
	"github.com/dmystical-coder/ordyswap/native/offers"
)

type offerIDParams struct {
	ID uint64 `json:"id"`
}

type offerResult struct {
	ID        uint64 `json:"id"`
	Txid      string `json:"txid"`
	Index     uint32 `json:"index"`
	Amount    uint64 `json:"amount"`
	Output    string `json:"output"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	CreatedAt uint64 `json:"createdAt"`
	ExpiresAt uint64 `json:"expiresAt,omitempty"`
}

type lastIDResult struct {
	LastID uint64 `json:"lastId"`
}

type acceptedResult struct {
	Accepted bool   `json:"accepted"`
	BtcTxid  string `json:"btcTxid,omitempty"`
}

type cancelledResult struct {
	Cancelled    bool   `json:"cancelled"`
	CancelHeight uint64 `json:"cancelHeight,omitempty"`
}

type refundedResult struct {
	Refunded bool `json:"refunded"`
}

func decodeIDParams(req *RPCRequest) (offerIDParams, bool) {
	var params offerIDParams
	if len(req.Params) != 1 {
		return params, false
	}
	if err := json.Unmarshal(req.Params[0], &params); err != nil {
		return params, false
	}
	return params, true
}

func offerToResult(offer *offers.Offer) offerResult {
	return offerResult{
		ID:        offer.ID,
		Txid:      hex.EncodeToString(offer.Txid[:]),
		Index:     offer.Index,
		Amount:    offer.Amount,
		Output:    hex.EncodeToString(offer.Output),
		Sender:    crypto.MustNewAddress(crypto.OrdPrefix, offer.Sender[:]).String(),
		Recipient: crypto.MustNewAddress(crypto.OrdPrefix, offer.Recipient[:]).String(),
		CreatedAt: offer.CreatedAt,
		ExpiresAt: offer.ExpiresAt,
	}
}

func (s *Server) handleGetOffer(w http.ResponseWriter, req *RPCRequest) {
	params, ok := decodeIDParams(req)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "exactly one parameter object with an id expected", nil)
		return
	}
	offer, found, err := s.engine.GetOffer(params.ID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	if !found {
		writeResult(w, req.ID, nil)
		return
	}
	writeResult(w, req.ID, offerToResult(offer))
}

func (s *Server) handleGetLastID(w http.ResponseWriter, req *RPCRequest) {
	if len(req.Params) != 0 {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "no parameters expected", nil)
		return
	}
	id, err := s.engine.LastID()
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, lastIDResult{LastID: id})
}

func (s *Server) handleGetOfferAccepted(w http.ResponseWriter, req *RPCRequest) {
	params, ok := decodeIDParams(req)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "exactly one parameter object with an id expected", nil)
		return
	}
	txid, found, err := s.engine.GetOfferAccepted(params.ID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	result := acceptedResult{Accepted: found}
	if found {
		result.BtcTxid = hex.EncodeToString(txid[:])
	}
	writeResult(w, req.ID, result)
}

func (s *Server) handleGetOfferCancelled(w http.ResponseWriter, req *RPCRequest) {
	params, ok := decodeIDParams(req)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "exactly one parameter object with an id expected", nil)
		return
	}
	height, found, err := s.engine.GetOfferCancelled(params.ID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	result := cancelledResult{Cancelled: found}
	if found {
		result.CancelHeight = height
	}
	writeResult(w, req.ID, result)
}

func (s *Server) handleGetOfferRefunded(w http.ResponseWriter, req *RPCRequest) {
	params, ok := decodeIDParams(req)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "exactly one parameter object with an id expected", nil)
		return
	}
	refunded, err := s.engine.GetOfferRefunded(params.ID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, refundedResult{Refunded: refunded})
}
