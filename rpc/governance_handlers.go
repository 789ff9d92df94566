package rpc

import (
	"net/http"

	"github.com/dmystical-coder/ordyswap/crypto"
)

type govInfoResult struct {
	Owner  string `json:"owner"`
	Paused bool   `json:"paused"`
	FeeBps uint16 `json:"feeBps"`
}

func (s *Server) handleGovernanceInfo(w http.ResponseWriter, req *RPCRequest) {
	if len(req.Params) != 0 {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "no parameters expected", nil)
		return
	}
	owner, err := s.gov.Owner()
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	paused, err := s.gov.IsProtocolPaused()
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	feeBps, err := s.gov.ProtocolFee()
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, govInfoResult{
		Owner:  crypto.MustNewAddress(crypto.OrdPrefix, owner[:]).String(),
		Paused: paused,
		FeeBps: feeBps,
	})
}
