package rpc

import (
	"encoding/json"
	"net/http"

	"github.com/dmystical-coder/ordyswap/core/types"
)

const maxEventPageSize = 100

type eventsListParams struct {
	Offset *int `json:"offset,omitempty"`
	Limit  *int `json:"limit,omitempty"`
}

type eventEntry struct {
	Sequence   int               `json:"sequence"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

type eventsListResult struct {
	Events     []eventEntry `json:"events"`
	NextOffset *int         `json:"nextOffset,omitempty"`
}

type attributed interface {
	Event() *types.Event
}

func (s *Server) handleEventsList(w http.ResponseWriter, req *RPCRequest) {
	params := eventsListParams{}
	switch len(req.Params) {
	case 0:
	case 1:
		if err := json.Unmarshal(req.Params[0], &params); err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid pagination parameters", err.Error())
			return
		}
	default:
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "at most one parameter object expected", nil)
		return
	}

	offset := 0
	if params.Offset != nil {
		if *params.Offset < 0 {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "offset must not be negative", nil)
			return
		}
		offset = *params.Offset
	}
	limit := maxEventPageSize
	if params.Limit != nil {
		if *params.Limit <= 0 || *params.Limit > maxEventPageSize {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "limit out of range", nil)
			return
		}
		limit = *params.Limit
	}

	if s.recorder == nil {
		writeResult(w, req.ID, eventsListResult{Events: []eventEntry{}})
		return
	}

	all := s.recorder.Events()
	entries := make([]eventEntry, 0, limit)
	for i := offset; i < len(all) && len(entries) < limit; i++ {
		entry := eventEntry{Sequence: i, Type: all[i].EventType()}
		if evt, ok := all[i].(attributed); ok {
			if payload := evt.Event(); payload != nil {
				entry.Attributes = payload.Attributes
			}
		}
		entries = append(entries, entry)
	}

	result := eventsListResult{Events: entries}
	if next := offset + len(entries); next < len(all) {
		result.NextOffset = &next
	}
	writeResult(w, req.ID, result)
}
