package types

// Event is the wire representation of a structured state change handed to
// off-chain indexers.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
