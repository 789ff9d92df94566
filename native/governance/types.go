package governance

// MaxFeeBps bounds the protocol fee at 5%.
const MaxFeeBps uint16 = 500

// FeeDenominator converts basis points to a fraction.
const FeeDenominator uint64 = 10_000

// State is the single-cell governance record persisted by the state manager.
// Owner is the deploying principal until transferred.
type State struct {
	Owner  [20]byte
	Paused bool
	FeeBps uint16
}

// Clone returns a copy safe to hand to callers.
func (s *State) Clone() *State {
	if s == nil {
		return &State{}
	}
	clone := *s
	return &clone
}
