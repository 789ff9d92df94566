package governance

import (
	"bytes"
	"errors"
	"testing"
)

type mockState struct {
	cell *State
}

func (m *mockState) GovernanceGet() (*State, error) {
	if m.cell == nil {
		return nil, nil
	}
	return m.cell.Clone(), nil
}

func (m *mockState) GovernancePut(st *State) error {
	m.cell = st.Clone()
	return nil
}

func testAddr(fill byte) [20]byte {
	var addr [20]byte
	copy(addr[:], bytes.Repeat([]byte{fill}, 20))
	return addr
}

func newTestEngine(t *testing.T) (*Engine, [20]byte) {
	t.Helper()
	owner := testAddr(0x01)
	engine := NewEngine(&mockState{})
	if err := engine.Init(owner); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return engine, owner
}

func TestInitSetsOwnerOnce(t *testing.T) {
	engine, owner := newTestEngine(t)

	got, err := engine.Owner()
	if err != nil {
		t.Fatalf("Owner: %v", err)
	}
	if got != owner {
		t.Fatalf("unexpected owner: %x", got)
	}

	// Replaying genesis must not reset administration.
	if err := engine.Init(testAddr(0x02)); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	got, err = engine.Owner()
	if err != nil {
		t.Fatalf("Owner: %v", err)
	}
	if got != owner {
		t.Fatalf("Init overwrote existing owner: %x", got)
	}
}

func TestPauseLifecycle(t *testing.T) {
	engine, owner := newTestEngine(t)

	paused, err := engine.IsProtocolPaused()
	if err != nil {
		t.Fatalf("IsProtocolPaused: %v", err)
	}
	if paused {
		t.Fatal("protocol should start unpaused")
	}

	if err := engine.SetPaused(owner, true); err != nil {
		t.Fatalf("SetPaused: %v", err)
	}
	if paused, _ = engine.IsProtocolPaused(); !paused {
		t.Fatal("expected paused after SetPaused(true)")
	}
	if !engine.IsPaused("ordswap") {
		t.Fatal("PauseView should report paused")
	}

	if err := engine.SetPaused(owner, false); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	if paused, _ = engine.IsProtocolPaused(); paused {
		t.Fatal("expected unpaused after SetPaused(false)")
	}
}

func TestPauseRejectsNonOwner(t *testing.T) {
	engine, _ := newTestEngine(t)
	intruder := testAddr(0x7F)

	if err := engine.SetPaused(intruder, true); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if paused, _ := engine.IsProtocolPaused(); paused {
		t.Fatal("failed authorization must not mutate state")
	}

	if err := engine.EmergencyPause(intruder); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestEmergencyPause(t *testing.T) {
	engine, owner := newTestEngine(t)
	if err := engine.EmergencyPause(owner); err != nil {
		t.Fatalf("EmergencyPause: %v", err)
	}
	if paused, _ := engine.IsProtocolPaused(); !paused {
		t.Fatal("expected paused after emergency pause")
	}
}

func TestTransferOwnership(t *testing.T) {
	engine, owner := newTestEngine(t)
	next := testAddr(0x02)

	if err := engine.TransferOwnership(next, next); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	if err := engine.TransferOwnership(owner, next); err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}
	got, err := engine.Owner()
	if err != nil {
		t.Fatalf("Owner: %v", err)
	}
	if got != next {
		t.Fatalf("ownership not transferred, owner %x", got)
	}

	// The previous owner lost its authority atomically.
	if err := engine.SetPaused(owner, true); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for stale owner, got %v", err)
	}
}

func TestProtocolFeeBounds(t *testing.T) {
	engine, owner := newTestEngine(t)

	fee, err := engine.ProtocolFee()
	if err != nil {
		t.Fatalf("ProtocolFee: %v", err)
	}
	if fee != 0 {
		t.Fatalf("fee should start at 0, got %d", fee)
	}

	if err := engine.SetProtocolFee(owner, MaxFeeBps); err != nil {
		t.Fatalf("SetProtocolFee(%d): %v", MaxFeeBps, err)
	}
	if err := engine.SetProtocolFee(owner, MaxFeeBps+1); !errors.Is(err, ErrFeeTooHigh) {
		t.Fatalf("expected ErrFeeTooHigh, got %v", err)
	}
	if fee, _ = engine.ProtocolFee(); fee != MaxFeeBps {
		t.Fatalf("rejected update must not change fee, got %d", fee)
	}

	if err := engine.SetProtocolFee(testAddr(0x7F), 10); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestCalculateFee(t *testing.T) {
	engine, owner := newTestEngine(t)

	// No fee configured.
	fee, err := engine.CalculateFee(1_000_000)
	if err != nil {
		t.Fatalf("CalculateFee: %v", err)
	}
	if fee != 0 {
		t.Fatalf("zero bps should yield zero fee, got %d", fee)
	}

	if err := engine.SetProtocolFee(owner, 100); err != nil {
		t.Fatalf("SetProtocolFee: %v", err)
	}
	cases := []struct {
		amount uint64
		want   uint64
	}{
		{1_000_000, 10_000},
		{99, 0}, // truncates below one whole unit
		{15_001, 150},
		{1, 0},
		{100_000_000_000_000, 1_000_000_000_000},
	}
	for _, tc := range cases {
		got, err := engine.CalculateFee(tc.amount)
		if err != nil {
			t.Fatalf("CalculateFee(%d): %v", tc.amount, err)
		}
		if got != tc.want {
			t.Fatalf("CalculateFee(%d) = %d, want %d", tc.amount, got, tc.want)
		}
	}

	if err := engine.SetProtocolFee(owner, MaxFeeBps); err != nil {
		t.Fatalf("SetProtocolFee: %v", err)
	}
	got, err := engine.CalculateFee(1 << 62)
	if err != nil {
		t.Fatalf("CalculateFee: %v", err)
	}
	// floor((2^62 * 500) / 10_000), computed without overflowing 64 bits.
	const want = uint64(230_584_300_921_369_395)
	if got != want {
		t.Fatalf("large amount fee = %d, want %d", got, want)
	}
}
