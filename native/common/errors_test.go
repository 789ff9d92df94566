package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrCodeUnwraps(t *testing.T) {
	sentinel := NewError(102, "ordswap: invalid offer")
	wrapped := fmt.Errorf("cancel offer 3: %w", sentinel)

	code, ok := ErrCode(wrapped)
	if !ok || code != 102 {
		t.Fatalf("expected code 102, got %d (ok=%v)", code, ok)
	}
	if !errors.Is(wrapped, sentinel) {
		t.Fatal("wrapped error should match its sentinel")
	}

	if _, ok := ErrCode(errors.New("plain")); ok {
		t.Fatal("plain errors carry no protocol code")
	}
}

func TestErrorIsMatchesByCode(t *testing.T) {
	a := NewError(120, "offer-storage: invalid offer")
	b := NewError(120, "different message")
	if !errors.Is(a, b) {
		t.Fatal("coded errors with equal codes should match")
	}
	c := NewError(141, "not owner")
	if errors.Is(a, c) {
		t.Fatal("coded errors with different codes must not match")
	}
}

type pausedView bool

func (p pausedView) IsPaused(string) bool { return bool(p) }

func TestGuard(t *testing.T) {
	errPaused := NewError(105, "paused")
	if err := Guard(pausedView(false), "ordswap", errPaused); err != nil {
		t.Fatalf("unpaused module should pass: %v", err)
	}
	if err := Guard(pausedView(true), "ordswap", errPaused); !errors.Is(err, errPaused) {
		t.Fatalf("expected paused error, got %v", err)
	}
	if err := Guard(nil, "ordswap", errPaused); err != nil {
		t.Fatalf("nil view should pass: %v", err)
	}
}
