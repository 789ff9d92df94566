package common

import "fmt"

// Error is a protocol error with a stable numeric code. The codes form the
// external error surface consumed by clients and indexers, so they never
// change once assigned.
type Error struct {
	Code    uint32
	Message string
}

// NewError constructs a coded protocol error. The returned value is intended
// to be stored in a package-level sentinel and matched with errors.Is.
func NewError(code uint32, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// Is matches any coded error carrying the same code, so wrapped variants of a
// sentinel still compare equal.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

// ErrCode extracts the stable numeric code from err, unwrapping as needed.
// The second result is false when err carries no protocol code.
func ErrCode(err error) (uint32, bool) {
	for err != nil {
		if coded, ok := err.(*Error); ok {
			return coded.Code, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return 0, false
		}
		err = unwrapper.Unwrap()
	}
	return 0, false
}

// PauseView reports whether a named module is paused. The governance layer
// implements it; engines consult it before every mutation.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard returns pausedErr when the module is administratively paused.
func Guard(p PauseView, module string, pausedErr error) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return pausedErr
	}
	return nil
}
