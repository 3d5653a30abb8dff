package simplegoble

import (
	"errors"
	"fmt"
	"strings"

	"github.com/simpleble/simplegoble/internal/native"
)

// Errors that can be returned by the binding.
var (
	// ErrNativeCall is returned when a call into the native library failed.
	ErrNativeCall = errors.New("simplegoble: native call failed")

	// ErrUnavailable is returned when the native library has no value for a
	// textual accessor.
	ErrUnavailable = errors.New("simplegoble: value not available")

	// ErrAdapterClosed is returned when an accessor is used after Close.
	ErrAdapterClosed = errors.New("simplegoble: adapter closed")
)

// Kind classifies a failure.
type Kind int

const (
	// KindNativeCall: the native call itself failed (stack absent, permission
	// denied, adapter removed, library not linked).
	KindNativeCall Kind = iota
	// KindUnavailable: no value could be produced, either because the native
	// library had none or because the adapter was already closed.
	KindUnavailable
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNativeCall:
		return "NativeCall"
	case KindUnavailable:
		return "Unavailable"
	default:
		return "Unknown"
	}
}

// Error reports a failed binding operation. Op names the call that failed,
// e.g. "bluetooth enabled" or "adapter address".
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("simplegoble: %s: %s", e.Op, strings.TrimPrefix(e.sentinel().Error(), "simplegoble: "))
	}
	return fmt.Sprintf("simplegoble: %s: %s", e.Op, strings.TrimPrefix(e.Err.Error(), "simplegoble: "))
}

// Unwrap returns the native cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindUnavailable:
		return ErrUnavailable
	default:
		return ErrNativeCall
	}
}

// closedError reports an accessor call on a closed adapter. It matches both
// ErrUnavailable and ErrAdapterClosed.
func closedError(op string) error {
	return &Error{Op: op, Kind: KindUnavailable, Err: ErrAdapterClosed}
}

// wrapError translates a native-layer error into an *Error for op.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := KindNativeCall
	if errors.Is(err, native.ErrUnavailable) {
		kind = KindUnavailable
	}
	return &Error{Op: op, Kind: kind, Err: err}
}
