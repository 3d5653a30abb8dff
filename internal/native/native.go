// Package native defines the contract between the public binding and the
// layer that actually talks to the Bluetooth stack.
//
// Implementations live in internal/ffi (SimpleBLE through cgo),
// internal/bluez (BlueZ over D-Bus) and internal/nativetest (in-memory fake).
// None of them expose C or D-Bus types through this interface.
package native

import "errors"

// Errors reported by native layers. Implementations wrap them with detail.
var (
	ErrCallFailed    = errors.New("native call failed")
	ErrUnavailable   = errors.New("value not available")
	ErrInvalidHandle = errors.New("invalid adapter handle")
	ErrNotLinked     = errors.New("native library not linked")
)

// Layer is a stateless pass-through to the host Bluetooth stack.
type Layer interface {
	// BluetoothEnabled reports whether Bluetooth is enabled on the host.
	BluetoothEnabled() (bool, error)

	// Adapters enumerates the adapters currently visible, in native order.
	// Every call returns fresh handles owned by the caller.
	Adapters() ([]Handle, error)
}

// Handle is an owned reference to one native adapter object.
// A Handle is not safe for concurrent use.
type Handle interface {
	Identifier() (string, error)
	Address() (string, error)

	// Release frees the native object. It must be called exactly once.
	Release()
}
