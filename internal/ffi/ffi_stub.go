//go:build !cgo || !simpleble

package ffi

import (
	"fmt"

	"github.com/simpleble/simplegoble/internal/native"
)

// Fallback when the SimpleBLE bridge is not compiled in.
// Every call fails so callers never mistake it for an empty host.

// Linked reports whether the SimpleBLE bridge is compiled in.
const Linked = false

// Layer is the unlinked native.Layer.
type Layer struct{}

// New returns the unlinked layer.
func New() native.Layer { return Layer{} }

// BluetoothEnabled always fails with native.ErrNotLinked.
func (Layer) BluetoothEnabled() (bool, error) {
	return false, fmt.Errorf("sgb_bluetooth_enabled: %w (build with -tags simpleble)", native.ErrNotLinked)
}

// Adapters always fails with native.ErrNotLinked.
func (Layer) Adapters() ([]native.Handle, error) {
	return nil, fmt.Errorf("sgb_get_adapters: %w (build with -tags simpleble)", native.ErrNotLinked)
}
