//go:build linux

package simplegoble

import (
	"github.com/simpleble/simplegoble/internal/bluez"
	"github.com/simpleble/simplegoble/internal/ffi"
)

// defaultLayer prefers the linked SimpleBLE bridge and falls back to BlueZ
// over the system bus.
func defaultLayer() NativeLayer {
	if ffi.Linked {
		return ffi.New()
	}
	return bluez.New(nil)
}
