//go:build cgo && simpleble

// Package ffi provides CGo bindings to the SimpleBLE C++ library.
//
// # Building
//
// The native library is compiled from source and the link directives are
// generated before this package can build:
//
//	go run ./cmd/simplegoble-build
//	go build -tags simpleble ./...
//
// The build tool writes zz_link_generated.go next to this file with the
// include paths, the static library and the platform frameworks. Without the
// simpleble tag the stub in ffi_stub.go is compiled instead.
//
// All import "C" lives in this package. No C types leave it.
package ffi

/*
#cgo CPPFLAGS: -I${SRCDIR}
#cgo CXXFLAGS: -std=c++17

#include "shim.h"
#include <stdlib.h>
*/
import "C"
import (
	"fmt"
	"unsafe"

	"github.com/simpleble/simplegoble/internal/native"
)

// Linked reports whether the SimpleBLE bridge is compiled in.
const Linked = true

// statusError converts a shim status code to a Go error.
func statusError(op string, status C.sgb_status_t) error {
	switch status {
	case C.SGB_OK:
		return nil
	case C.SGB_UNAVAILABLE:
		return fmt.Errorf("%s: %w", op, native.ErrUnavailable)
	case C.SGB_INVALID_HANDLE:
		return fmt.Errorf("%s: %w", op, native.ErrInvalidHandle)
	default:
		return fmt.Errorf("%s: %w", op, native.ErrCallFailed)
	}
}

// Layer is the native.Layer backed by SimpleBLE.
type Layer struct{}

// New returns the SimpleBLE layer.
func New() native.Layer { return Layer{} }

// BluetoothEnabled calls SimpleBLE::Adapter::bluetooth_enabled.
func (Layer) BluetoothEnabled() (bool, error) {
	var enabled C.bool
	if err := statusError("sgb_bluetooth_enabled", C.sgb_bluetooth_enabled(&enabled)); err != nil {
		return false, err
	}
	return bool(enabled), nil
}

// Adapters calls SimpleBLE::Safe::Adapter::get_adapters.
func (Layer) Adapters() ([]native.Handle, error) {
	var (
		list  *C.sgb_adapter_t
		count C.size_t
	)
	if err := statusError("sgb_get_adapters", C.sgb_get_adapters(&list, &count)); err != nil {
		return nil, err
	}
	if count == 0 || list == nil {
		return []native.Handle{}, nil
	}
	defer C.sgb_adapter_list_free(list)

	raw := unsafe.Slice(list, int(count))
	handles := make([]native.Handle, 0, len(raw))
	for _, ptr := range raw {
		handles = append(handles, &Adapter{ptr: ptr})
	}
	return handles, nil
}

// Adapter wraps the C adapter handle.
type Adapter struct {
	ptr C.sgb_adapter_t
}

// Identifier returns the adapter identifier.
func (a *Adapter) Identifier() (string, error) {
	return a.str("sgb_adapter_identifier", func(out **C.char) C.sgb_status_t {
		return C.sgb_adapter_identifier(a.ptr, out)
	})
}

// Address returns the adapter MAC address.
func (a *Adapter) Address() (string, error) {
	return a.str("sgb_adapter_address", func(out **C.char) C.sgb_status_t {
		return C.sgb_adapter_address(a.ptr, out)
	})
}

func (a *Adapter) str(op string, call func(**C.char) C.sgb_status_t) (string, error) {
	if a == nil || a.ptr == nil {
		return "", fmt.Errorf("%s: %w", op, native.ErrInvalidHandle)
	}
	var out *C.char
	if err := statusError(op, call(&out)); err != nil {
		return "", err
	}
	defer C.sgb_string_free(out)
	return C.GoString(out), nil
}

// Release frees the native adapter object.
func (a *Adapter) Release() {
	if a != nil && a.ptr != nil {
		C.sgb_adapter_release(a.ptr)
		a.ptr = nil
	}
}
