//go:build !linux

package simplegoble

import (
	"github.com/simpleble/simplegoble/internal/ffi"
)

// defaultLayer returns the SimpleBLE bridge, or its failing stub when the
// binary was built without the simpleble tag.
func defaultLayer() NativeLayer {
	return ffi.New()
}
