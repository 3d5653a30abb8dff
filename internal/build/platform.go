package build

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrUnsupportedPlatform is returned for any target OS outside the closed set.
var ErrUnsupportedPlatform = errors.New("build: unsupported target platform")

// Platform is a target operating system the native library can be linked
// for. The zero value is invalid.
type Platform int

const (
	MacOS Platform = iota + 1
	Windows
	Linux
)

// ParsePlatform maps a target OS string to a Platform. "darwin" is Go's name
// for macOS and is accepted alongside "macos".
func ParsePlatform(s string) (Platform, error) {
	switch s {
	case "macos", "darwin":
		return MacOS, nil
	case "windows":
		return Windows, nil
	case "linux":
		return Linux, nil
	default:
		return 0, fmt.Errorf("%w: %q (supported: macos, windows, linux)", ErrUnsupportedPlatform, s)
	}
}

// HostPlatform returns the platform of runtime.GOOS.
func HostPlatform() (Platform, error) {
	return ParsePlatform(runtime.GOOS)
}

// String returns the platform name.
func (p Platform) String() string {
	switch p {
	case MacOS:
		return "macos"
	case Windows:
		return "windows"
	case Linux:
		return "linux"
	default:
		return fmt.Sprintf("Platform(%d)", int(p))
	}
}

// GOOS returns the Go build constraint name for the platform.
func (p Platform) GOOS() string {
	if p == MacOS {
		return "darwin"
	}
	return p.String()
}

// Frameworks returns the OS frameworks the native library must be linked
// against.
func (p Platform) Frameworks() ([]string, error) {
	switch p {
	case MacOS:
		return []string{"Foundation", "CoreBluetooth"}, nil
	case Windows, Linux:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, p)
	}
}

// RuntimeLibs returns the system libraries a static SimpleBLE archive and the
// C++ shim need at link time.
func (p Platform) RuntimeLibs() ([]string, error) {
	switch p {
	case MacOS:
		return []string{"c++"}, nil
	case Windows:
		return nil, nil
	case Linux:
		return []string{"stdc++", "dbus-1", "pthread"}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, p)
	}
}

// StaticLibFile returns the on-disk file name of a static library.
func (p Platform) StaticLibFile(name string) string {
	if p == Windows {
		return name + ".lib"
	}
	return "lib" + name + ".a"
}
