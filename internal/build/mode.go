package build

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Mode selects the debug or release build of the native library.
type Mode int

const (
	Release Mode = iota
	Debug
)

// ModeFromDebug returns Debug when debug is true.
func ModeFromDebug(debug bool) Mode {
	if debug {
		return Debug
	}
	return Release
}

// ParseMode parses "debug" or "release".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "debug":
		return Debug, nil
	case "release":
		return Release, nil
	default:
		return Release, fmt.Errorf("build: unknown mode %q", s)
	}
}

// String returns the string representation of the mode.
func (m Mode) String() string {
	if m == Debug {
		return "debug"
	}
	return "release"
}

// CMakeBuildType returns the CMAKE_BUILD_TYPE for the mode.
func (m Mode) CMakeBuildType() string {
	if m == Debug {
		return "Debug"
	}
	return "Release"
}

// LibraryName returns the artifact name the mode produces for base.
func (m Mode) LibraryName(base string) string {
	return LibraryName(base, m == Debug)
}

// MarshalYAML stores the mode as its name.
func (m Mode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// UnmarshalYAML reads a mode name.
func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// LibraryName returns the static library base name: base+"-debug" for debug
// builds, base otherwise. SimpleBLE's CMake sets DEBUG_POSTFIX to "-debug",
// so this must stay paired with the CMAKE_BUILD_TYPE used to compile it.
func LibraryName(base string, debug bool) string {
	if debug {
		return base + "-debug"
	}
	return base
}
