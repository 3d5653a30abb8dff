package build

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// StampFile records how an install tree was built.
const StampFile = "simplegoble-build.yaml"

// ErrModeMismatch is returned when the install tree was built for a different
// mode or platform than requested, or by something else entirely.
var ErrModeMismatch = errors.New("build: existing output does not match requested build")

// Stamp is the content of StampFile.
type Stamp struct {
	Mode     Mode   `yaml:"mode"`
	Library  string `yaml:"library"`
	Platform string `yaml:"platform"`
	Source   string `yaml:"source"`
}

// ReadStamp reads the stamp in dest. A missing stamp returns an error
// satisfying errors.Is(err, os.ErrNotExist).
func ReadStamp(dest string) (*Stamp, error) {
	data, err := os.ReadFile(filepath.Join(dest, StampFile))
	if err != nil {
		return nil, err
	}
	var s Stamp
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", StampFile, err)
	}
	return &s, nil
}

// WriteStamp writes s into dest.
func WriteStamp(dest string, s Stamp) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dest, StampFile), data, 0o644)
}

// CheckStamp verifies that dest is either fresh or was built with the same
// mode and platform, for the same library base name, from the same source
// tree. An empty source skips the source comparison.
func CheckStamp(dest string, m Mode, p Platform, base, source string) error {
	s, err := ReadStamp(dest)
	if errors.Is(err, os.ErrNotExist) {
		for _, sub := range []string{"include", "lib"} {
			if _, statErr := os.Stat(filepath.Join(dest, sub)); statErr == nil {
				return fmt.Errorf("%w: %s has an install tree without %s", ErrModeMismatch, dest, StampFile)
			}
		}
		return nil
	}
	if err != nil {
		return err
	}
	if s.Mode != m {
		return fmt.Errorf("%w: %s was built in %s mode, requested %s", ErrModeMismatch, dest, s.Mode, m)
	}
	if s.Platform != p.String() {
		return fmt.Errorf("%w: %s was built for %s, requested %s", ErrModeMismatch, dest, s.Platform, p)
	}
	if want := m.LibraryName(base); s.Library != want {
		return fmt.Errorf("%w: %s holds library %s, requested %s", ErrModeMismatch, dest, s.Library, want)
	}
	if source != "" && s.Source != source {
		return fmt.Errorf("%w: %s was built from %s, requested %s", ErrModeMismatch, dest, s.Source, source)
	}
	return nil
}
