package build

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrArtifactMissing is returned when the install tree lacks headers or the
// selected static library.
var ErrArtifactMissing = errors.New("build: artifact missing")

// Artifact describes one installed native library. It is produced by the
// build step and consumed once by the bridge generator.
type Artifact struct {
	Dest        string
	IncludeDir  string
	LibDir      string
	Library     string
	LibraryFile string
	Platform    Platform
	Mode        Mode
}

// Discover locates the headers and the static library for base under dest.
func Discover(dest string, p Platform, m Mode, base string) (*Artifact, error) {
	a := &Artifact{
		Dest:       dest,
		IncludeDir: filepath.Join(dest, "include"),
		LibDir:     filepath.Join(dest, "lib"),
		Library:    m.LibraryName(base),
		Platform:   p,
		Mode:       m,
	}
	a.LibraryFile = filepath.Join(a.LibDir, p.StaticLibFile(a.Library))

	if fi, err := os.Stat(a.IncludeDir); err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%w: include dir %s", ErrArtifactMissing, a.IncludeDir)
	}
	if fi, err := os.Stat(a.LibraryFile); err != nil || fi.IsDir() {
		return nil, fmt.Errorf("%w: static library %s", ErrArtifactMissing, a.LibraryFile)
	}
	return a, nil
}

// Directives are the link requirements an artifact imposes on the binary.
type Directives struct {
	IncludeDirs []string
	LinkSearch  string
	StaticLib   string
	Frameworks  []string
	System      []string
}

// Directives returns the link requirements of the artifact.
func (a *Artifact) Directives() (*Directives, error) {
	frameworks, err := a.Platform.Frameworks()
	if err != nil {
		return nil, err
	}
	system, err := a.Platform.RuntimeLibs()
	if err != nil {
		return nil, err
	}
	return &Directives{
		IncludeDirs: []string{a.IncludeDir},
		LinkSearch:  a.LibDir,
		StaticLib:   a.Library,
		Frameworks:  frameworks,
		System:      system,
	}, nil
}

// Lines renders the directives one per line for logs.
func (d *Directives) Lines() []string {
	lines := make([]string, 0, 2+len(d.IncludeDirs)+len(d.Frameworks)+len(d.System))
	for _, inc := range d.IncludeDirs {
		lines = append(lines, "include="+inc)
	}
	lines = append(lines,
		"link-search=native="+d.LinkSearch,
		"link-lib=static="+d.StaticLib,
	)
	for _, fw := range d.Frameworks {
		lines = append(lines, "link-lib=framework="+fw)
	}
	for _, lib := range d.System {
		lines = append(lines, "link-lib=dylib="+lib)
	}
	return lines
}
