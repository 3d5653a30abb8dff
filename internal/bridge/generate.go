package bridge

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/sirupsen/logrus"

	"github.com/simpleble/simplegoble/internal/build"
)

// LinkFile is the name of the generated file inside internal/ffi.
const LinkFile = "zz_link_generated.go"

// Generator renders the cgo link file for one installed artifact.
type Generator struct {
	// Package is the package clause of the generated file.
	Package string
	// BuildTag is the //go:build expression; it must match the bridge sources.
	BuildTag string
	// Standard is the C++ language standard passed to the compiler.
	Standard string
	Log      logrus.FieldLogger
}

// DefaultGenerator returns the generator for internal/ffi.
func DefaultGenerator() *Generator {
	return &Generator{
		Package:  "ffi",
		BuildTag: "cgo && simpleble",
		Standard: "c++17",
	}
}

var linkTemplate = template.Must(template.New("link").Parse(`// Code generated by simplegoble-build. DO NOT EDIT.
// Library {{.Library}} ({{.Mode}}, {{.Platform}}).

//go:build {{.BuildTag}}

package {{.Package}}

/*
#cgo CPPFLAGS:{{range .Includes}} {{.}}{{end}}
#cgo CXXFLAGS: -std={{.Standard}}
#cgo LDFLAGS:{{range .Libs}} {{.}}{{end}}
{{- if .Frameworks}}
#cgo LDFLAGS:{{range .Frameworks}} -framework {{.}}{{end}}
{{- end}}
*/
import "C"
`))

type linkData struct {
	Library    string
	Mode       build.Mode
	Platform   build.Platform
	BuildTag   string
	Package    string
	Standard   string
	Includes   []string
	Libs       []string
	Frameworks []string
}

// Render returns the gofmt-formatted link file for artifact. shimDir, when
// set, is appended to the include path.
func (g *Generator) Render(artifact *build.Artifact, d *build.Directives, shimDir string) ([]byte, error) {
	if artifact == nil || d == nil {
		return nil, errors.New("bridge: render needs an artifact and its directives")
	}
	if g.Package == "" || g.BuildTag == "" || g.Standard == "" {
		return nil, errors.New("bridge: generator needs a package, build tag and standard")
	}

	data := linkData{
		Library:    artifact.Library,
		Mode:       artifact.Mode,
		Platform:   artifact.Platform,
		BuildTag:   g.BuildTag,
		Package:    g.Package,
		Standard:   g.Standard,
		Frameworks: d.Frameworks,
	}
	includes := d.IncludeDirs
	if shimDir != "" {
		includes = append(append([]string(nil), includes...), shimDir)
	}
	for _, inc := range includes {
		p, err := cgoPath(inc)
		if err != nil {
			return nil, err
		}
		data.Includes = append(data.Includes, "-I"+p)
	}
	search, err := cgoPath(d.LinkSearch)
	if err != nil {
		return nil, err
	}
	data.Libs = append(data.Libs, "-L"+search, "-l"+d.StaticLib)
	for _, lib := range d.System {
		data.Libs = append(data.Libs, "-l"+lib)
	}

	var buf bytes.Buffer
	if err := linkTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("bridge: render: %w", err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("bridge: format: %w", err)
	}
	return out, nil
}

// Write renders the link file and replaces path with it atomically.
func (g *Generator) Write(path string, artifact *build.Artifact, d *build.Directives, shimDir string) error {
	src, err := g.Render(artifact, d, shimDir)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".link-*.go.tmp")
	if err != nil {
		return fmt.Errorf("bridge: write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(src); err != nil {
		tmp.Close()
		return fmt.Errorf("bridge: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("bridge: write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("bridge: write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("bridge: write %s: %w", path, err)
	}

	g.log().WithFields(logrus.Fields{
		"file":    path,
		"library": artifact.Library,
	}).Info("wrote link file")
	return nil
}

func (g *Generator) log() logrus.FieldLogger {
	if g.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return l
	}
	return g.Log
}

// cgoPath renders p as an absolute path for a #cgo line, quoting it when it
// has spaces. cgo resolves relative flags from the package directory.
func cgoPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("bridge: resolve %s: %w", p, err)
	}
	abs = filepath.ToSlash(abs)
	if strings.ContainsAny(abs, " \t") {
		return `"` + abs + `"`, nil
	}
	return abs, nil
}
