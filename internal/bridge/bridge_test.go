package bridge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpleble/simplegoble/internal/build"
)

func artifactFor(t *testing.T, p build.Platform, m build.Mode) (*build.Artifact, *build.Directives) {
	t.Helper()
	dest := "/opt/simpleble"
	a := &build.Artifact{
		Dest:       dest,
		IncludeDir: dest + "/include",
		LibDir:     dest + "/lib",
		Library:    m.LibraryName("simpleble"),
		Platform:   p,
		Mode:       m,
	}
	a.LibraryFile = a.LibDir + "/" + p.StaticLibFile(a.Library)
	d, err := a.Directives()
	require.NoError(t, err)
	return a, d
}

func TestVerifyShimHeader(t *testing.T) {
	require.NoError(t, Verify(filepath.Join("..", "ffi", "shim.h")))
}

func TestVerifyMissingDeclaration(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "ffi", "shim.h"))
	require.NoError(t, err)

	header := strings.Replace(string(data),
		"sgb_status_t sgb_adapter_address(sgb_adapter_t adapter, char** address);",
		"// sgb_adapter_address(adapter, address) was dropped", 1)
	path := filepath.Join(t.TempDir(), "shim.h")
	require.NoError(t, os.WriteFile(path, []byte(header), 0o644))

	err = Verify(path)
	assert.ErrorIs(t, err, ErrUndeclared)
	assert.Contains(t, err.Error(), "function sgb_adapter_address")
	assert.NotContains(t, err.Error(), "sgb_adapter_identifier")
}

func TestVerifyMissingType(t *testing.T) {
	err := verifySource("sgb_status_t sgb_string_free(char* s);")
	assert.ErrorIs(t, err, ErrUndeclared)
	assert.Contains(t, err.Error(), "type sgb_adapter_t")
	assert.Contains(t, err.Error(), "type sgb_status_t")
}

func TestVerifyUnreadableHeader(t *testing.T) {
	err := Verify(filepath.Join(t.TempDir(), "missing.h"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUndeclared)
}

func TestRenderFrameworksOnlyOnMacOS(t *testing.T) {
	tests := []struct {
		platform   build.Platform
		frameworks bool
		system     string
	}{
		{build.MacOS, true, "-lc++"},
		{build.Linux, false, "-lstdc++ -ldbus-1 -lpthread"},
		{build.Windows, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.platform.String(), func(t *testing.T) {
			a, d := artifactFor(t, tt.platform, build.Release)
			src, err := DefaultGenerator().Render(a, d, "")
			require.NoError(t, err)
			out := string(src)

			if tt.frameworks {
				assert.Contains(t, out, "#cgo LDFLAGS: -framework Foundation -framework CoreBluetooth")
			} else {
				assert.NotContains(t, out, "-framework")
			}
			assert.Contains(t, out, "#cgo LDFLAGS: -L/opt/simpleble/lib -lsimpleble"+prefixSpace(tt.system)+"\n")
		})
	}
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}

func TestRenderContents(t *testing.T) {
	a, d := artifactFor(t, build.Linux, build.Debug)
	src, err := DefaultGenerator().Render(a, d, "/src/internal/ffi")
	require.NoError(t, err)
	out := string(src)

	assert.True(t, strings.HasPrefix(out, "// Code generated by simplegoble-build. DO NOT EDIT.\n"))
	assert.Contains(t, out, "//go:build cgo && simpleble\n\npackage ffi\n")
	assert.Contains(t, out, "#cgo CPPFLAGS: -I/opt/simpleble/include -I/src/internal/ffi\n")
	assert.Contains(t, out, "#cgo CXXFLAGS: -std=c++17\n")
	assert.Contains(t, out, "-lsimpleble-debug")
	assert.Contains(t, out, `import "C"`)
}

func TestRenderQuotesPaths(t *testing.T) {
	a, d := artifactFor(t, build.Linux, build.Release)
	d.IncludeDirs = []string{"/home/me/My Projects/include"}
	src, err := DefaultGenerator().Render(a, d, "")
	require.NoError(t, err)
	assert.Contains(t, string(src), `-I"/home/me/My Projects/include"`)
}

func TestRenderResolvesRelativePaths(t *testing.T) {
	a, d := artifactFor(t, build.Linux, build.Release)
	d.IncludeDirs = []string{filepath.Join("build", "simpleble", "include")}
	d.LinkSearch = filepath.Join("build", "simpleble", "lib")

	src, err := DefaultGenerator().Render(a, d, ".")
	require.NoError(t, err)
	out := string(src)

	wd, err := os.Getwd()
	require.NoError(t, err)
	wd = filepath.ToSlash(wd)
	assert.NotContains(t, out, "-Ibuild/")
	assert.NotContains(t, out, "-Lbuild/")
	assert.Contains(t, out, "-I"+wd+"/build/simpleble/include -I"+wd+"\n")
	assert.Contains(t, out, "-L"+wd+"/build/simpleble/lib -lsimpleble")
}

func TestRenderRejectsIncompleteInput(t *testing.T) {
	a, d := artifactFor(t, build.Linux, build.Release)

	_, err := DefaultGenerator().Render(nil, d, "")
	assert.Error(t, err)

	_, err = (&Generator{Package: "ffi"}).Render(a, d, "")
	assert.Error(t, err)
}

func TestWriteReplacesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LinkFile)
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	a, d := artifactFor(t, build.MacOS, build.Release)
	g := DefaultGenerator()
	require.NoError(t, g.Write(path, a, d, ""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := g.Render(a, d, "")
	require.NoError(t, err)
	assert.Equal(t, string(want), string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriteMissingDir(t *testing.T) {
	a, d := artifactFor(t, build.Linux, build.Release)
	err := DefaultGenerator().Write(filepath.Join(t.TempDir(), "nope", LinkFile), a, d, "")
	assert.Error(t, err)
}
