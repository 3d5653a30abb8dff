// Package config holds the settings of the native build tool.
//
// Values are layered: Default, then an optional YAML file, then the
// environment, then command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/simpleble/simplegoble/internal/build"
)

// Environment variables read by ApplyEnv.
const (
	EnvDebug      = "DEBUG"
	EnvOutDir     = "OUT_DIR"
	EnvSourceDir  = "SIMPLEGOBLE_SOURCE_DIR"
	EnvPlatform   = "SIMPLEGOBLE_PLATFORM"
	EnvSourceRepo = "SIMPLEGOBLE_SOURCE_REPO"
	EnvSourceRef  = "SIMPLEGOBLE_SOURCE_REF"
	EnvClean      = "SIMPLEGOBLE_CLEAN"
	EnvPkgName    = "SIMPLEGOBLE_PKG_NAME"
	EnvPkgVersion = "SIMPLEGOBLE_PKG_VERSION"
)

// Config is the full configuration of one native build.
type Config struct {
	SourceDir string `yaml:"source_dir"`
	OutDir    string `yaml:"out_dir"`
	Library   string `yaml:"library"`
	Debug     bool   `yaml:"debug"`
	Platform  string `yaml:"platform"`
	Clean     bool   `yaml:"clean"`

	// Fetch clones SourceRepo into CheckoutDir when SourceDir is missing.
	Fetch       bool   `yaml:"fetch"`
	SourceRepo  string `yaml:"source_repo"`
	SourceRef   string `yaml:"source_ref"`
	CheckoutDir string `yaml:"checkout_dir"`
	Git         string `yaml:"git"`

	CMake     string            `yaml:"cmake"`
	Generator string            `yaml:"generator"`
	Jobs      int               `yaml:"jobs"`
	Defines   map[string]string `yaml:"defines"`

	// ShimDir holds shim.h and is where the link file is written.
	ShimDir  string `yaml:"shim_dir"`
	LinkFile string `yaml:"link_file"`

	PkgName    string `yaml:"pkg_name"`
	PkgVersion string `yaml:"pkg_version"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		SourceDir:   filepath.Join("third_party", "simpleble", "simpleble"),
		OutDir:      filepath.Join("build", "simpleble"),
		Library:     "simpleble",
		Platform:    runtime.GOOS,
		Fetch:       true,
		SourceRepo:  build.DefaultRepository,
		CheckoutDir: filepath.Join("third_party", "simpleble"),
		Git:         "git",
		CMake:       "cmake",
		ShimDir:     filepath.Join("internal", "ffi"),
		LinkFile:    "zz_link_generated.go",
		PkgName:     "simplegoble",
		PkgVersion:  "dev",
	}
}

// LoadFile overlays the YAML file at path onto c. Keys absent from the file
// keep their current value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays the environment variables visible through lookup.
// DEBUG selects debug mode only when it is exactly "true".
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDebug); ok {
		c.Debug = v == "true"
	}
	if v, ok := lookup(EnvOutDir); ok && v != "" {
		c.OutDir = v
	}
	if v, ok := lookup(EnvSourceDir); ok && v != "" {
		c.SourceDir = v
	}
	if v, ok := lookup(EnvPlatform); ok && v != "" {
		c.Platform = v
	}
	if v, ok := lookup(EnvSourceRepo); ok && v != "" {
		c.SourceRepo = v
	}
	if v, ok := lookup(EnvSourceRef); ok {
		c.SourceRef = v
	}
	if v, ok := lookup(EnvClean); ok && v != "" {
		clean, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvClean, err)
		}
		c.Clean = clean
	}
	if v, ok := lookup(EnvPkgName); ok && v != "" {
		c.PkgName = v
	}
	if v, ok := lookup(EnvPkgVersion); ok && v != "" {
		c.PkgVersion = v
	}
	return nil
}

// Load returns Default overlaid with the file at path (if non-empty) and the
// process environment.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		if err := c.LoadFile(path); err != nil {
			return c, err
		}
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return c, err
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := build.ParsePlatform(c.Platform); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch {
	case c.SourceDir == "":
		return errors.New("config: source_dir is required")
	case c.OutDir == "":
		return errors.New("config: out_dir is required")
	case c.Library == "":
		return errors.New("config: library is required")
	case c.LinkFile == "":
		return errors.New("config: link_file is required")
	case c.Fetch && (c.SourceRepo == "" || c.CheckoutDir == ""):
		return errors.New("config: fetch needs source_repo and checkout_dir")
	case c.Jobs < 0:
		return fmt.Errorf("config: jobs must not be negative, got %d", c.Jobs)
	}
	return nil
}

// Mode returns the build mode selected by Debug.
func (c *Config) Mode() build.Mode {
	return build.ModeFromDebug(c.Debug)
}

// LinkPath returns the path of the generated link file.
func (c *Config) LinkPath() string {
	if filepath.IsAbs(c.LinkFile) {
		return c.LinkFile
	}
	return filepath.Join(c.ShimDir, c.LinkFile)
}

// ShimHeader returns the path of the shim header.
func (c *Config) ShimHeader() string {
	return filepath.Join(c.ShimDir, "shim.h")
}

// BuildConfig converts c to the native build configuration.
func (c *Config) BuildConfig() build.Config {
	var fetch build.Fetch
	if c.Fetch {
		fetch = build.Fetch{
			Repository:  c.SourceRepo,
			Ref:         c.SourceRef,
			CheckoutDir: c.CheckoutDir,
			Git:         c.Git,
		}
	}
	return build.Config{
		SourceDir: c.SourceDir,
		OutDir:    c.OutDir,
		Library:   c.Library,
		Mode:      c.Mode(),
		Platform:  c.Platform,
		Clean:     c.Clean,
		Fetch:     fetch,
		CMake:     c.CMake,
		Generator: c.Generator,
		Jobs:      c.Jobs,
		Defines:   c.Defines,
	}
}
