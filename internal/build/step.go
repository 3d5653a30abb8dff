// Package build compiles the native SimpleBLE library from its bundled source
// tree and derives the link requirements for the target platform.
//
// Every failure is fatal: Step.Run returns a *StepError naming the phase that
// failed and no artifact. There are no retries and no degraded output.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// ErrSourceMissing is returned when the native source tree is absent.
var ErrSourceMissing = errors.New("build: native source tree missing")

// Phases reported in StepError.Step.
const (
	PhasePlatform  = "platform"
	PhaseSource    = "source"
	PhaseFetch     = "fetch"
	PhaseStamp     = "stamp"
	PhaseConfigure = "configure"
	PhaseBuild     = "build"
	PhaseInstall   = "install"
	PhaseDiscover  = "discover"
)

// StepError reports which phase of the native build failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("native build: %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Config describes one native build.
type Config struct {
	// SourceDir is the CMake source tree of the native library.
	SourceDir string
	// OutDir is the install destination; the CMake build tree lives in
	// OutDir/build.
	OutDir string
	// Library is the base name of the static library, without the debug
	// suffix.
	Library string
	Mode    Mode
	// Platform is the target OS string, e.g. "linux" or "macos".
	Platform string
	// Clean removes any previous output before building.
	Clean bool
	// Fetch clones the sources when SourceDir does not exist yet.
	Fetch     Fetch
	CMake     string
	Generator string
	Jobs      int
	Defines   map[string]string
}

// BuildDir returns the out-of-source CMake build directory.
func (c Config) BuildDir() string {
	return filepath.Join(c.OutDir, "build")
}

// Step runs the native library build.
type Step struct {
	Config Config
	Runner Runner
	Log    logrus.FieldLogger
}

func (s *Step) log() logrus.FieldLogger {
	if s.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return l
	}
	return s.Log
}

func fail(phase string, err error) (*Artifact, *Directives, error) {
	return nil, nil, &StepError{Step: phase, Err: err}
}

// absolute resolves the directories of c against the working directory.
// CMake runs inside the build directory, so relative paths must not reach it.
func (c Config) absolute() (Config, error) {
	for _, dir := range []*string{&c.SourceDir, &c.OutDir, &c.Fetch.CheckoutDir} {
		if *dir == "" {
			continue
		}
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return c, err
		}
		*dir = abs
	}
	return c, nil
}

// Run builds and installs the native library and returns the installed
// artifact with its link directives.
func (s *Step) Run(ctx context.Context) (*Artifact, *Directives, error) {
	log := s.log().WithFields(logrus.Fields{
		"library": s.Config.Library,
		"mode":    s.Config.Mode,
	})

	platform, err := ParsePlatform(s.Config.Platform)
	if err != nil {
		return fail(PhasePlatform, err)
	}
	if _, err := platform.Frameworks(); err != nil {
		return fail(PhasePlatform, err)
	}

	cfg, err := s.Config.absolute()
	if err != nil {
		return fail(PhaseSource, err)
	}
	if cfg.OutDir == "" {
		return fail(PhaseSource, errors.New("no output dir configured"))
	}

	runner := s.Runner
	if runner == nil {
		runner = ExecRunner{Log: log}
	}

	if err := checkSource(cfg.SourceDir); err != nil {
		if cfg.Fetch.Repository == "" || cfg.SourceDir == "" {
			return fail(PhaseSource, err)
		}
		log.WithFields(logrus.Fields{
			"repository": cfg.Fetch.Repository,
			"dir":        cfg.Fetch.CheckoutDir,
		}).Info("fetching native sources")
		if err := cfg.Fetch.Run(ctx, runner); err != nil {
			return fail(PhaseFetch, err)
		}
		if err := checkSource(cfg.SourceDir); err != nil {
			return fail(PhaseSource, err)
		}
	}

	if cfg.Clean {
		log.WithField("dir", cfg.OutDir).Info("removing previous output")
		if err := cleanOutput(cfg); err != nil {
			return fail(PhaseStamp, err)
		}
	} else if err := CheckStamp(cfg.OutDir, cfg.Mode, platform, cfg.Library, cfg.SourceDir); err != nil {
		return fail(PhaseStamp, fmt.Errorf("%w (rerun with clean to rebuild)", err))
	}

	cmake := &CMake{
		Binary:     cfg.CMake,
		SourceDir:  cfg.SourceDir,
		BuildDir:   cfg.BuildDir(),
		InstallDir: cfg.OutDir,
		Mode:       cfg.Mode,
		Generator:  cfg.Generator,
		Jobs:       cfg.Jobs,
		Defines:    cfg.Defines,
		Runner:     runner,
	}

	log.WithField("source", cfg.SourceDir).Info("configuring native library")
	if err := cmake.Configure(ctx); err != nil {
		return fail(PhaseConfigure, err)
	}
	log.Info("building native library")
	if err := cmake.Build(ctx); err != nil {
		return fail(PhaseBuild, err)
	}
	log.WithField("dest", cfg.OutDir).Info("installing native library")
	if err := cmake.Install(ctx); err != nil {
		return fail(PhaseInstall, err)
	}

	artifact, err := Discover(cfg.OutDir, platform, cfg.Mode, cfg.Library)
	if err != nil {
		return fail(PhaseDiscover, err)
	}
	directives, err := artifact.Directives()
	if err != nil {
		return fail(PhasePlatform, err)
	}

	err = WriteStamp(cfg.OutDir, Stamp{
		Mode:     cfg.Mode,
		Library:  artifact.Library,
		Platform: platform.String(),
		Source:   cfg.SourceDir,
	})
	if err != nil {
		return fail(PhaseStamp, err)
	}

	for _, line := range directives.Lines() {
		log.Info(line)
	}
	return artifact, directives, nil
}

// cleanOutput removes what a previous build wrote into OutDir and nothing
// else.
func cleanOutput(cfg Config) error {
	for _, p := range []string{
		cfg.BuildDir(),
		filepath.Join(cfg.OutDir, "include"),
		filepath.Join(cfg.OutDir, "lib"),
		filepath.Join(cfg.OutDir, StampFile),
	} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return nil
}

func checkSource(dir string) error {
	if dir == "" {
		return fmt.Errorf("%w: no source dir configured", ErrSourceMissing)
	}
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrSourceMissing, dir)
	}
	if _, err := os.Stat(filepath.Join(dir, "CMakeLists.txt")); err != nil {
		return fmt.Errorf("%w: %s has no CMakeLists.txt", ErrSourceMissing, dir)
	}
	return nil
}
