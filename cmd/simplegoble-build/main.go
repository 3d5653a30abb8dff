// Command simplegoble-build compiles the bundled SimpleBLE sources and writes
// the cgo link file used by the simpleble build tag.
//
// Run it from the module root, or point -C at it:
//
//	go run ./cmd/simplegoble-build
//	go build -tags simpleble ./...
//
// When the SimpleBLE tree is not checked out under third_party/simpleble it
// is cloned from SIMPLEGOBLE_SOURCE_REPO (pinned with SIMPLEGOBLE_SOURCE_REF)
// unless -fetch=false is given.
//
// Settings come from defaults, then -config, then the environment (DEBUG,
// OUT_DIR, SIMPLEGOBLE_*), then flags. Relative paths are resolved against
// the working directory after -C.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/simpleble/simplegoble/internal/bridge"
	"github.com/simpleble/simplegoble/internal/build"
	"github.com/simpleble/simplegoble/internal/config"
)

func main() {
	chdir := flag.String("C", "", "Change to this directory before doing anything")
	configPath := flag.String("config", "", "YAML build configuration")
	debug := flag.Bool("debug", false, "Build the debug library (simpleble-debug)")
	source := flag.String("source", "", "SimpleBLE CMake source tree")
	out := flag.String("out", "", "Install destination (build tree goes in <out>/build)")
	platform := flag.String("platform", "", "Target platform: macos, windows or linux")
	clean := flag.Bool("clean", false, "Remove previous output before building")
	fetch := flag.Bool("fetch", true, "Clone SimpleBLE when the source tree is missing")
	shim := flag.String("shim", "", "Directory holding shim.h and the generated link file")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if *chdir != "" {
		if err := os.Chdir(*chdir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "debug":
			cfg.Debug = *debug
		case "source":
			cfg.SourceDir = *source
		case "out":
			cfg.OutDir = *out
		case "platform":
			cfg.Platform = *platform
		case "clean":
			cfg.Clean = *clean
		case "fetch":
			cfg.Fetch = *fetch
		case "shim":
			cfg.ShimDir = *shim
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		var stepErr *build.StepError
		if errors.As(err, &stepErr) {
			fmt.Fprintf(os.Stderr, "Error: native build step %q failed: %v\n", stepErr.Step, stepErr.Err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cwd, err := os.Getwd(); err == nil {
		log.Infof("CWD: %s", cwd)
	}
	log.Infof("ENV: %s - %s", config.EnvOutDir, cfg.OutDir)
	log.Infof("ENV: %s - %s", config.EnvPkgName, cfg.PkgName)
	log.Infof("ENV: %s - %s", config.EnvPkgVersion, cfg.PkgVersion)
	if cfg.Debug {
		log.Warn("Building in DEBUG mode")
	}

	step := &build.Step{Config: cfg.BuildConfig(), Log: log}
	artifact, directives, err := step.Run(ctx)
	if err != nil {
		return err
	}

	if err := bridge.Verify(cfg.ShimHeader()); err != nil {
		return err
	}
	gen := bridge.DefaultGenerator()
	gen.Log = log
	if err := gen.Write(cfg.LinkPath(), artifact, directives, cfg.ShimDir); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"library": artifact.Library,
		"file":    artifact.LibraryFile,
	}).Info("native library ready; build with -tags simpleble")
	return nil
}
