package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Runner executes an external command in dir.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands with os/exec and streams their output to Log.
type ExecRunner struct {
	Log logrus.FieldLogger
}

type levelWriter interface {
	WriterLevel(logrus.Level) *io.PipeWriter
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if lw, ok := r.Log.(levelWriter); ok {
		stdout := lw.WriterLevel(logrus.DebugLevel)
		stderr := lw.WriterLevel(logrus.WarnLevel)
		defer stdout.Close()
		defer stderr.Close()
		cmd.Stdout = stdout
		cmd.Stderr = stderr
	}
	if r.Log != nil {
		r.Log.WithField("dir", dir).Infof("running %s %s", name, strings.Join(args, " "))
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// CMake drives an out-of-source configure, build and install of one source
// tree.
type CMake struct {
	Binary     string
	SourceDir  string
	BuildDir   string
	InstallDir string
	Mode       Mode
	Generator  string
	Jobs       int
	Defines    map[string]string
	Runner     Runner
}

func (c *CMake) binary() string {
	if c.Binary == "" {
		return "cmake"
	}
	return c.Binary
}

// ConfigureArgs returns the arguments of the configure invocation.
func (c *CMake) ConfigureArgs() []string {
	args := []string{
		"-S", c.SourceDir,
		"-B", c.BuildDir,
		"-DCMAKE_BUILD_TYPE=" + c.Mode.CMakeBuildType(),
		"-DCMAKE_INSTALL_PREFIX=" + c.InstallDir,
		"-DCMAKE_INSTALL_LIBDIR=lib",
		"-DBUILD_SHARED_LIBS=OFF",
	}
	if c.Generator != "" {
		args = append(args, "-G", c.Generator)
	}
	keys := make([]string, 0, len(c.Defines))
	for k := range c.Defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, fmt.Sprintf("-D%s=%s", k, c.Defines[k]))
	}
	return args
}

// BuildArgs returns the arguments of the build invocation.
func (c *CMake) BuildArgs() []string {
	args := []string{"--build", c.BuildDir, "--config", c.Mode.CMakeBuildType()}
	if c.Jobs > 0 {
		args = append(args, "--parallel", strconv.Itoa(c.Jobs))
	}
	return args
}

// InstallArgs returns the arguments of the install invocation.
func (c *CMake) InstallArgs() []string {
	return []string{"--install", c.BuildDir, "--config", c.Mode.CMakeBuildType()}
}

// Configure runs the configure phase.
func (c *CMake) Configure(ctx context.Context) error {
	if err := os.MkdirAll(c.BuildDir, 0o755); err != nil {
		return fmt.Errorf("create build dir: %w", err)
	}
	return c.Runner.Run(ctx, c.BuildDir, c.binary(), c.ConfigureArgs()...)
}

// Build runs the build phase.
func (c *CMake) Build(ctx context.Context) error {
	return c.Runner.Run(ctx, c.BuildDir, c.binary(), c.BuildArgs()...)
}

// Install runs the install phase into InstallDir.
func (c *CMake) Install(ctx context.Context) error {
	return c.Runner.Run(ctx, c.BuildDir, c.binary(), c.InstallArgs()...)
}
