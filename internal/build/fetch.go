package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultRepository is the upstream SimpleBLE repository.
const DefaultRepository = "https://github.com/simpleble/simpleble.git"

// Fetch describes where the SimpleBLE sources come from when the source tree
// is not checked out yet.
type Fetch struct {
	// Repository is cloned into CheckoutDir. Empty disables fetching.
	Repository string
	// Ref is a tag or branch; empty clones the default branch.
	Ref         string
	CheckoutDir string
	Git         string
}

func (f Fetch) git() string {
	if f.Git == "" {
		return "git"
	}
	return f.Git
}

// CloneArgs returns the arguments of the shallow clone.
func (f Fetch) CloneArgs() []string {
	args := []string{"clone", "--depth", "1"}
	if f.Ref != "" {
		args = append(args, "--branch", f.Ref)
	}
	return append(args, f.Repository, f.CheckoutDir)
}

// Run clones Repository into CheckoutDir. An existing CheckoutDir is left
// alone.
func (f Fetch) Run(ctx context.Context, r Runner) error {
	if f.Repository == "" {
		return fmt.Errorf("%w: no repository configured", ErrSourceMissing)
	}
	if _, err := os.Stat(f.CheckoutDir); err == nil {
		return nil
	}
	parent := filepath.Dir(f.CheckoutDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", parent, err)
	}
	return r.Run(ctx, parent, f.git(), f.CloneArgs()...)
}
