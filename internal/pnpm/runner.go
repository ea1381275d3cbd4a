package pnpm

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	subrepoerrors "github.com/aleclarson/subrepo-install/internal/errors"
)

// DefaultCommandTimeout is the default timeout for pnpm commands. Installs
// of large dependency trees are slow, so this is deliberately generous.
const DefaultCommandTimeout = 15 * time.Minute

const (
	// WorkspaceManifest is the file whose presence marks a directory as a
	// pnpm workspace root.
	WorkspaceManifest = "pnpm-workspace.yaml"

	// Lockfile is the pnpm lockfile name.
	Lockfile = "pnpm-lock.yaml"
)

// InstallOptions adjusts a dependency install.
type InstallOptions struct {
	// NoLockfile suppresses lockfile generation. Set when the package has no
	// lockfile yet, so the install does not create one the upstream repo
	// never had.
	NoLockfile bool

	// IgnoreWorkspace forces a standalone install even when an ancestor
	// directory is a workspace root. Set when neither the sub-repository
	// root nor the package directory is a recognized workspace, to avoid
	// attaching to an unrelated enclosing workspace.
	IgnoreWorkspace bool
}

// Runner defines the interface for pnpm operations used by the engine.
// This allows the engine to be used with both real pnpm and mock implementations.
type Runner interface {
	Install(ctx context.Context, dir string, opts InstallOptions) error
	RunScript(ctx context.Context, dir, script string) error

	IsWorkspaceRoot(dir string) bool
	HasLockfile(dir string) bool
	WorkspacePatterns(dir string) []string
	ReadPackage(dir string) (*Package, error)
}

// NewRealRunner returns a standard implementation of Runner that calls
// the package-level pnpm functions.
func NewRealRunner() Runner {
	return &realRunner{}
}

type realRunner struct{}

func (r *realRunner) Install(ctx context.Context, dir string, opts InstallOptions) error {
	return Install(ctx, dir, opts)
}

func (r *realRunner) RunScript(ctx context.Context, dir, script string) error {
	return RunScript(ctx, dir, script)
}

func (r *realRunner) IsWorkspaceRoot(dir string) bool {
	return IsWorkspaceRoot(dir)
}

func (r *realRunner) HasLockfile(dir string) bool {
	return HasLockfile(dir)
}

func (r *realRunner) WorkspacePatterns(dir string) []string {
	patterns, err := WorkspacePatterns(dir)
	if err != nil {
		return nil
	}
	return patterns
}

func (r *realRunner) ReadPackage(dir string) (*Package, error) {
	return ReadPackage(dir)
}

// run executes a pnpm command in dir and returns the trimmed output
func run(ctx context.Context, dir string, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "pnpm", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return "", subrepoerrors.NewCommandError("pnpm", args, stdout.String(), stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Install installs the dependencies of the package at dir
func Install(ctx context.Context, dir string, opts InstallOptions) error {
	args := []string{"install"}
	if opts.NoLockfile {
		args = append(args, "--no-lockfile")
	}
	if opts.IgnoreWorkspace {
		args = append(args, "--ignore-workspace")
	}
	_, err := run(ctx, dir, args...)
	return err
}

// RunScript runs the named script of the package at dir
func RunScript(ctx context.Context, dir, script string) error {
	_, err := run(ctx, dir, "run", script)
	return err
}

// IsWorkspaceRoot reports whether dir is a pnpm workspace root
func IsWorkspaceRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, WorkspaceManifest))
	return err == nil && !info.IsDir()
}

// HasLockfile reports whether dir already has a pnpm lockfile
func HasLockfile(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, Lockfile))
	return err == nil && !info.IsDir()
}
