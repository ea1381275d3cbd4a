package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	subrepoerrors "github.com/aleclarson/subrepo-install/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 10 * time.Minute

// CommandRunner handles execution of git commands
type CommandRunner struct {
	workingDir string
}

// NewCommandRunner creates a new CommandRunner rooted at workingDir
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{workingDir: workingDir}
}

// Run executes a git command with the given context and returns the trimmed output
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", subrepoerrors.NewCommandError("git", args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", subrepoerrors.NewCommandError("git", args, stdout.String(), stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// RunGitCommandInDir executes a git command in a specific directory and returns the output.
func RunGitCommandInDir(ctx context.Context, dir string, args ...string) (string, error) {
	runner := &CommandRunner{workingDir: dir}
	return runner.Run(ctx, args...)
}

// Runner defines the interface for git operations used by the engine.
// This allows the engine to be used with both real git and mock implementations.
type Runner interface {
	// Clone and sync
	CloneShallow(ctx context.Context, remote, dir, branch string) error
	FetchShallow(ctx context.Context, dir, remote, ref string) error
	HardReset(ctx context.Context, dir, revision string) error

	// Local state queries
	IsClone(dir string) bool
	Head(ctx context.Context, dir string) (string, error)
	CurrentBranch(ctx context.Context, dir string) (string, error)
	SubtreeHead(ctx context.Context, dir, path string) (string, error)

	// Remote queries
	LsRemote(ctx context.Context, remote, ref string) (string, error)
}

// NewRealRunner returns a standard implementation of Runner that calls
// the package-level git functions.
func NewRealRunner() Runner {
	return &realRunner{}
}

// realRunner implements Runner by calling the actual git package functions
type realRunner struct{}

func (r *realRunner) CloneShallow(ctx context.Context, remote, dir, branch string) error {
	return CloneShallow(ctx, remote, dir, branch)
}

func (r *realRunner) FetchShallow(ctx context.Context, dir, remote, ref string) error {
	return FetchShallow(ctx, dir, remote, ref)
}

func (r *realRunner) HardReset(ctx context.Context, dir, revision string) error {
	return HardReset(ctx, dir, revision)
}

func (r *realRunner) IsClone(dir string) bool {
	return IsClone(dir)
}

func (r *realRunner) Head(ctx context.Context, dir string) (string, error) {
	return Head(ctx, dir)
}

func (r *realRunner) CurrentBranch(ctx context.Context, dir string) (string, error) {
	return CurrentBranch(ctx, dir)
}

func (r *realRunner) SubtreeHead(ctx context.Context, dir, path string) (string, error) {
	return SubtreeHead(ctx, dir, path)
}

func (r *realRunner) LsRemote(ctx context.Context, remote, ref string) (string, error) {
	return LsRemote(ctx, remote, ref)
}
