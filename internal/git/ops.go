package git

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	subrepoerrors "github.com/aleclarson/subrepo-install/internal/errors"
)

// commitHashPattern matches a full 40-character SHA-1 commit hash
var commitHashPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// IsCommitHash reports whether ref is a full commit hash. Such refs are
// immutable and are never re-resolved against the remote.
func IsCommitHash(ref string) bool {
	return commitHashPattern.MatchString(ref)
}

// CloneShallow clones remote into dir with depth 1. When branch is non-empty,
// only that branch is cloned; otherwise the remote's default branch is used.
func CloneShallow(ctx context.Context, remote, dir, branch string) error {
	args := []string{"clone", "--depth=1"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, remote, dir)

	runner := &CommandRunner{}
	if _, err := runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to clone %s into %s: %w", remote, dir, err)
	}
	return nil
}

// FetchShallow fetches exactly ref from remote with depth 1, leaving the
// fetched tip in FETCH_HEAD.
func FetchShallow(ctx context.Context, dir, remote, ref string) error {
	_, err := RunGitCommandInDir(ctx, dir, "fetch", "--depth=1", remote, ref)
	if err != nil {
		return fmt.Errorf("failed to fetch %s from %s: %w", ref, remote, err)
	}
	return nil
}

// HardReset performs a hard reset of the working tree at dir to a specific revision
func HardReset(ctx context.Context, dir, revision string) error {
	_, err := RunGitCommandInDir(ctx, dir, "reset", "--hard", revision)
	if err != nil {
		return fmt.Errorf("failed to hard reset to %s: %w", revision, err)
	}
	return nil
}

// Head returns the commit hash of HEAD in dir
func Head(ctx context.Context, dir string) (string, error) {
	sha, err := RunGitCommandInDir(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD of %s: %w", dir, err)
	}
	return sha, nil
}

// CurrentBranch returns the name of the branch currently checked out in dir
func CurrentBranch(ctx context.Context, dir string) (string, error) {
	branch, err := RunGitCommandInDir(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch of %s: %w", dir, err)
	}
	return branch, nil
}

// SubtreeHead returns the hash of the most recent commit touching path
// within the repository at dir. Unrelated commits elsewhere in the repo do
// not move a subtree's head.
func SubtreeHead(ctx context.Context, dir, path string) (string, error) {
	if path == "" {
		path = "."
	}
	sha, err := RunGitCommandInDir(ctx, dir, "log", "-1", "--format=%H", "--", path)
	if err != nil {
		return "", fmt.Errorf("failed to get subtree head of %s: %w", path, err)
	}
	return sha, nil
}

// LsRemote resolves the tip commit of ref on remote via a lightweight
// remote-ref query, without fetching any history.
func LsRemote(ctx context.Context, remote, ref string) (string, error) {
	runner := &CommandRunner{}
	out, err := runner.Run(ctx, "ls-remote", remote, ref)
	if err != nil {
		return "", fmt.Errorf("failed to query %s for %s: %w", remote, ref, err)
	}
	// Output is "<sha>\t<refname>" per matching ref; take the first match.
	line, _, _ := strings.Cut(out, "\n")
	sha, _, found := strings.Cut(line, "\t")
	if !found || sha == "" {
		return "", subrepoerrors.NewRefNotFoundError(remote, ref)
	}
	return strings.TrimSpace(sha), nil
}
