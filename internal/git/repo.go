package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// IsClone reports whether dir contains a git working tree. The check opens
// the repository directly rather than shelling out, so it is cheap enough to
// run for every configured sub-repository on every invocation.
func IsClone(dir string) bool {
	_, err := gogit.PlainOpen(dir)
	return err == nil
}

// RepoRoot returns the root directory of the Git repository enclosing path,
// or an error when path is not inside a repository.
func RepoRoot(path string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	return worktree.Filesystem.Root(), nil
}
