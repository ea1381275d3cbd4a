// Package git provides low-level Git operations for sub-repository
// synchronization.
//
// It wraps git command execution and provides a Go-friendly interface for:
//   - Shallow clone and fetch of a single ref
//   - Hard reset of a working tree to a fetched tip
//   - Repo state queries (HEAD, current branch, subtree head)
//   - Remote ref resolution without fetching history (ls-remote)
//
// This package should be the only place where direct git commands are executed.
package git
