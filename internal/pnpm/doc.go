// Package pnpm wraps invocations of the pnpm package manager and reading of
// package descriptors.
//
// It provides:
//   - Dependency installation scoped to a directory, with flags to suppress
//     lockfile creation and to ignore an enclosing workspace
//   - Running named package scripts (build)
//   - Workspace and lockfile detection (pnpm-workspace.yaml, pnpm-lock.yaml)
//   - package.json parsing, including the string-or-map bin field
//
// This package should be the only place where pnpm commands are executed.
package pnpm
