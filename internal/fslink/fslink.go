// Package fslink maintains relative filesystem symlinks. All links are
// recomputed fresh on every run, so creating a link must be idempotent and
// must replace whatever entry currently occupies the destination.
package fslink

import (
	"fmt"
	"os"
	"path/filepath"
)

// Ensure creates a relative symlink at from pointing to to. Any existing
// entry at from (regular file, directory, or stale link) is removed first,
// and missing parent directories are created.
func Ensure(from, to string) error {
	absFrom, err := filepath.Abs(from)
	if err != nil {
		return fmt.Errorf("failed to resolve link path: %w", err)
	}
	absTo, err := filepath.Abs(to)
	if err != nil {
		return fmt.Errorf("failed to resolve link target: %w", err)
	}

	rel, err := filepath.Rel(filepath.Dir(absFrom), absTo)
	if err != nil {
		return fmt.Errorf("failed to relativize link target: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(absFrom), 0o755); err != nil {
		return fmt.Errorf("failed to create link parent directory: %w", err)
	}

	// Lstat so a stale symlink is detected without following it.
	if _, err := os.Lstat(absFrom); err == nil {
		if err := os.RemoveAll(absFrom); err != nil {
			return fmt.Errorf("failed to replace existing entry at %s: %w", absFrom, err)
		}
	}

	if err := os.Symlink(rel, absFrom); err != nil {
		return fmt.Errorf("failed to create link %s -> %s: %w", absFrom, rel, err)
	}
	return nil
}

// Linker is the production Linker used by the engine; tests substitute a
// recording implementation.
type Linker struct{}

// Ensure implements the engine's Linker interface
func (Linker) Ensure(from, to string) error {
	return Ensure(from, to)
}
