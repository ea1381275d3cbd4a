package fslink_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aleclarson/subrepo-install/internal/fslink"
)

func assertLinksTo(t *testing.T, from, to string) {
	t.Helper()

	target, err := os.Readlink(from)
	require.NoError(t, err)
	require.False(t, filepath.IsAbs(target), "links must be relative")

	resolved, err := filepath.EvalSymlinks(from)
	require.NoError(t, err)
	expected, err := filepath.EvalSymlinks(to)
	require.NoError(t, err)
	require.Equal(t, expected, resolved)
}

func TestEnsure(t *testing.T) {
	setup := func(t *testing.T) (string, string) {
		root := t.TempDir()
		target := filepath.Join(root, "pkg")
		require.NoError(t, os.Mkdir(target, 0o755))
		return root, target
	}

	t.Run("creates link and parent directories", func(t *testing.T) {
		root, target := setup(t)
		from := filepath.Join(root, "node_modules", "@scope", "pkg")

		require.NoError(t, fslink.Ensure(from, target))
		assertLinksTo(t, from, target)
	})

	t.Run("replaces a stale file", func(t *testing.T) {
		root, target := setup(t)
		from := filepath.Join(root, "node_modules", "pkg")
		require.NoError(t, os.MkdirAll(filepath.Dir(from), 0o755))
		require.NoError(t, os.WriteFile(from, []byte("junk"), 0o644))

		require.NoError(t, fslink.Ensure(from, target))
		assertLinksTo(t, from, target)
	})

	t.Run("replaces a stale directory", func(t *testing.T) {
		root, target := setup(t)
		from := filepath.Join(root, "node_modules", "pkg")
		require.NoError(t, os.MkdirAll(filepath.Join(from, "nested"), 0o755))

		require.NoError(t, fslink.Ensure(from, target))
		assertLinksTo(t, from, target)
	})

	t.Run("replaces a stale link", func(t *testing.T) {
		root, target := setup(t)
		other := filepath.Join(root, "other")
		require.NoError(t, os.Mkdir(other, 0o755))
		from := filepath.Join(root, "node_modules", "pkg")
		require.NoError(t, fslink.Ensure(from, other))

		require.NoError(t, fslink.Ensure(from, target))
		assertLinksTo(t, from, target)
	})

	t.Run("replaces a dangling link", func(t *testing.T) {
		root, target := setup(t)
		from := filepath.Join(root, "node_modules", "pkg")
		require.NoError(t, os.MkdirAll(filepath.Dir(from), 0o755))
		require.NoError(t, os.Symlink("does-not-exist", from))

		require.NoError(t, fslink.Ensure(from, target))
		assertLinksTo(t, from, target)
	})

	t.Run("re-creating a correct link is a no-op", func(t *testing.T) {
		root, target := setup(t)
		from := filepath.Join(root, "node_modules", "pkg")

		require.NoError(t, fslink.Ensure(from, target))
		require.NoError(t, fslink.Ensure(from, target))
		assertLinksTo(t, from, target)
	})
}
