package pnpm_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	subrepoerrors "github.com/aleclarson/subrepo-install/internal/errors"
	"github.com/aleclarson/subrepo-install/internal/pnpm"
)

func writePackage(t *testing.T, dir, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, pnpm.DescriptorName), []byte(contents), 0o644))
}

func TestReadPackage(t *testing.T) {
	t.Run("full descriptor", func(t *testing.T) {
		dir := t.TempDir()
		writePackage(t, dir, `{
			"name": "@scope/tool",
			"bin": {"tool": "dist/cli.js", "tool-dev": "dist/dev.js"},
			"scripts": {"build": "tsc"},
			"dependencies": {"left-pad": "^1.0.0"},
			"devDependencies": {"typescript": "^5.0.0"}
		}`)

		pkg, err := pnpm.ReadPackage(dir)
		require.NoError(t, err)
		require.Equal(t, "@scope/tool", pkg.Name)
		require.True(t, pkg.HasDependencies())
		require.True(t, pkg.HasScript("build"))
		require.False(t, pkg.HasScript("test"))
		require.Equal(t, map[string]string{"tool": "dist/cli.js", "tool-dev": "dist/dev.js"}, pkg.Bin.Entries(pkg.Name))
	})

	t.Run("dev dependencies alone count as dependencies", func(t *testing.T) {
		dir := t.TempDir()
		writePackage(t, dir, `{"name": "x", "devDependencies": {"typescript": "^5.0.0"}}`)

		pkg, err := pnpm.ReadPackage(dir)
		require.NoError(t, err)
		require.True(t, pkg.HasDependencies())
	})

	t.Run("missing descriptor", func(t *testing.T) {
		_, err := pnpm.ReadPackage(t.TempDir())
		require.ErrorIs(t, err, subrepoerrors.ErrNoDescriptor)
	})

	t.Run("malformed descriptor", func(t *testing.T) {
		dir := t.TempDir()
		writePackage(t, dir, `{"name": `)

		_, err := pnpm.ReadPackage(dir)
		require.ErrorIs(t, err, subrepoerrors.ErrNoDescriptor)

		var descErr *subrepoerrors.DescriptorError
		require.True(t, errors.As(err, &descErr))
		require.Equal(t, dir, descErr.Dir)
	})
}

func TestBinField(t *testing.T) {
	t.Run("single string bin is named after the package", func(t *testing.T) {
		dir := t.TempDir()
		writePackage(t, dir, `{"name": "@scope/tool", "bin": "dist/cli.js"}`)

		pkg, err := pnpm.ReadPackage(dir)
		require.NoError(t, err)
		require.False(t, pkg.Bin.IsZero())
		// The scope prefix is dropped for the executable name.
		require.Equal(t, map[string]string{"tool": "dist/cli.js"}, pkg.Bin.Entries(pkg.Name))
	})

	t.Run("absent bin", func(t *testing.T) {
		dir := t.TempDir()
		writePackage(t, dir, `{"name": "x"}`)

		pkg, err := pnpm.ReadPackage(dir)
		require.NoError(t, err)
		require.True(t, pkg.Bin.IsZero())
		require.Empty(t, pkg.Bin.Entries(pkg.Name))
	})
}

func TestWorkspaceDetection(t *testing.T) {
	dir := t.TempDir()
	require.False(t, pnpm.IsWorkspaceRoot(dir))
	require.False(t, pnpm.HasLockfile(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, pnpm.WorkspaceManifest), []byte("packages:\n  - packages/*\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, pnpm.Lockfile), []byte("lockfileVersion: 9\n"), 0o644))

	require.True(t, pnpm.IsWorkspaceRoot(dir))
	require.True(t, pnpm.HasLockfile(dir))

	patterns, err := pnpm.WorkspacePatterns(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"packages/*"}, patterns)
}

func TestWorkspacePatterns(t *testing.T) {
	t.Run("not a workspace", func(t *testing.T) {
		patterns, err := pnpm.WorkspacePatterns(t.TempDir())
		require.NoError(t, err)
		require.Nil(t, patterns)
	})

	t.Run("malformed manifest", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, pnpm.WorkspaceManifest), []byte("packages: {nope"), 0o644))

		_, err := pnpm.WorkspacePatterns(dir)
		require.Error(t, err)
	})
}

func TestMatchesWorkspacePattern(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		rel      string
		want     bool
	}{
		{"single star", []string{"packages/*"}, "packages/a", true},
		{"single star does not recurse", []string{"packages/*"}, "packages/a/b", false},
		{"double star", []string{"packages/**"}, "packages/a/b", true},
		{"double star matches root of pattern", []string{"packages/**"}, "packages", true},
		{"literal", []string{"tools/gen"}, "tools/gen", true},
		{"no match", []string{"packages/*"}, "tools/gen", false},
		{"negation wins when later", []string{"packages/*", "!packages/legacy"}, "packages/legacy", false},
		{"negation leaves others", []string{"packages/*", "!packages/legacy"}, "packages/a", true},
		{"empty patterns", nil, "packages/a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, pnpm.MatchesWorkspacePattern(tt.patterns, tt.rel))
		})
	}
}
