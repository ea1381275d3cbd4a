package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aleclarson/subrepo-install/internal/config"
	subrepoerrors "github.com/aleclarson/subrepo-install/internal/errors"
)

func TestParse(t *testing.T) {
	t.Run("bare path and named package references", func(t *testing.T) {
		specs, err := config.Parse([]byte(`[
			{
				"dir": "vendor/lib",
				"remote": "https://example.com/lib.git",
				"packages": [
					"packages/a",
					{"name": "@host/b", "path": "packages/b"}
				]
			}
		]`))
		require.NoError(t, err)
		require.Len(t, specs, 1)
		require.Equal(t, []config.PackageRef{
			{Path: "packages/a"},
			{Name: "@host/b", Path: "packages/b"},
		}, specs[0].Packages)
		require.Equal(t, config.RootDefault, specs[0].Root)
	})

	t.Run("root strategies", func(t *testing.T) {
		specs, err := config.Parse([]byte(`[
			{"dir": "a", "remote": "r", "root": "ignore"},
			{"dir": "b", "remote": "r", "root": "install-only"},
			{"dir": "c", "remote": "r", "root": "default"}
		]`))
		require.NoError(t, err)
		require.Equal(t, config.RootIgnore, specs[0].Root)
		require.Equal(t, config.RootInstallOnly, specs[1].Root)
		require.Equal(t, config.RootDefault, specs[2].Root)
	})

	t.Run("invalid root strategy is rejected", func(t *testing.T) {
		_, err := config.Parse([]byte(`[{"dir": "a", "remote": "r", "root": "sometimes"}]`))
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid root strategy")
	})

	t.Run("duplicate dirs are rejected", func(t *testing.T) {
		_, err := config.Parse([]byte(`[
			{"dir": "vendor/lib", "remote": "r1"},
			{"dir": "vendor/lib/", "remote": "r2"}
		]`))
		require.ErrorIs(t, err, subrepoerrors.ErrDuplicateDir)
	})

	t.Run("missing remote is rejected", func(t *testing.T) {
		_, err := config.Parse([]byte(`[{"dir": "vendor/lib"}]`))
		require.Error(t, err)
		require.Contains(t, err.Error(), "missing a remote")
	})

	t.Run("workspace override allows a missing remote", func(t *testing.T) {
		specs, err := config.Parse([]byte(`[{"dir": "vendor/lib", "workspace": "packages/lib"}]`))
		require.NoError(t, err)
		require.Equal(t, "packages/lib", specs[0].Workspace)
	})

	t.Run("package reference without a path is rejected", func(t *testing.T) {
		_, err := config.Parse([]byte(`[
			{"dir": "a", "remote": "r", "packages": [{"name": "x"}]}
		]`))
		require.Error(t, err)
		require.Contains(t, err.Error(), "missing a path")
	})

	t.Run("inherit and link file fields", func(t *testing.T) {
		specs, err := config.Parse([]byte(`[{
			"dir": "vendor/lib",
			"remote": "r",
			"ref": "v2.1.0",
			"inheritDependencies": ["esbuild"],
			"linkFiles": {"schema/openapi.json": "schema.json"}
		}]`))
		require.NoError(t, err)
		require.Equal(t, "v2.1.0", specs[0].Ref)
		require.Equal(t, []string{"esbuild"}, specs[0].InheritDeps)
		require.Equal(t, map[string]string{"schema/openapi.json": "schema.json"}, specs[0].LinkFiles)
	})
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(`[{"dir": "vendor/lib", "remote": "r"}]`), 0o644))

	specs, err := config.Load(root)
	require.NoError(t, err)
	require.Len(t, specs, 1)

	_, err = config.Load(t.TempDir())
	require.Error(t, err, "a missing config file is an error, not an empty config")
}
