// Package cli wires the cobra command tree for subrepo-install.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aleclarson/subrepo-install/internal/git"
)

// NewRootCmd creates the root cobra command. Running the bare command is the
// same as running the install subcommand.
func NewRootCmd(version, commit, date string) *cobra.Command {
	var dryRun bool

	rootCmd := &cobra.Command{
		Use:   "subrepo-install",
		Short: "Sync external sub-repositories into your project and install their packages",
		Long: `subrepo-install keeps externally hosted source trees synchronized into your
project, installs their dependencies with pnpm, builds them when needed, and
links their packages into node_modules. Work that is already up to date is
skipped.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstall(cmd.Context(), dryRun)
		},
	}
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report planned work without syncing, installing or building")

	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newInitCmd())

	return rootCmd
}

// resolveHostRoot locates the host project root: the enclosing git repo root
// when there is one, the working directory otherwise.
func resolveHostRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	if root, err := git.RepoRoot(wd); err == nil {
		return root, nil
	}
	return wd, nil
}
