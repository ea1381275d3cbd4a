package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aleclarson/subrepo-install/internal/config"
	"github.com/aleclarson/subrepo-install/internal/engine"
	"github.com/aleclarson/subrepo-install/internal/tui"
)

func newInstallCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Sync all configured sub-repositories and install their packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstall(cmd.Context(), dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report planned work without syncing, installing or building")

	return cmd
}

func runInstall(ctx context.Context, dryRun bool) error {
	hostRoot, err := resolveHostRoot()
	if err != nil {
		return err
	}

	specs, err := config.Load(hostRoot)
	if err != nil {
		return err
	}

	splog := tui.NewSplog()
	defer func() { _ = splog.Close() }()

	eng := engine.New(engine.Options{
		HostRoot: hostRoot,
		Splog:    splog,
		DryRun:   dryRun,
	})
	return eng.Run(ctx, specs)
}
