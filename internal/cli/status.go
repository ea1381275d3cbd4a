package cli

import (
	"github.com/spf13/cobra"

	"github.com/aleclarson/subrepo-install/internal/config"
	"github.com/aleclarson/subrepo-install/internal/engine"
	"github.com/aleclarson/subrepo-install/internal/tui"
	"github.com/aleclarson/subrepo-install/internal/tui/style"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which sub-repository packages are up to date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			eng := engine.New(engine.Options{HostRoot: hostRoot, Splog: splog})
			statuses, err := eng.Status(cmd.Context(), specs)
			if err != nil {
				return err
			}

			for _, repo := range statuses {
				if !repo.Cloned {
					splog.Info("%s %s", style.Repo(repo.Dir), style.Bad("not cloned"))
					continue
				}
				splog.Info("%s %s", style.Repo(repo.Dir), style.Dim(shortHash(repo.Head)))
				for _, pkg := range repo.Packages {
					name := pkg.Name
					if name == "" {
						name = pkg.RelPath
					}
					switch {
					case pkg.UpToDate():
						splog.Info("  %s %s", name, style.Ok("up to date"))
					case pkg.Recorded == "":
						splog.Info("  %s %s", name, style.Stale("never installed"))
					default:
						splog.Info("  %s %s", name, style.Stale("stale"))
					}
				}
			}
			return nil
		},
	}
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
