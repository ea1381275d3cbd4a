package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/aleclarson/subrepo-install/internal/config"
	"github.com/aleclarson/subrepo-install/internal/tui"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactively create a subrepos.json for this project",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			hostRoot, err := resolveHostRoot()
			if err != nil {
				return err
			}
			return runInit(hostRoot)
		},
	}
}

func runInit(hostRoot string) error {
	configPath := filepath.Join(hostRoot, config.FileName)
	if _, err := os.Stat(configPath); err == nil {
		overwrite := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("%s already exists, overwrite it?", config.FileName),
		}
		if err := survey.AskOne(prompt, &overwrite); err != nil {
			return fmt.Errorf("canceled")
		}
		if !overwrite {
			return nil
		}
	}

	var specs []config.SubrepoSpec
	for {
		spec, err := promptSubrepo(specs)
		if err != nil {
			return err
		}
		specs = append(specs, *spec)

		more := false
		prompt := &survey.Confirm{Message: "Add another sub-repository?"}
		if err := survey.AskOne(prompt, &more); err != nil {
			return fmt.Errorf("canceled")
		}
		if !more {
			break
		}
	}

	data, err := json.MarshalIndent(specs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.FileName, err)
	}

	splog := tui.NewSplog()
	splog.Info("Wrote %s with %d sub-repositories. Run subrepo-install to sync.", config.FileName, len(specs))
	return nil
}

func promptSubrepo(existing []config.SubrepoSpec) (*config.SubrepoSpec, error) {
	var remote string
	if err := survey.AskOne(&survey.Input{
		Message: "Remote URL",
	}, &remote, survey.WithValidator(survey.Required)); err != nil {
		return nil, fmt.Errorf("canceled")
	}

	var dir string
	if err := survey.AskOne(&survey.Input{
		Message: "Directory to sync into",
		Default: defaultDirFor(remote),
	}, &dir, survey.WithValidator(func(ans interface{}) error {
		value, _ := ans.(string)
		if value == "" {
			return fmt.Errorf("a directory is required")
		}
		for _, spec := range existing {
			if filepath.Clean(spec.Dir) == filepath.Clean(value) {
				return fmt.Errorf("directory %s is already used", value)
			}
		}
		return nil
	})); err != nil {
		return nil, fmt.Errorf("canceled")
	}

	var ref string
	if err := survey.AskOne(&survey.Input{
		Message: "Branch, tag or commit to track (empty for the default branch)",
	}, &ref); err != nil {
		return nil, fmt.Errorf("canceled")
	}

	return &config.SubrepoSpec{
		Dir:    dir,
		Remote: remote,
		Ref:    ref,
		Root:   config.RootDefault,
	}, nil
}

// defaultDirFor derives a directory name from the repository part of a
// remote URL.
func defaultDirFor(remote string) string {
	name := strings.TrimSuffix(remote, ".git")
	name = strings.TrimRight(name, "/")
	if idx := strings.LastIndexAny(name, "/:"); idx >= 0 {
		name = name[idx+1:]
	}
	if name == "" {
		return "vendor"
	}
	return filepath.Join("vendor", name)
}
