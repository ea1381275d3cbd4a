package pnpm

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// workspaceManifest is the parsed shape of pnpm-workspace.yaml
type workspaceManifest struct {
	Packages []string `yaml:"packages"`
}

// WorkspacePatterns returns the package globs declared by the workspace
// manifest at dir, or nil when dir is not a workspace root.
func WorkspacePatterns(dir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, WorkspaceManifest))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read workspace manifest: %w", err)
	}

	var manifest workspaceManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse workspace manifest: %w", err)
	}
	return manifest.Packages, nil
}

// MatchesWorkspacePattern reports whether the slash-separated relative path
// rel is covered by any of the workspace package globs. Supports the glob
// shapes pnpm documents: literal paths, single-star segments ("packages/*")
// and recursive suffixes ("packages/**").
func MatchesWorkspacePattern(patterns []string, rel string) bool {
	rel = path.Clean(filepath.ToSlash(rel))
	matched := false
	for _, pattern := range patterns {
		negate := strings.HasPrefix(pattern, "!")
		pattern = path.Clean(filepath.ToSlash(strings.TrimPrefix(pattern, "!")))

		hit := false
		if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
			hit = rel == prefix || strings.HasPrefix(rel, prefix+"/")
		} else {
			hit, _ = path.Match(pattern, rel)
		}
		if hit {
			// Later patterns win; negations remove earlier matches.
			matched = !negate
		}
	}
	return matched
}
