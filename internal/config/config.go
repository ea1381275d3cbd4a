// Package config provides configuration management for subrepo-install,
// including reading and validating the host project's subrepos.json file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	subrepoerrors "github.com/aleclarson/subrepo-install/internal/errors"
)

// FileName is the configuration file expected at the host project root
const FileName = "subrepos.json"

// RootStrategy controls how a sub-repository's root package is processed
type RootStrategy string

const (
	// RootDefault installs, builds and links the root package
	RootDefault RootStrategy = "default"

	// RootInstallOnly installs the root package but never builds or links it
	RootInstallOnly RootStrategy = "install-only"

	// RootIgnore skips the root package entirely: no install, no build,
	// no link, no head tracking
	RootIgnore RootStrategy = "ignore"
)

// UnmarshalJSON validates the strategy at load time; an absent or empty
// value means RootDefault.
func (s *RootStrategy) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch RootStrategy(raw) {
	case RootDefault, RootInstallOnly, RootIgnore:
		*s = RootStrategy(raw)
	case "":
		*s = RootDefault
	default:
		return fmt.Errorf("invalid root strategy %q (want default, install-only or ignore)", raw)
	}
	return nil
}

// PackageRef identifies a package inside a sub-repository. It decodes from
// either a bare relative path string or a {name, path} object, where name
// overrides the locally-linked package name.
type PackageRef struct {
	// Name is the override for the name the package is linked under in the
	// host's node_modules. Empty for a bare path reference.
	Name string `json:"name,omitempty"`

	// Path is the package directory relative to the sub-repository root.
	Path string `json:"path"`
}

// UnmarshalJSON decodes the string-or-object shape of a package reference
func (p *PackageRef) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		p.Name = ""
		p.Path = bare
		return nil
	}

	type packageRef PackageRef
	var named packageRef
	if err := json.Unmarshal(data, &named); err != nil {
		return err
	}
	if named.Path == "" {
		return fmt.Errorf("package reference is missing a path")
	}
	*p = PackageRef(named)
	return nil
}

// SubrepoSpec is the configuration unit for one tracked external source tree
type SubrepoSpec struct {
	// Dir is the path, relative to the host root, the sub-repository is
	// synced into. Unique across all specs.
	Dir string `json:"dir"`

	// Remote is the fetch URL of the sub-repository.
	Remote string `json:"remote"`

	// Ref is an optional branch, tag or full commit hash to track. When
	// empty, an existing clone tracks its checked-out branch and a fresh
	// clone uses the remote's default branch.
	Ref string `json:"ref,omitempty"`

	// Packages lists the sub-packages to process, in order.
	Packages []PackageRef `json:"packages,omitempty"`

	// Root controls processing of the sub-repository's root package.
	Root RootStrategy `json:"root,omitempty"`

	// Workspace optionally points at a pre-existing copy to link instead of
	// cloning. Only honored when the host project is itself a recognized
	// workspace.
	Workspace string `json:"workspace,omitempty"`

	// InheritDeps names dependencies of the sub-repository's own install to
	// re-expose to the host.
	InheritDeps []string `json:"inheritDependencies,omitempty"`

	// LinkFiles maps sub-repository-relative source paths to host-relative
	// destinations for extra symlinks.
	LinkFiles map[string]string `json:"linkFiles,omitempty"`
}

// Load reads and validates the subrepos.json at hostRoot
func Load(hostRoot string) ([]SubrepoSpec, error) {
	path := filepath.Join(hostRoot, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a subrepos.json document
func Parse(data []byte) ([]SubrepoSpec, error) {
	var specs []SubrepoSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	seen := make(map[string]struct{}, len(specs))
	for i := range specs {
		spec := &specs[i]
		if spec.Dir == "" {
			return nil, fmt.Errorf("sub-repository %d is missing a dir", i)
		}
		if spec.Remote == "" && spec.Workspace == "" {
			return nil, fmt.Errorf("sub-repository %s is missing a remote", spec.Dir)
		}
		if spec.Root == "" {
			spec.Root = RootDefault
		}

		dir := filepath.Clean(spec.Dir)
		if _, dup := seen[dir]; dup {
			return nil, fmt.Errorf("%w: %s", subrepoerrors.ErrDuplicateDir, spec.Dir)
		}
		seen[dir] = struct{}{}
	}
	return specs, nil
}
