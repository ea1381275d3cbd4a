package pnpm

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	subrepoerrors "github.com/aleclarson/subrepo-install/internal/errors"
)

// DescriptorName is the package descriptor file name
const DescriptorName = "package.json"

// Package is the subset of package.json that install, build and link
// decisions depend on.
type Package struct {
	Name            string            `json:"name"`
	Bin             BinField          `json:"bin,omitempty"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// HasDependencies reports whether the package declares any runtime or
// development dependencies.
func (p *Package) HasDependencies() bool {
	return len(p.Dependencies) > 0 || len(p.DevDependencies) > 0
}

// HasScript reports whether the package declares the named script
func (p *Package) HasScript(name string) bool {
	_, ok := p.Scripts[name]
	return ok
}

// BinField models the package.json "bin" field, which is either a single
// path string (one entry point named after the package) or a mapping of
// entry point name to path.
type BinField struct {
	Default string
	Named   map[string]string
}

// UnmarshalJSON decodes the string-or-map shape of the bin field
func (b *BinField) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		b.Default = single
		b.Named = nil
		return nil
	}

	var named map[string]string
	if err := json.Unmarshal(data, &named); err != nil {
		return err
	}
	b.Named = named
	b.Default = ""
	return nil
}

// IsZero reports whether no entry points are declared
func (b BinField) IsZero() bool {
	return b.Default == "" && len(b.Named) == 0
}

// Entries returns the executable entry points as a mapping of entry point
// name to relative path. A single default entry point is named after the
// unscoped part of pkgName.
func (b BinField) Entries(pkgName string) map[string]string {
	if b.Default != "" {
		name := pkgName
		if idx := strings.LastIndex(name, "/"); idx >= 0 {
			name = name[idx+1:]
		}
		return map[string]string{name: b.Default}
	}
	return b.Named
}

// ReadPackage reads and parses the package descriptor in dir. A missing or
// unparsable descriptor yields a DescriptorError, which callers treat as
// recoverable for linking decisions.
func ReadPackage(dir string) (*Package, error) {
	data, err := os.ReadFile(filepath.Join(dir, DescriptorName))
	if err != nil {
		return nil, subrepoerrors.NewDescriptorError(dir, err)
	}

	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, subrepoerrors.NewDescriptorError(dir, err)
	}
	return &pkg, nil
}
