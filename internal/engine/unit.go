package engine

import (
	"context"
	"path"
	"path/filepath"

	"github.com/aleclarson/subrepo-install/internal/config"
	"github.com/aleclarson/subrepo-install/internal/pnpm"
	"github.com/aleclarson/subrepo-install/internal/tui/style"
)

// PackageUnit identifies one package inside a synchronized sub-repository.
// Units are recomputed from the working tree on every run; only their
// subtree head is persisted.
type PackageUnit struct {
	// Key is the head-store lookup key, combining the sub-repository dir
	// and the package's relative path.
	Key string

	// NameOverride is the configured local name, empty to use the
	// descriptor's own name.
	NameOverride string

	// Dir is the absolute package directory.
	Dir string

	// RelPath is the package path relative to the sub-repository root,
	// "." for the root package.
	RelPath string

	// IsRoot marks the sub-repository's root package.
	IsRoot bool
}

// unitKey builds the stable identity for a package unit
func unitKey(spec config.SubrepoSpec, rel string) string {
	dir := path.Clean(filepath.ToSlash(spec.Dir))
	return dir + ":" + path.Clean(filepath.ToSlash(rel))
}

// packageUnits lists the units of a spec in processing order: the root
// package first, then each declared sub-package.
func (e *Engine) packageUnits(spec config.SubrepoSpec, dir string) []PackageUnit {
	units := make([]PackageUnit, 0, len(spec.Packages)+1)
	units = append(units, PackageUnit{
		Key:     unitKey(spec, "."),
		Dir:     dir,
		RelPath: ".",
		IsRoot:  true,
	})
	for _, ref := range spec.Packages {
		units = append(units, PackageUnit{
			Key:          unitKey(spec, ref.Path),
			NameOverride: ref.Name,
			Dir:          filepath.Join(dir, ref.Path),
			RelPath:      ref.Path,
		})
	}
	return units
}

// processUnit decides and performs dependency installation, build invocation
// and local linking for one package unit.
//
// Three independent gates apply:
//  1. Install: the package declares dependencies and is not a workspace
//     member already covered by the sub-repository root's install.
//  2. Build: the package declares a build script, and the root strategy does
//     not exclude building the root.
//  3. Link: always, unless the root strategy excludes the root.
//
// Install and build only run when the package's subtree head moved since the
// last recorded run; the unit is tracked whenever gate 1 or 2 applies so
// future runs have a baseline.
func (e *Engine) processUnit(ctx context.Context, spec config.SubrepoSpec, dir string, unit PackageUnit, repoIsWorkspace bool, patterns []string, live map[string]struct{}) error {
	if unit.IsRoot && spec.Root == config.RootIgnore {
		return nil
	}

	pkg, err := e.pnpm.ReadPackage(unit.Dir)
	if err != nil {
		// Recoverable: skip this unit, continue with the rest of the run.
		e.splog.Warn("skipping %s: %v", unit.Key, err)
		return nil
	}

	head, err := e.git.SubtreeHead(ctx, dir, unit.RelPath)
	if err != nil {
		return err
	}
	changed := e.heads.IsChanged(unit.Key, head)

	// A workspace member is installed by the root's own install; running
	// pnpm scoped to the member alone would resolve workspace links wrong.
	workspaceMember := repoIsWorkspace && !unit.IsRoot &&
		pnpm.MatchesWorkspacePattern(patterns, unit.RelPath)

	tracked := false

	if pkg.HasDependencies() && !workspaceMember {
		tracked = true
		if changed {
			if err := e.installUnit(ctx, unit, repoIsWorkspace); err != nil {
				return err
			}
		}
	}

	if pkg.HasScript("build") && !(unit.IsRoot && spec.Root == config.RootInstallOnly) {
		tracked = true
		if changed {
			if e.dryRun {
				e.splog.Info("  would build %s", unit.Key)
			} else {
				e.splog.Info("  building %s", style.Repo(displayName(pkg, unit)))
				if err := e.pnpm.RunScript(ctx, unit.Dir, "build"); err != nil {
					return err
				}
			}
		}
	}

	if !(unit.IsRoot && spec.Root == config.RootInstallOnly) && !e.dryRun {
		name := displayName(pkg, unit)
		if name != "" {
			if err := e.links.Ensure(e.nodeModules(name), unit.Dir); err != nil {
				return err
			}
		}
	}

	if tracked {
		live[unit.Key] = struct{}{}
		if changed && !e.dryRun {
			if err := e.heads.Record(unit.Key, head); err != nil {
				return err
			}
		}
	}
	return nil
}

// installUnit runs a dependency install scoped to the unit's directory
func (e *Engine) installUnit(ctx context.Context, unit PackageUnit, repoIsWorkspace bool) error {
	opts := pnpm.InstallOptions{
		// Do not generate a lockfile the upstream repo never had.
		NoLockfile: !e.pnpm.HasLockfile(unit.Dir),
		// Keep the install from attaching to an unrelated ancestor
		// workspace when neither the sub-repository root nor the package
		// itself is a workspace root.
		IgnoreWorkspace: !repoIsWorkspace && !e.pnpm.IsWorkspaceRoot(unit.Dir),
	}
	if e.dryRun {
		e.splog.Info("  would install %s", unit.Key)
		return nil
	}
	e.splog.Info("  installing %s", style.Repo(unit.Key))
	return e.pnpm.Install(ctx, unit.Dir, opts)
}

// displayName resolves the name a unit is exposed under in the host
func displayName(pkg *pnpm.Package, unit PackageUnit) string {
	if unit.NameOverride != "" {
		return unit.NameOverride
	}
	return pkg.Name
}
