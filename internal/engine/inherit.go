package engine

import (
	"path/filepath"

	"github.com/aleclarson/subrepo-install/internal/config"
)

// inheritDependencies re-exposes selected dependencies of a sub-repository's
// own install to the host project. A missing dependency is warned about and
// skipped; it never fails the run.
func (e *Engine) inheritDependencies(spec config.SubrepoSpec, dir string) {
	for _, name := range spec.InheritDeps {
		depDir := filepath.Join(dir, "node_modules", name)

		pkg, err := e.pnpm.ReadPackage(depDir)
		if err != nil {
			e.splog.Warn("cannot inherit %s from %s: %v", name, spec.Dir, err)
			continue
		}

		if e.dryRun {
			e.splog.Info("  would inherit %s", name)
			continue
		}

		if err := e.links.Ensure(e.nodeModules(name), depDir); err != nil {
			e.splog.Warn("failed to link inherited dependency %s: %v", name, err)
			continue
		}

		// Entry points resolve relative to the dependency's own directory.
		for binName, binPath := range pkg.Bin.Entries(pkg.Name) {
			if err := e.links.Ensure(e.binDir(binName), filepath.Join(depDir, binPath)); err != nil {
				e.splog.Warn("failed to link executable %s: %v", binName, err)
			}
		}
	}
}
