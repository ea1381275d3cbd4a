package engine

import (
	"context"
	"path/filepath"

	"github.com/aleclarson/subrepo-install/internal/config"
	"github.com/aleclarson/subrepo-install/internal/fslink"
	"github.com/aleclarson/subrepo-install/internal/git"
	"github.com/aleclarson/subrepo-install/internal/pnpm"
	"github.com/aleclarson/subrepo-install/internal/tui"
)

// Linker creates idempotent relative symlinks. The production implementation
// is fslink.Linker; tests substitute a recording one.
type Linker interface {
	Ensure(from, to string) error
}

// Engine synchronizes configured sub-repositories into the host project.
// Sub-repositories are processed strictly in configuration order; the only
// shared mutable state is the head store.
type Engine struct {
	git      git.Runner
	pnpm     pnpm.Runner
	heads    HeadStore
	links    Linker
	splog    *tui.Splog
	hostRoot string
	dryRun   bool
}

// Options configures a new Engine. Zero-value collaborators default to the
// real implementations.
type Options struct {
	Git      git.Runner
	Pnpm     pnpm.Runner
	Heads    HeadStore
	Links    Linker
	Splog    *tui.Splog
	HostRoot string
	DryRun   bool
}

// New creates an Engine for the host project at opts.HostRoot
func New(opts Options) *Engine {
	e := &Engine{
		git:      opts.Git,
		pnpm:     opts.Pnpm,
		heads:    opts.Heads,
		links:    opts.Links,
		splog:    opts.Splog,
		hostRoot: opts.HostRoot,
		dryRun:   opts.DryRun,
	}
	if e.git == nil {
		e.git = git.NewRealRunner()
	}
	if e.pnpm == nil {
		e.pnpm = pnpm.NewRealRunner()
	}
	if e.heads == nil {
		e.heads = OpenHeadStore(HeadsPath(opts.HostRoot))
	}
	if e.links == nil {
		e.links = fslink.Linker{}
	}
	if e.splog == nil {
		e.splog = tui.NewSplog()
	}
	return e
}

// Run synchronizes every spec in order, then prunes head store entries for
// packages no longer configured. Any clone, fetch, reset, install or build
// failure aborts the run; there is no partial-state continuation.
func (e *Engine) Run(ctx context.Context, specs []config.SubrepoSpec) error {
	live := make(map[string]struct{})
	for _, spec := range specs {
		if err := e.syncSubrepo(ctx, spec, live); err != nil {
			return err
		}
	}
	if e.dryRun {
		return nil
	}
	return e.heads.Prune(live)
}

// repoDir returns the absolute working-tree path for a spec
func (e *Engine) repoDir(spec config.SubrepoSpec) string {
	return filepath.Join(e.hostRoot, spec.Dir)
}

// nodeModules returns the host's dependency namespace path for name
func (e *Engine) nodeModules(name string) string {
	return filepath.Join(e.hostRoot, "node_modules", name)
}

// binDir returns the host's executable namespace path for name
func (e *Engine) binDir(name string) string {
	return filepath.Join(e.hostRoot, "node_modules", ".bin", name)
}
