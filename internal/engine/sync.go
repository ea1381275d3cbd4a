package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aleclarson/subrepo-install/internal/config"
	"github.com/aleclarson/subrepo-install/internal/git"
	"github.com/aleclarson/subrepo-install/internal/tui/style"
)

// refResolution is the outcome of deciding which ref a sub-repository tracks
type refResolution struct {
	// ref is the effective ref to fetch. Empty means the remote's default
	// branch, which only happens for a fresh clone with no explicit ref.
	ref string

	// target is the commit the working tree should end up at. Empty when
	// the target is unknown until after cloning.
	target string
}

// resolveRef decides the effective ref for a spec. An explicit ref is used
// verbatim; otherwise an existing clone tracks whatever branch is checked
// out. A full commit hash is immutable and never re-resolved; any other ref
// is re-resolved against the remote on every run.
func (e *Engine) resolveRef(ctx context.Context, spec config.SubrepoSpec, dir string, cloneExists bool) (refResolution, error) {
	ref := spec.Ref
	if ref == "" && cloneExists {
		branch, err := e.git.CurrentBranch(ctx, dir)
		if err != nil {
			return refResolution{}, err
		}
		ref = branch
	}
	if ref == "" {
		return refResolution{}, nil
	}
	if git.IsCommitHash(ref) {
		return refResolution{ref: ref, target: ref}, nil
	}

	target, err := e.git.LsRemote(ctx, spec.Remote, ref)
	if err != nil {
		return refResolution{}, err
	}
	return refResolution{ref: ref, target: target}, nil
}

// syncSubrepo brings one sub-repository's working tree up to date and then
// processes its packages, extra file links and inherited dependencies.
func (e *Engine) syncSubrepo(ctx context.Context, spec config.SubrepoSpec, live map[string]struct{}) error {
	dir := e.repoDir(spec)

	// A workspace override bypasses cloning entirely: the spec dir becomes a
	// link to a pre-existing copy managed by the enclosing workspace, and no
	// version-control operation runs for this sub-repository.
	if spec.Workspace != "" && e.pnpm.IsWorkspaceRoot(e.hostRoot) {
		override := filepath.Join(e.hostRoot, spec.Workspace)
		if e.dryRun {
			e.splog.Info("%s would link to workspace copy %s", style.Repo(spec.Dir), spec.Workspace)
		} else if err := e.links.Ensure(dir, override); err != nil {
			return err
		}
		e.linkExtraFiles(spec, dir)
		e.inheritDependencies(spec, dir)
		return nil
	}
	if spec.Remote == "" {
		return fmt.Errorf("sub-repository %s has no remote and no usable workspace override", spec.Dir)
	}

	head, synced, err := e.syncWorkingTree(ctx, spec, dir)
	if err != nil {
		return err
	}
	if !synced {
		// Dry run against a missing clone: nothing to inspect.
		return nil
	}

	repoIsWorkspace := e.pnpm.IsWorkspaceRoot(dir)
	var patterns []string
	if repoIsWorkspace {
		patterns = e.pnpm.WorkspacePatterns(dir)
	}

	for _, unit := range e.packageUnits(spec, dir) {
		if err := e.processUnit(ctx, spec, dir, unit, repoIsWorkspace, patterns, live); err != nil {
			return err
		}
	}

	e.linkExtraFiles(spec, dir)
	e.inheritDependencies(spec, dir)
	e.splog.Debug("%s synced at %s", spec.Dir, head)
	return nil
}

// syncWorkingTree clones a missing tree or fetches/resets an existing one to
// the resolved ref. The returned bool is false when a dry run had nothing to
// inspect because the clone does not exist yet.
func (e *Engine) syncWorkingTree(ctx context.Context, spec config.SubrepoSpec, dir string) (string, bool, error) {
	cloneExists := e.git.IsClone(dir)
	res, err := e.resolveRef(ctx, spec, dir, cloneExists)
	if err != nil {
		return "", false, err
	}

	if !cloneExists {
		if e.dryRun {
			e.splog.Info("%s would clone %s", style.Repo(spec.Dir), spec.Remote)
			return "", false, nil
		}
		branch := ""
		if res.ref != "" && !git.IsCommitHash(res.ref) {
			branch = res.ref
		}
		if err := e.git.CloneShallow(ctx, spec.Remote, dir, branch); err != nil {
			return "", false, err
		}
		head, err := e.git.Head(ctx, dir)
		if err != nil {
			return "", false, err
		}
		// A commit-hash ref cannot be cloned directly; fetch it and reset.
		if git.IsCommitHash(res.ref) && head != res.ref {
			if err := e.git.FetchShallow(ctx, dir, spec.Remote, res.ref); err != nil {
				return "", false, err
			}
			if err := e.git.HardReset(ctx, dir, res.ref); err != nil {
				return "", false, err
			}
			head = res.ref
		}
		e.splog.Info("%s cloned at %s", style.Repo(spec.Dir), style.Dim(shortHash(head)))
		return head, true, nil
	}

	head, err := e.git.Head(ctx, dir)
	if err != nil {
		return "", false, err
	}
	if head == res.target {
		// Already at the desired commit; skip fetch and reset entirely.
		return head, true, nil
	}

	if e.dryRun {
		e.splog.Info("%s would sync %s to %s", style.Repo(spec.Dir), res.ref, style.Dim(shortHash(res.target)))
		return head, true, nil
	}

	if err := e.git.FetchShallow(ctx, dir, spec.Remote, res.ref); err != nil {
		return "", false, err
	}
	// Discards local modifications; synced trees are not round-trip safe.
	if err := e.git.HardReset(ctx, dir, "FETCH_HEAD"); err != nil {
		return "", false, err
	}
	head, err = e.git.Head(ctx, dir)
	if err != nil {
		return "", false, err
	}
	e.splog.Info("%s synced to %s", style.Repo(spec.Dir), style.Dim(shortHash(head)))
	return head, true, nil
}

// linkExtraFiles creates the spec's extra symlinks from host destinations to
// sub-repository sources
func (e *Engine) linkExtraFiles(spec config.SubrepoSpec, dir string) {
	for src, dst := range spec.LinkFiles {
		from := filepath.Join(e.hostRoot, dst)
		to := filepath.Join(dir, src)
		if e.dryRun {
			e.splog.Info("  would link %s -> %s", dst, src)
			continue
		}
		if err := e.links.Ensure(from, to); err != nil {
			e.splog.Warn("failed to link %s: %v", dst, err)
		}
	}
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
