package engine

import (
	"context"

	"github.com/aleclarson/subrepo-install/internal/config"
)

// PackageStatus reports one package unit's recorded head versus the head
// currently on disk.
type PackageStatus struct {
	Key      string
	Name     string
	RelPath  string
	Recorded string // last head persisted for this unit, empty if none
	Current  string // subtree head of the working tree right now
}

// UpToDate reports whether the unit needs no install or build work
func (p PackageStatus) UpToDate() bool {
	return p.Recorded != "" && p.Recorded == p.Current
}

// RepoStatus reports the state of one configured sub-repository
type RepoStatus struct {
	Dir      string
	Cloned   bool
	Head     string
	Packages []PackageStatus
}

// Status inspects every configured sub-repository without mutating anything:
// no clone, fetch, reset, install, build or link runs.
func (e *Engine) Status(ctx context.Context, specs []config.SubrepoSpec) ([]RepoStatus, error) {
	statuses := make([]RepoStatus, 0, len(specs))
	for _, spec := range specs {
		dir := e.repoDir(spec)
		status := RepoStatus{Dir: spec.Dir}

		if !e.git.IsClone(dir) {
			statuses = append(statuses, status)
			continue
		}
		status.Cloned = true

		head, err := e.git.Head(ctx, dir)
		if err != nil {
			return nil, err
		}
		status.Head = head

		for _, unit := range e.packageUnits(spec, dir) {
			if unit.IsRoot && spec.Root == config.RootIgnore {
				continue
			}
			current, err := e.git.SubtreeHead(ctx, dir, unit.RelPath)
			if err != nil {
				return nil, err
			}
			recorded, _ := e.heads.Get(unit.Key)

			name := unit.NameOverride
			if pkg, err := e.pnpm.ReadPackage(unit.Dir); err == nil && name == "" {
				name = pkg.Name
			}
			status.Packages = append(status.Packages, PackageStatus{
				Key:      unit.Key,
				Name:     name,
				RelPath:  unit.RelPath,
				Recorded: recorded,
				Current:  current,
			})
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
