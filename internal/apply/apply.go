// Package apply turns a reconciliation plan into concrete file writes. The
// same operation list backs both the real run and --dry-run, so what a dry
// run reports is exactly what a real run would write.
package apply

import (
	"fmt"
	"sort"

	"github.com/fbkclanna/refsync/internal/fsio"
	"github.com/fbkclanna/refsync/internal/manifest"
	"github.com/fbkclanna/refsync/internal/reconcile"
	"github.com/fbkclanna/refsync/internal/tmpl"
	"github.com/fbkclanna/refsync/internal/workspace"
)

// Op is one pending file write.
type Op struct {
	Path   string // slash path relative to the workspace root, for display
	Abs    string // absolute destination path
	Data   []byte
	Reason string // short human-readable summary of the change
}

// Plan renders the reconciliation plan into the exact bytes each affected
// file will receive. Member documents are mutated in place: dependency
// entries are added with the workspace marker or removed, and the member's
// kind template fills in any missing defaults. A manifest is rewritten when
// it has dependency drift, when it lacks its template defaults, or both;
// manifests with neither are never touched.
func Plan(ctx *workspace.Context, p *reconcile.Plan, current *reconcile.RefFile) ([]Op, error) {
	var ops []Op

	pending := make(map[string]bool, len(p.Changes)+len(p.Templates))
	for name := range p.Changes {
		pending[name] = true
	}
	for _, name := range p.Templates {
		pending[name] = true
	}
	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		change := p.Changes[name]
		m, ok := ctx.Member(name)
		if !ok {
			return nil, fmt.Errorf("plan names unknown package %q", name)
		}

		for _, dep := range change.Add {
			m.Doc.SetDependency(dep, manifest.WorkspaceMarker)
		}
		for _, dep := range change.Remove {
			m.Doc.RemoveDependency(dep)
		}
		tmpl.Apply(m.Doc, m.Doc.Pkg.EffectiveKind(ctx.Manifest.Defaults))

		data, err := m.Doc.Marshal()
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", m.Path, err)
		}
		ops = append(ops, Op{
			Path:   m.Path + "/" + workspace.PackageFileName,
			Abs:    m.ManifestPath,
			Data:   data,
			Reason: describe(change),
		})
	}

	if p.RefsChanged {
		refs := reconcile.NewRefFile(p.RefPaths, current)
		data, err := refs.Marshal()
		if err != nil {
			return nil, err
		}
		ops = append(ops, Op{
			Path:   workspace.RefsFileName,
			Abs:    ctx.RefsPath,
			Data:   data,
			Reason: fmt.Sprintf("%d ordered references", len(refs.References)),
		})
	}

	return ops, nil
}

// Commit writes every operation, stopping at the first failure so a partial
// run leaves a clear trail of what was and was not written.
func Commit(fsys fsio.FS, ops []Op) error {
	for _, op := range ops {
		if err := fsys.Write(op.Abs, op.Data); err != nil {
			return fmt.Errorf("writing %s: %w", op.Path, err)
		}
	}
	return nil
}

func describe(c reconcile.Change) string {
	switch {
	case len(c.Add) > 0 && len(c.Remove) > 0:
		return fmt.Sprintf("+%d -%d dependencies", len(c.Add), len(c.Remove))
	case len(c.Add) > 0:
		return fmt.Sprintf("+%d dependencies", len(c.Add))
	case len(c.Remove) > 0:
		return fmt.Sprintf("-%d dependencies", len(c.Remove))
	default:
		return "template defaults"
	}
}
