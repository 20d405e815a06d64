package reconcile

import (
	"sort"

	"github.com/fbkclanna/refsync/internal/depgraph"
	"github.com/fbkclanna/refsync/internal/tmpl"
	"github.com/fbkclanna/refsync/internal/workspace"
)

// Change is the manifest adjustment computed for one package.
type Change struct {
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// Plan maps package identities to their manifest changes, lists the packages
// whose manifests are missing their kind's template defaults, and carries the
// ordered reference list for the build-reference file. An empty plan means
// the workspace already matches its sources.
type Plan struct {
	Changes     map[string]Change
	Templates   []string // identities missing template defaults, sorted
	Refs        []string // ordered member identities for the reference file
	RefPaths    []string // ordered reference paths, non-member entries kept
	RefsChanged bool
}

// Empty reports whether the plan is a no-op.
func (p *Plan) Empty() bool {
	return len(p.Changes) == 0 && len(p.Templates) == 0 && !p.RefsChanged
}

// Build diffs the validated graph against the current manifest dependencies
// and the current reference file, producing the minimal set of additions and
// removals. Only entries whose target is a known workspace identity are ever
// removed; externally-managed dependencies are preserved verbatim. A manifest
// lacking its kind's structural defaults is planned for a rewrite even when
// its dependencies are already converged.
func Build(ctx *workspace.Context, g *depgraph.Graph, current *RefFile) *Plan {
	plan := &Plan{Changes: make(map[string]Change)}

	for _, m := range ctx.Members {
		graphDeps := g.Deps(m.Name())
		inGraph := make(map[string]bool, len(graphDeps))
		for _, d := range graphDeps {
			inGraph[d] = true
		}

		var change Change
		for _, d := range graphDeps {
			if _, declared := m.Doc.Pkg.Dependencies[d]; !declared {
				change.Add = append(change.Add, d)
			}
		}
		for _, d := range m.Doc.Pkg.DependencyNames() {
			if inGraph[d] {
				continue
			}
			if _, managed := ctx.Member(d); !managed {
				continue // external registry dependency, never touched
			}
			change.Remove = append(change.Remove, d)
		}
		sort.Strings(change.Add)
		if len(change.Add) > 0 || len(change.Remove) > 0 {
			plan.Changes[m.Name()] = change
		}

		if tmpl.Needs(m.Doc, m.Doc.Pkg.EffectiveKind(ctx.Manifest.Defaults)) {
			plan.Templates = append(plan.Templates, m.Name())
		}
	}
	sort.Strings(plan.Templates)

	plan.Refs = referenceOrder(ctx, g, current)
	plan.RefPaths = refPaths(ctx, plan.Refs, current)
	plan.RefsChanged = refsChanged(plan.RefPaths, current)
	return plan
}

// referenceOrder restricts the global topological order to packages that
// participate in at least one edge. Isolated packages stay listed only if the
// existing file already names them, so unrelated entries never churn.
func referenceOrder(ctx *workspace.Context, g *depgraph.Graph, current *RefFile) []string {
	listed := make(map[string]bool)
	if current != nil {
		for _, p := range current.Paths() {
			for _, m := range ctx.Members {
				if m.Path == p {
					listed[m.Name()] = true
				}
			}
		}
	}

	var refs []string
	for _, id := range g.TopoOrder() {
		if g.HasEdges(id) || listed[id] {
			refs = append(refs, id)
		}
	}
	return refs
}

// refPaths maps the ordered identities to member directory paths and carries
// current reference entries that resolve to no workspace member through in
// their existing positions. Such entries are managed outside this tool, like
// external registry dependencies, and are never dropped or reordered.
func refPaths(ctx *workspace.Context, refs []string, current *RefFile) []string {
	paths := make([]string, 0, len(refs))
	for _, id := range refs {
		if m, ok := ctx.Member(id); ok {
			paths = append(paths, m.Path)
		}
	}
	if current == nil {
		return paths
	}

	memberPath := make(map[string]bool, len(ctx.Members))
	for _, m := range ctx.Members {
		memberPath[m.Path] = true
	}

	// Anchor each foreign entry to the member entry preceding it in the
	// current file; entries before the first member entry stay at the head.
	var head []string
	following := make(map[string][]string)
	var anchors []string
	anchor := ""
	for _, p := range current.Paths() {
		if memberPath[p] {
			anchor = p
			continue
		}
		if anchor == "" {
			head = append(head, p)
			continue
		}
		if _, ok := following[anchor]; !ok {
			anchors = append(anchors, anchor)
		}
		following[anchor] = append(following[anchor], p)
	}
	if len(head) == 0 && len(following) == 0 {
		return paths
	}

	out := make([]string, 0, len(paths)+len(head))
	out = append(out, head...)
	placed := make(map[string]bool, len(following))
	for _, p := range paths {
		out = append(out, p)
		if f := following[p]; f != nil {
			out = append(out, f...)
			placed[p] = true
		}
	}
	// Entries anchored to a member that is no longer listed go at the end,
	// keeping their file order.
	for _, a := range anchors {
		if !placed[a] {
			out = append(out, following[a]...)
		}
	}
	return out
}

func refsChanged(want []string, current *RefFile) bool {
	if current == nil {
		return len(want) > 0
	}
	have := current.Paths()
	if len(have) != len(want) {
		return true
	}
	for i := range have {
		if have[i] != want[i] {
			return true
		}
	}
	return false
}
