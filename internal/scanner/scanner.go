package scanner

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	ignore "github.com/sabhiram/go-gitignore"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/fbkclanna/refsync/internal/depgraph"
	"github.com/fbkclanna/refsync/internal/fsio"
	"github.com/fbkclanna/refsync/internal/report"
	"github.com/fbkclanna/refsync/internal/ui"
	"github.com/fbkclanna/refsync/internal/workspace"
)

// Options configures a workspace scan. Log must be non-nil; Ignore and
// Progress are optional.
type Options struct {
	Rules    []Rule
	Ignore   *ignore.GitIgnore
	FS       fsio.FS
	Log      *report.Reporter
	Progress *ui.Tracker
}

// Result is one package's private scan accumulator: the source files visited
// and the workspace identities its imports resolved to. Results are merged
// into the graph only after every scan has completed.
type Result struct {
	Package string
	Files   []string
	Deps    []string
}

// Scan walks one member's non-excluded source files, extracts their import
// specifiers, and resolves in-workspace imports. An unreadable or unparsable
// file is a warning and the scan continues; a member with no source files is
// valid and yields no deps.
func Scan(ctx *workspace.Context, m *workspace.Member, opts Options) (*Result, error) {
	files, err := opts.FS.List(m.Dir, func(rel string) bool {
		if languages[strings.ToLower(path.Ext(rel))] == nil {
			return false
		}
		candidate := path.Join(m.Path, rel)
		if Excluded(opts.Rules, candidate) {
			opts.Log.Debug("excluded %s", candidate)
			return false
		}
		if opts.Ignore != nil && opts.Ignore.MatchesPath(candidate) {
			opts.Log.Debug("gitignored %s", candidate)
			return false
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	parser := sitter.NewParser()
	defer parser.Close()

	deps := make(map[string]bool)
	for _, rel := range files {
		src, err := opts.FS.Read(filepath.Join(m.Dir, filepath.FromSlash(rel)))
		if err != nil {
			opts.Log.Warn("package %s: skipping unreadable file %s: %v", m.Name(), rel, err)
			continue
		}
		specs, err := importSpecifiers(parser, languages[strings.ToLower(path.Ext(rel))], src)
		if err != nil {
			opts.Log.Warn("package %s: skipping unparsable file %s: %v", m.Name(), rel, err)
			continue
		}
		for _, spec := range specs {
			target, ok := ctx.Resolve(spec)
			if !ok {
				continue // external dependency
			}
			if target.Name() == m.Name() {
				continue
			}
			deps[target.Name()] = true
		}
	}

	res := &Result{Package: m.Name(), Files: files}
	for d := range deps {
		res.Deps = append(res.Deps, d)
	}
	sort.Strings(res.Deps)
	return res, nil
}

// ScanAll scans every member on a bounded worker pool and merges the private
// accumulators into a single deduplicated edge list. No partial result is
// visible until all scans are done.
func ScanAll(ctx *workspace.Context, opts Options, jobs int) ([]depgraph.Edge, error) {
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup
	results := make([]*Result, len(ctx.Members))
	errCh := make(chan error, len(ctx.Members))

	for i, m := range ctx.Members {
		wg.Add(1)
		go func(i int, m *workspace.Member) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := Scan(ctx, m, opts)
			if err != nil {
				errCh <- fmt.Errorf("scanning %s: %w", m.Name(), err)
				return
			}
			results[i] = res
			if opts.Progress != nil {
				opts.Progress.Package(res.Package, len(res.Files), len(res.Deps))
			}
		}(i, m)
	}

	wg.Wait()
	close(errCh)
	for e := range errCh {
		return nil, e
	}

	var edges []depgraph.Edge
	for _, res := range results {
		for _, dep := range res.Deps {
			edges = append(edges, depgraph.Edge{From: res.Package, To: dep})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges, nil
}
